package patterns

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalogue is an immutable, validated collection of patterns keyed by id.
// A *Catalogue is safe to share across goroutines once built; callers that
// want to hot-swap a catalogue should do so behind an atomic.Pointer, never
// by mutating one in place.
type Catalogue struct {
	patterns []Pattern
	byID     map[string]Pattern
}

// Patterns returns the catalogue's patterns in declaration order.
func (c *Catalogue) Patterns() []Pattern {
	out := make([]Pattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}

// Lookup returns the pattern with the given id, if any.
func (c *Catalogue) Lookup(id string) (Pattern, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Len reports how many patterns the catalogue holds.
func (c *Catalogue) Len() int { return len(c.patterns) }

// decodeDocument parses raw bytes as YAML or JSON based on the file
// extension. YAML is a superset of JSON in gopkg.in/yaml.v3's decoder, but
// we keep the dispatch explicit so error messages name the right format.
func decodeDocument(name string, data []byte) (*Document, error) {
	var doc Document
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("patterns: %s: invalid json: %w", name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("patterns: %s: invalid yaml: %w", name, err)
		}
	default:
		// Fall back to sniffing: try JSON first, then YAML.
		if err := json.Unmarshal(data, &doc); err != nil {
			if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
				return nil, fmt.Errorf("patterns: %s: could not parse as json (%v) or yaml (%v)", name, err, yerr)
			}
		}
	}
	return &doc, nil
}

// LoadFile reads a single JSON or YAML pattern document and returns a
// validated Catalogue.
func LoadFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("patterns: %w", err)
	}
	doc, err := decodeDocument(path, data)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	return newCatalogue(map[string][]Pattern{path: doc.Patterns})
}

// LoadDir reads every *.json/*.yaml/*.yml file directly under dir (no
// recursion), validates each document, and merges them into a single
// Catalogue. Duplicate pattern ids across files are rejected.
func LoadDir(dir string) (*Catalogue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("patterns: %w", err)
	}

	bySource := make(map[string][]Pattern)
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("patterns: %w", err)
		}
		doc, err := decodeDocument(path, data)
		if err != nil {
			return nil, err
		}
		if err := validateDocument(doc); err != nil {
			return nil, err
		}
		bySource[path] = doc.Patterns
	}

	return newCatalogue(bySource)
}

// Merge combines already-validated catalogues into one, still checking for
// cross-catalogue duplicate ids.
func Merge(cats ...*Catalogue) (*Catalogue, error) {
	bySource := make(map[string][]Pattern)
	for i, c := range cats {
		bySource[fmt.Sprintf("catalogue[%d]", i)] = c.Patterns()
	}
	return newCatalogue(bySource)
}

func newCatalogue(bySource map[string][]Pattern) (*Catalogue, error) {
	sources := make([]string, 0, len(bySource))
	for s := range bySource {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	byID := make(map[string]Pattern)
	firstSource := make(map[string]string)
	var all []Pattern

	for _, src := range sources {
		for _, p := range bySource[src] {
			if prev, ok := firstSource[p.ID]; ok {
				return nil, &DuplicateIDError{ID: p.ID, First: prev, Dup: src}
			}
			firstSource[p.ID] = src
			byID[p.ID] = p
			all = append(all, p)
		}
	}

	return &Catalogue{patterns: all, byID: byID}, nil
}
