// Package patterns declares the pattern AST (C4's schema) and the loader
// that reads, validates, and merges pattern catalogues from JSON or YAML
// sources.
package patterns

// Scope is where a pattern's matchers operate.
type Scope string

const (
	ScopeHarmonic Scope = "harmonic"
	ScopeMelodic  Scope = "melodic"
	ScopeScale    Scope = "scale"
)

// Track is an analytical pathway a pattern contributes evidence to.
type Track string

const (
	TrackFunctional Track = "functional"
	TrackModal      Track = "modal"
	TrackChromatic  Track = "chromatic"
)

// ConflictPolicy selects how the aggregator resolves overlapping evidence
// for a pattern family.
type ConflictPolicy string

const (
	ConflictSoftNMS  ConflictPolicy = "soft_nms"
	ConflictMaxPool  ConflictPolicy = "max_pool"
	ConflictNone     ConflictPolicy = "none"
)

// Window bounds candidate spans for a pattern.
type Window struct {
	Len        int  `json:"len" yaml:"len"`
	OverlapOK  bool `json:"overlap_ok" yaml:"overlap_ok"`
	MinGap     int  `json:"min_gap" yaml:"min_gap"`
}

// Constraints are predicates checked against a matched span.
type Constraints struct {
	SopranoDegree        []int    `json:"soprano_degree,omitempty" yaml:"soprano_degree,omitempty"`
	BassMotion           []int    `json:"bass_motion,omitempty" yaml:"bass_motion,omitempty"`
	Position             string   `json:"position,omitempty" yaml:"position,omitempty"` // start|middle|end
	ModeAnyOf            []string `json:"mode_any_of,omitempty" yaml:"mode_any_of,omitempty"`
	CharacteristicInterval []int  `json:"characteristic_interval,omitempty" yaml:"characteristic_interval,omitempty"`
	KeyContext            string  `json:"key_context,omitempty" yaml:"key_context,omitempty"` // diatonic|chromatic
}

// Matchers is the set of sequence matchers a pattern may declare; exactly
// one of ChordSeq/RomanSeq/IntervalSeq/ScaleDegreeSeq should be populated
// per pattern, but the schema does not forbid combining them for patterns
// that want to match across representations.
type Matchers struct {
	ChordSeq       []string    `json:"chord_seq,omitempty" yaml:"chord_seq,omitempty"`
	RomanSeq       []string    `json:"roman_seq,omitempty" yaml:"roman_seq,omitempty"`
	IntervalSeq    []int       `json:"interval_seq,omitempty" yaml:"interval_seq,omitempty"`
	ScaleDegreeSeq []int       `json:"scale_degree_seq,omitempty" yaml:"scale_degree_seq,omitempty"`
	Constraints    Constraints `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Window         Window      `json:"window" yaml:"window"`
}

// Evidence declares how a pattern match is scored.
type Evidence struct {
	Weight       float64  `json:"weight" yaml:"weight"`
	Features     []string `json:"features" yaml:"features"`
	ConfidenceFn string   `json:"confidence_fn" yaml:"confidence_fn"`
}

// Metadata carries tags and tie-break priority.
type Metadata struct {
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Priority int      `json:"priority,omitempty" yaml:"priority,omitempty"`
	Family   string   `json:"family,omitempty" yaml:"family,omitempty"`
	Conflict ConflictPolicy `json:"conflict,omitempty" yaml:"conflict,omitempty"`
}

// Pattern is one declarative rule in the catalogue.
type Pattern struct {
	ID             string             `json:"id" yaml:"id"`
	Name           string             `json:"name" yaml:"name"`
	Scope          []Scope            `json:"scope" yaml:"scope"`
	Track          []Track            `json:"track" yaml:"track"`
	Matchers       Matchers           `json:"matchers" yaml:"matchers"`
	Evidence       Evidence           `json:"evidence" yaml:"evidence"`
	ProfileWeights map[string]float64 `json:"profile_weights,omitempty" yaml:"profile_weights,omitempty"`
	Metadata       Metadata           `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Document is the top-level pattern-source shape (spec.md §6).
type Document struct {
	Version  int       `json:"version" yaml:"version"`
	Patterns []Pattern `json:"patterns" yaml:"patterns"`
}
