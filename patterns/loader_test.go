package patterns

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFileCore(t *testing.T) {
	cat, err := LoadFile("data/core.json")
	require.NoError(t, err)
	require.True(t, cat.Len() > 0)

	p, ok := cat.Lookup("cadence.authentic.perfect")
	require.True(t, ok)
	require.Equal(t, []string{"V", "I"}, p.Matchers.RomanSeq)
	require.Equal(t, 0.95, p.Evidence.Weight)
}

func TestLoadFileDuplicateID(t *testing.T) {
	dir := t.TempDir()
	doc := `{"version":1,"patterns":[
		{"id":"a","name":"A","scope":["harmonic"],"track":["functional"],
		 "matchers":{"roman_seq":["I"],"window":{"len":1,"overlap_ok":true,"min_gap":0}},
		 "evidence":{"weight":0.5,"features":["f"],"confidence_fn":"identity"}},
		{"id":"a","name":"A2","scope":["harmonic"],"track":["functional"],
		 "matchers":{"roman_seq":["V"],"window":{"len":1,"overlap_ok":true,"min_gap":0}},
		 "evidence":{"weight":0.5,"features":["f"],"confidence_fn":"identity"}}
	]}`
	path := filepath.Join(dir, "dup.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	_, err := LoadFile(path)
	require.Error(t, err)
	var de *DuplicateIDError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "a", de.ID)
}

func TestValidateRejectsMissingWindow(t *testing.T) {
	doc := &Document{Version: 1, Patterns: []Pattern{{
		ID: "x", Name: "X", Scope: []Scope{ScopeHarmonic}, Track: []Track{TrackFunctional},
		Matchers: Matchers{RomanSeq: []string{"I"}},
		Evidence: Evidence{Weight: 0.5, Features: []string{"f"}, ConfidenceFn: "identity"},
	}}}
	err := validateDocument(doc)
	require.Error(t, err)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	require.Contains(t, se.Path, "matchers.window.len")
}

func TestLoadDirMergesAndSorts(t *testing.T) {
	cat, err := LoadDir("data")
	require.NoError(t, err)
	require.True(t, cat.Len() >= 10)
}
