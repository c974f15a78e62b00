package patterns

import "fmt"

var validScopes = map[Scope]bool{ScopeHarmonic: true, ScopeMelodic: true, ScopeScale: true}
var validTracks = map[Track]bool{TrackFunctional: true, TrackModal: true, TrackChromatic: true}
var validConflicts = map[ConflictPolicy]bool{ConflictSoftNMS: true, ConflictMaxPool: true, ConflictNone: true, "": true}
var validPositions = map[string]bool{"": true, "start": true, "middle": true, "end": true}
var validKeyContexts = map[string]bool{"": true, "diatonic": true, "chromatic": true}

// validateDocument checks structural validity of a parsed Document and
// returns a path-qualified *SchemaError for the first violation found.
func validateDocument(doc *Document) error {
	if doc.Version != 1 {
		return &SchemaError{Path: "version", Msg: fmt.Sprintf("unsupported version %d, expected 1", doc.Version)}
	}
	for i, p := range doc.Patterns {
		if err := validatePattern(i, p); err != nil {
			return err
		}
	}
	return nil
}

func validatePattern(i int, p Pattern) error {
	path := fmt.Sprintf("patterns[%d]", i)
	if p.ID == "" {
		return &SchemaError{Path: path + ".id", Msg: "id is required"}
	}
	if p.Name == "" {
		return &SchemaError{Path: path + ".name", Msg: "name is required"}
	}
	if len(p.Scope) == 0 {
		return &SchemaError{Path: path + ".scope", Msg: "at least one scope is required"}
	}
	for j, s := range p.Scope {
		if !validScopes[s] {
			return &SchemaError{Path: fmt.Sprintf("%s.scope[%d]", path, j), Msg: fmt.Sprintf("unknown scope %q", s)}
		}
	}
	if len(p.Track) == 0 {
		return &SchemaError{Path: path + ".track", Msg: "at least one track is required"}
	}
	for j, tr := range p.Track {
		if !validTracks[tr] {
			return &SchemaError{Path: fmt.Sprintf("%s.track[%d]", path, j), Msg: fmt.Sprintf("unknown track %q", tr)}
		}
	}

	m := p.Matchers
	seqCount := 0
	if len(m.ChordSeq) > 0 {
		seqCount++
	}
	if len(m.RomanSeq) > 0 {
		seqCount++
	}
	if len(m.IntervalSeq) > 0 {
		seqCount++
	}
	if len(m.ScaleDegreeSeq) > 0 {
		seqCount++
	}
	if seqCount == 0 {
		return &SchemaError{Path: path + ".matchers", Msg: "at least one of chord_seq, roman_seq, interval_seq, scale_degree_seq is required"}
	}
	for j, tok := range m.RomanSeq {
		if tok == "" {
			return &SchemaError{Path: fmt.Sprintf("%s.matchers.roman_seq[%d]", path, j), Msg: "empty roman token"}
		}
	}
	for j, tok := range m.ChordSeq {
		if tok == "" {
			return &SchemaError{Path: fmt.Sprintf("%s.matchers.chord_seq[%d]", path, j), Msg: "empty chord token"}
		}
	}
	if m.Window.Len <= 0 {
		return &SchemaError{Path: path + ".matchers.window.len", Msg: "window.len must be positive"}
	}
	if !validPositions[m.Constraints.Position] {
		return &SchemaError{Path: path + ".matchers.constraints.position", Msg: fmt.Sprintf("unknown position %q", m.Constraints.Position)}
	}
	if !validKeyContexts[m.Constraints.KeyContext] {
		return &SchemaError{Path: path + ".matchers.constraints.key_context", Msg: fmt.Sprintf("unknown key_context %q", m.Constraints.KeyContext)}
	}

	if p.Evidence.Weight < 0 || p.Evidence.Weight > 1 {
		return &SchemaError{Path: path + ".evidence.weight", Msg: "weight must be in [0,1]"}
	}
	if p.Evidence.ConfidenceFn == "" {
		return &SchemaError{Path: path + ".evidence.confidence_fn", Msg: "confidence_fn is required"}
	}
	if !validConflicts[p.Metadata.Conflict] {
		return &SchemaError{Path: path + ".metadata.conflict", Msg: fmt.Sprintf("unknown conflict policy %q", p.Metadata.Conflict)}
	}
	for track, w := range p.ProfileWeights {
		if w < 0 || w > 1 {
			return &SchemaError{Path: fmt.Sprintf("%s.profile_weights[%s]", path, track), Msg: "profile weight must be in [0,1]"}
		}
	}
	return nil
}
