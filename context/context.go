// Package context builds the canonical AnalysisContext (C2) that the rest
// of the pipeline matches patterns against, from exactly one of a chord
// list, roman-numeral list, scale (note) list, or melody.
package context

import (
	"fmt"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/theory"
)

// Profile is the stylistic context that modulates chord-equivalence rules
// and pattern weighting.
type Profile string

const (
	ProfileClassical Profile = "classical"
	ProfileJazz      Profile = "jazz"
	ProfilePop       Profile = "pop"
	ProfileChoral    Profile = "choral"
	ProfileFolk      Profile = "folk"
)

// InputKind tags which of the four mutually-exclusive input shapes was
// supplied.
type InputKind string

const (
	InputChords InputKind = "chords"
	InputRomans InputKind = "romans"
	InputNotes  InputKind = "notes"
	InputMelody InputKind = "melody"
)

// MelodyNote is a pitch class plus octave.
type MelodyNote struct {
	PitchClass theory.PitchClass
	Octave     int
}

// Context is the immutable, normalized record the pattern matcher, token
// converter, and every downstream component operate on.
type Context struct {
	Kind          InputKind
	Chords        []theory.Chord
	Romans        []theory.RomanNumeral
	ScaleDegrees  []ScaleDegree
	Melody        []MelodyNote
	Key           theory.Key
	BassLine      []theory.PitchClass
	SopranoLine   []theory.PitchClass
	Metadata      map[string]any
	Profile       Profile
	KeyWasInferred bool
	KeyInferenceScore float64
}

// ScaleDegree is a 1..7 scale degree with an optional leading accidental.
type ScaleDegree struct {
	Degree     int
	Accidental string
}

// Input is the raw payload passed to Build: exactly one of the four
// slices must be non-empty.
type Input struct {
	Chords  []string
	Romans  []string
	Notes   []string
	Melody  []string // "C4", "D#5", ...
	KeyHint string
	Profile Profile
	Metadata map[string]any
}

// AmbiguousInputError is returned when the payload supplies zero or more
// than one of {Chords, Romans, Notes, Melody}.
type AmbiguousInputError struct {
	Supplied []InputKind
}

func (e *AmbiguousInputError) Error() string {
	return fmt.Sprintf("context: exactly one input kind required, got %v", e.Supplied)
}

// MissingKeyError is returned when a key hint is required but absent.
type MissingKeyError struct {
	Kind InputKind
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("context: key_hint is required for %s input", e.Kind)
}

// KeyScaleMismatchError is returned when supplied scale notes are not a
// subset of the key's (or its parent's) diatonic collection.
type KeyScaleMismatchError struct {
	Note string
	Key  string
}

func (e *KeyScaleMismatchError) Error() string {
	return fmt.Sprintf("context: note %q is not in the scale implied by %s", e.Note, e.Key)
}

// Build normalizes an Input into a Context, selecting the input kind,
// resolving or inferring the key, and deriving bass/soprano lines where
// possible. This is the engine's C2 entry point.
func Build(in Input) (*Context, error) {
	kinds := suppliedKinds(in)
	if len(kinds) != 1 {
		return nil, &AmbiguousInputError{Supplied: kinds}
	}
	kind := kinds[0]

	profile := in.Profile
	if profile == "" {
		profile = ProfileClassical
	}

	ctx := &Context{
		Kind:     kind,
		Profile:  profile,
		Metadata: in.Metadata,
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}

	switch kind {
	case InputChords:
		return buildFromChords(ctx, in)
	case InputRomans:
		return buildFromRomans(ctx, in)
	case InputNotes:
		return buildFromNotes(ctx, in)
	case InputMelody:
		return buildFromMelody(ctx, in)
	default:
		return nil, &AmbiguousInputError{Supplied: kinds}
	}
}

func suppliedKinds(in Input) []InputKind {
	var kinds []InputKind
	if len(in.Chords) > 0 {
		kinds = append(kinds, InputChords)
	}
	if len(in.Romans) > 0 {
		kinds = append(kinds, InputRomans)
	}
	if len(in.Notes) > 0 {
		kinds = append(kinds, InputNotes)
	}
	if len(in.Melody) > 0 {
		kinds = append(kinds, InputMelody)
	}
	return kinds
}

func buildFromChords(ctx *Context, in Input) (*Context, error) {
	chords := make([]theory.Chord, 0, len(in.Chords))
	for _, s := range in.Chords {
		c, err := theory.ParseChord(s)
		if err != nil {
			return nil, err
		}
		chords = append(chords, c)
	}
	ctx.Chords = chords

	var key theory.Key
	if in.KeyHint != "" {
		k, err := ParseKeyHint(in.KeyHint)
		if err != nil {
			return nil, err
		}
		key = k
	} else {
		inferred, score, ok := InferKey(chords)
		if !ok {
			return nil, &MissingKeyError{Kind: InputChords}
		}
		key = inferred
		ctx.KeyWasInferred = true
		ctx.KeyInferenceScore = score
	}
	ctx.Key = key

	romans := make([]theory.RomanNumeral, 0, len(chords))
	for _, c := range chords {
		rn, err := theory.ChordToRoman(c, key)
		if err != nil {
			// Non-diatonic chromatic chord: carried through as an empty
			// RomanNumeral (Degree 0) so Romans stays index-aligned with
			// Chords; the chromatic track is expected to pick this up via
			// the outside_key_ratio feature, not via a clean roman label.
			romans = append(romans, theory.RomanNumeral{})
			continue
		}
		romans = append(romans, rn)
	}
	ctx.Romans = romans
	ctx.BassLine = bassLineFromChords(chords)
	return ctx, nil
}

func buildFromRomans(ctx *Context, in Input) (*Context, error) {
	if in.KeyHint == "" {
		return nil, &MissingKeyError{Kind: InputRomans}
	}
	key, err := ParseKeyHint(in.KeyHint)
	if err != nil {
		return nil, err
	}
	ctx.Key = key

	romans := make([]theory.RomanNumeral, 0, len(in.Romans))
	chords := make([]theory.Chord, 0, len(in.Romans))
	for _, s := range in.Romans {
		rn, err := theory.ParseRoman(s)
		if err != nil {
			return nil, err
		}
		c, err := theory.RomanToChord(rn, key)
		if err != nil {
			return nil, err
		}
		romans = append(romans, rn)
		chords = append(chords, c)
	}
	ctx.Romans = romans
	ctx.Chords = chords
	ctx.BassLine = bassLineFromChords(chords)
	return ctx, nil
}

func buildFromNotes(ctx *Context, in Input) (*Context, error) {
	if in.KeyHint == "" {
		return nil, &MissingKeyError{Kind: InputNotes}
	}
	key, err := ParseKeyHint(in.KeyHint)
	if err != nil {
		return nil, err
	}
	ctx.Key = key

	parent := key.ParentKey()
	degrees := make([]ScaleDegree, 0, len(in.Notes))
	for _, s := range in.Notes {
		pc, err := theory.ParsePitchClass(s)
		if err != nil {
			return nil, err
		}
		degree := parent.DegreeOf(pc)
		if degree == 0 {
			return nil, &KeyScaleMismatchError{Note: s, Key: key.Name()}
		}
		degrees = append(degrees, ScaleDegree{Degree: degree})
	}
	ctx.ScaleDegrees = degrees
	return ctx, nil
}

func buildFromMelody(ctx *Context, in Input) (*Context, error) {
	if in.KeyHint == "" {
		return nil, &MissingKeyError{Kind: InputMelody}
	}
	key, err := ParseKeyHint(in.KeyHint)
	if err != nil {
		return nil, err
	}
	ctx.Key = key

	notes := make([]MelodyNote, 0, len(in.Melody))
	for _, s := range in.Melody {
		pc, octave, err := parseNoteWithOctave(s)
		if err != nil {
			return nil, err
		}
		notes = append(notes, MelodyNote{PitchClass: pc, Octave: octave})
	}
	ctx.Melody = notes
	if len(notes) > 0 {
		ctx.SopranoLine = make([]theory.PitchClass, len(notes))
		for i, n := range notes {
			ctx.SopranoLine[i] = n.PitchClass
		}
	}
	return ctx, nil
}

func parseNoteWithOctave(s string) (theory.PitchClass, int, error) {
	if len(s) == 0 {
		return 0, 0, fmt.Errorf("context: empty melody note")
	}
	i := len(s) - 1
	for i > 0 && (s[i] >= '0' && s[i] <= '9' || s[i] == '-') {
		i--
	}
	i++
	if i == 0 || i == len(s) {
		// no trailing digits: default octave 4
		pc, err := theory.ParsePitchClass(s)
		return pc, 4, err
	}
	pc, err := theory.ParsePitchClass(s[:i])
	if err != nil {
		return 0, 0, err
	}
	var octave int
	if _, err := fmt.Sscanf(s[i:], "%d", &octave); err != nil {
		return 0, 0, fmt.Errorf("context: invalid octave in %q", s)
	}
	return pc, octave, nil
}

func bassLineFromChords(chords []theory.Chord) []theory.PitchClass {
	bl := make([]theory.PitchClass, len(chords))
	for i, c := range chords {
		bl[i] = c.BassPitchClass()
	}
	return bl
}
