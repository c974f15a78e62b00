package theory

import "fmt"

// ScaleTag is the closed set of mode/scale labels a Key may carry.
type ScaleTag string

const (
	Major      ScaleTag = "major"
	Minor      ScaleTag = "minor"
	Ionian     ScaleTag = "ionian"
	Dorian     ScaleTag = "dorian"
	Phrygian   ScaleTag = "phrygian"
	Lydian     ScaleTag = "lydian"
	Mixolydian ScaleTag = "mixolydian"
	Aeolian    ScaleTag = "aeolian"
	Locrian    ScaleTag = "locrian"
)

// modeIntervals gives, for each scale tag, the semitone offsets of the
// seven scale degrees from the tonic.
var modeIntervals = map[ScaleTag][7]int{
	Major:      {0, 2, 4, 5, 7, 9, 11},
	Ionian:     {0, 2, 4, 5, 7, 9, 11},
	Minor:      {0, 2, 3, 5, 7, 8, 10},
	Aeolian:    {0, 2, 3, 5, 7, 8, 10},
	Dorian:     {0, 2, 3, 5, 7, 9, 10},
	Phrygian:   {0, 1, 3, 5, 7, 8, 10},
	Lydian:     {0, 2, 4, 6, 7, 9, 11},
	Mixolydian: {0, 2, 4, 5, 7, 9, 10},
	Locrian:    {0, 1, 3, 5, 6, 8, 10},
}

// rotationFromMajor gives the number of scale steps each mode's tonic sits
// from the parent major scale's tonic (Dorian is the major scale's 2nd
// degree, etc.), used to find a mode's parent diatonic collection.
var rotationFromMajor = map[ScaleTag]int{
	Ionian: 0, Major: 0,
	Dorian:     1,
	Phrygian:   2,
	Lydian:     3,
	Mixolydian: 4,
	Aeolian:    5, Minor: 5,
	Locrian: 6,
}

// diatonicTriadMinor is the triad quality (for roman-numeral casing) of each
// scale degree (1-indexed) within a mode.
var diatonicTriadMinor = map[ScaleTag][7]bool{
	// true = minor-cased (lowercase) roman numeral for that degree.
	Major:      {false, true, true, false, false, true, true}, // vii is dim, still lowercase
	Ionian:     {false, true, true, false, false, true, true},
	Minor:      {true, true, false, true, true, false, false},
	Aeolian:    {true, true, false, true, true, false, false},
	Dorian:     {true, true, false, false, true, true, false},
	Phrygian:   {true, false, false, true, true, false, true},
	Lydian:     {false, false, true, true, false, true, true},
	Mixolydian: {false, true, true, false, true, true, false},
	Locrian:    {true, false, true, true, false, false, true},
}

// Key is a tonic pitch class plus a mode-or-scale tag. A modal key carries
// an explicit local tonic (Tonic) while ParentKey() derives the parent
// diatonic collection (e.g. D Dorian's parent is C major).
type Key struct {
	Tonic PitchClass
	Scale ScaleTag
}

// NewKey constructs a Key, defaulting an unrecognized scale tag to Major.
func NewKey(tonic PitchClass, scale ScaleTag) Key {
	if _, ok := modeIntervals[scale]; !ok {
		scale = Major
	}
	return Key{Tonic: tonic, Scale: scale}
}

// IsMinorLike reports whether the key's tonic triad is minor (used for
// display and for picking the right diatonic table elsewhere).
func (k Key) IsMinorLike() bool {
	switch k.Scale {
	case Minor, Aeolian, Dorian, Phrygian, Locrian:
		return true
	default:
		return false
	}
}

// DegreePitchClass returns the pitch class of the given scale degree
// (1..7) in this key.
func (k Key) DegreePitchClass(degree int) PitchClass {
	ivs := modeIntervals[k.Scale]
	idx := (degree - 1) % 7
	if idx < 0 {
		idx += 7
	}
	return k.Tonic.Add(ivs[idx])
}

// DegreeOf returns the 1-based scale degree of pc within this key's
// diatonic collection, or 0 if pc is not diatonic.
func (k Key) DegreeOf(pc PitchClass) int {
	pc = pc.Norm()
	for d := 1; d <= 7; d++ {
		if k.DegreePitchClass(d) == pc {
			return d
		}
	}
	return 0
}

// DegreeIsMinor reports whether scale degree (1..7) carries a minor/dim
// (lowercase) triad in this key's mode.
func (k Key) DegreeIsMinor(degree int) bool {
	idx := (degree - 1) % 7
	if idx < 0 {
		idx += 7
	}
	table, ok := diatonicTriadMinor[k.Scale]
	if !ok {
		table = diatonicTriadMinor[Major]
	}
	return table[idx]
}

// ParentKey returns the parent diatonic major key for a modal Key. For
// Major/Minor (already parent-level tags) it returns k unchanged except
// normalized to Major/Minor's relative major, matching how the source
// describes "parent key" only for true modes.
func (k Key) ParentKey() Key {
	rot, ok := rotationFromMajor[k.Scale]
	if !ok {
		rot = 0
	}
	parentTonic := k.Tonic.Add(-modeIntervals[Major][rot])
	return Key{Tonic: parentTonic, Scale: Major}
}

// Name renders e.g. "C major", "D dorian".
func (k Key) Name() string {
	return fmt.Sprintf("%s %s", k.Tonic.Name(k.PrefersFlats()), k.Scale)
}

// PrefersFlats is a small heuristic: keys whose tonic is a "flat" pitch
// class in common practice (F, Bb, Eb, Ab, Db) spell with flats.
func (k Key) PrefersFlats() bool {
	switch k.Tonic.Norm() {
	case 5, 10, 3, 8, 1:
		return true
	default:
		return false
	}
}

// CharacteristicDegrees returns the scale degrees (as accidental-annotated
// strings relative to the major/minor parallel, e.g. "♭3", "♮6") that are
// distinctive for this mode versus its parallel major/minor — used by the
// scale-summary output.
func (k Key) CharacteristicDegrees() []string {
	switch k.Scale {
	case Dorian:
		return []string{"♭3", "♮6"}
	case Phrygian:
		return []string{"♭2", "♭3"}
	case Lydian:
		return []string{"♯4"}
	case Mixolydian:
		return []string{"♭7"}
	case Locrian:
		return []string{"♭2", "♭5"}
	case Minor, Aeolian:
		return []string{"♭3", "♭6", "♭7"}
	default:
		return nil
	}
}

func (s ScaleTag) Valid() bool {
	_, ok := modeIntervals[s]
	return ok
}
