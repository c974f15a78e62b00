package theory

import (
	"fmt"
	"regexp"
	"strings"
)

// Inversion is a figured-bass inversion symbol.
type Inversion string

const (
	InvRoot   Inversion = ""
	Inv6      Inversion = "6"
	Inv64     Inversion = "6/4"
	Inv7      Inversion = "7"
	Inv65     Inversion = "6/5"
	Inv43     Inversion = "4/3"
	Inv42     Inversion = "4/2"
)

// RomanNumeral is a parsed scale-degree chord label: degree (1..7), case
// (major/minor rendering), optional leading accidental, optional chord
// quality suffix, optional figured-bass inversion, and an optional
// secondary-dominant target (itself a degree + accidental).
type RomanNumeral struct {
	Degree      int    // 1..7
	Accidental  string // "", "#", "b" — leading accidental on the degree
	Minor       bool   // lowercase rendering
	Suffix      string // "", "7", "dim", "dim7", "m7b5", "+", "maj7"
	Inversion   Inversion
	SecondaryOf *SecondaryTarget // non-nil for V/ii, V7/V, etc.
}

// SecondaryTarget names the tonicized degree of a secondary dominant.
type SecondaryTarget struct {
	Degree     int
	Accidental string
	Minor      bool
}

var degreeNumerals = [8]string{"", "I", "II", "III", "IV", "V", "VI", "VII"}
var numeralDegree = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5, "VI": 6, "VII": 7,
}

func degreeLabel(degree int, minor bool) string {
	s := degreeNumerals[degree]
	if minor {
		s = strings.ToLower(s)
	}
	return s
}

// String renders the canonical figured representation, e.g. "V/ii",
// "ii6", "I6/4", "viidim7".
func (r RomanNumeral) String() string {
	var b strings.Builder
	if r.Accidental != "" {
		b.WriteString(accidentalGlyph(r.Accidental))
	}
	b.WriteString(degreeLabel(r.Degree, r.Minor))
	b.WriteString(r.Suffix)
	if r.SecondaryOf != nil {
		b.WriteString("/")
		if r.SecondaryOf.Accidental != "" {
			b.WriteString(accidentalGlyph(r.SecondaryOf.Accidental))
		}
		b.WriteString(degreeLabel(r.SecondaryOf.Degree, r.SecondaryOf.Minor))
	}
	if r.Inversion != InvRoot {
		b.WriteString(string(r.Inversion))
	}
	return b.String()
}

func accidentalGlyph(a string) string {
	switch a {
	case "#":
		return "♯"
	case "b":
		return "♭"
	default:
		return ""
	}
}

// Inversion figures are written after the secondary-dominant target, e.g.
// "V/ii6/4", as in the canonical regression case in roman_test.go.
// Accidental prefixes are matched as "B" (not lowercase "b") because the
// numeral portion of ParseRoman's input is upper-cased before this regex
// runs; a bare "B" can never be a valid numeral token, so there is no
// ambiguity with the note name B.
var romanRE = regexp.MustCompile(
	`^([#♯B♭]?)(VII|VI|V|IV|III|II|I)(MAJ7|DIM7|M7B5|DIM|°7|°|Ø7|Ø|\+|7)?` +
		`(?:/([#♯B♭]?)(VII|VI|V|IV|III|II|I))?` +
		`((?:6/4|6/5|4/3|4/2|6|7)?)$`)

// ParseRoman parses a roman-numeral token such as "V/ii", "ii6", "I6/4",
// "viidim7". Case of the numeral letters is significant only in that it is
// preserved on the parsed value's Minor flag; the regex itself matches
// case-insensitively via the canonicalized upper-case table above, so the
// caller's literal casing is recovered from the original string.
func ParseRoman(s string) (RomanNumeral, error) {
	orig := s
	norm := normalizeAccidentals(s)
	upper := strings.ToUpper(norm)

	m := romanRE.FindStringSubmatch(upper)
	if m == nil {
		return RomanNumeral{}, &ParseError{Kind: "roman", Input: orig, Msg: "does not match roman-numeral grammar"}
	}

	degree, ok := numeralDegree[m[2]]
	if !ok {
		return RomanNumeral{}, &ParseError{Kind: "roman", Input: orig, Msg: "unknown degree"}
	}

	// Recover case from the original (pre-uppercase) string: find where the
	// numeral letters begin (after any leading accidental glyph) and check
	// whether those characters were lowercase.
	minor := isNumeralLowercase(norm, m[2])

	rn := RomanNumeral{
		Degree:     degree,
		Accidental: asciiAccidental(m[1]),
		Minor:      minor,
		Suffix:     normalizeRomanSuffix(m[3]),
		Inversion:  Inversion(m[6]),
	}

	if m[5] != "" {
		tgtDegree, ok := numeralDegree[m[5]]
		if !ok {
			return RomanNumeral{}, &ParseError{Kind: "roman", Input: orig, Msg: "unknown secondary target degree"}
		}
		rn.SecondaryOf = &SecondaryTarget{
			Degree:     tgtDegree,
			Accidental: asciiAccidental(m[4]),
			Minor:      isNumeralLowercase(norm, m[5]),
		}
	}

	return rn, nil
}

func asciiAccidental(a string) string {
	switch a {
	case "#", "♯":
		return "#"
	case "b", "B", "♭":
		return "b"
	default:
		return ""
	}
}

// normalizeRomanSuffix maps the (already upper-cased) captured suffix
// token to the package's canonical lower-case suffix spelling.
func normalizeRomanSuffix(s string) string {
	switch s {
	case "°", "DIM":
		return "dim"
	case "°7", "DIM7":
		return "dim7"
	case "Ø", "Ø7", "M7B5":
		return "m7b5"
	case "+":
		return "+"
	case "7":
		return "7"
	case "MAJ7":
		return "maj7"
	default:
		return ""
	}
}

// isNumeralLowercase scans the original (non-uppercased) string for the
// numeral letters (I/V) and reports whether they appear lowercase there.
func isNumeralLowercase(original, upperNumeral string) bool {
	lower := strings.ToLower(upperNumeral)
	idx := strings.Index(strings.ToLower(original), lower)
	if idx < 0 {
		return false
	}
	return original[idx:idx+len(lower)] == lower
}

// RomanToChord converts a Roman numeral to a Chord in the given key,
// honoring secondary dominants and inversions.
func RomanToChord(rn RomanNumeral, key Key) (Chord, error) {
	var rootDegree = rn.Degree
	var rootPC PitchClass
	var quality Quality

	if rn.SecondaryOf != nil {
		targetPC := degreePitchClassWithAccidental(key, rn.SecondaryOf.Degree, rn.SecondaryOf.Accidental)
		rootPC = targetPC.Add(7) // a fifth above the tonicized degree
		quality = QualMaj
		if rn.Suffix == "7" {
			quality = QualDom7
		}
	} else {
		rootPC = degreePitchClassWithAccidental(key, rootDegree, rn.Accidental)
		quality = qualityFromRomanSuffix(rn.Suffix, rn.Minor)
	}

	c := Chord{Root: rootPC, Quality: quality}
	bass, err := applyInversion(c, rn.Inversion)
	if err != nil {
		return Chord{}, err
	}
	c.Bass = bass
	return c, nil
}

func degreePitchClassWithAccidental(key Key, degree int, accidental string) PitchClass {
	pc := key.DegreePitchClass(degree)
	switch accidental {
	case "#":
		return pc.Add(1)
	case "b":
		return pc.Add(-1)
	default:
		return pc
	}
}

func qualityFromRomanSuffix(suffix string, minor bool) Quality {
	switch suffix {
	case "dim":
		return QualDim
	case "dim7":
		return QualDim7
	case "m7b5":
		return QualMin7b5
	case "+":
		return QualAug
	case "maj7":
		return QualMaj7
	case "7":
		if minor {
			return QualMin7
		}
		return QualDom7
	default:
		if minor {
			return QualMin
		}
		return QualMaj
	}
}

func applyInversion(c Chord, inv Inversion) (*PitchClass, error) {
	tones := c.ChordTones()
	idx := 0
	switch inv {
	case InvRoot, Inv7:
		idx = 0
	case Inv6, Inv65:
		idx = 1
	case Inv64, Inv43:
		idx = 2
	case Inv42:
		idx = 3
	default:
		return nil, fmt.Errorf("theory: unknown inversion %q", inv)
	}
	if idx >= len(tones) {
		return nil, fmt.Errorf("theory: inversion %q not available on a %d-tone chord", inv, len(tones))
	}
	bass := tones[idx]
	return &bass, nil
}

// ChordToRoman infers the Roman numeral for chord in key, detecting
// diatonic degrees, secondary dominants, and common modal borrowings, and
// deriving the figured-bass inversion from the sounding bass.
func ChordToRoman(c Chord, key Key) (RomanNumeral, error) {
	pc := c.Root.Norm()

	// A root that coincides with a diatonic scale tone is only treated as
	// that plain scale degree if the chord's triad quality agrees with the
	// key's diatonic expectation for that degree. A root/quality mismatch
	// (e.g. D major at F major's vi position) is a secondary dominant, not
	// a "borrowed-quality vi" — checked below.
	if degree := key.DegreeOf(pc); degree > 0 && c.Quality.IsMinorLike() == key.DegreeIsMinor(degree) {
		rn := RomanNumeral{
			Degree: degree,
			Minor:  c.Quality.IsMinorLike(),
			Suffix: suffixFromQuality(c.Quality),
		}
		rn.Inversion = inversionFromBass(c)
		return rn, nil
	}

	// Secondary dominant: root is a fifth above some (possibly the same)
	// diatonic degree, and the chord itself functions as a dominant.
	if c.Quality.IsDominantFunctioning() {
		for target := 1; target <= 7; target++ {
			targetPC := key.DegreePitchClass(target)
			if targetPC.Add(7) != pc {
				continue
			}
			rn := RomanNumeral{
				Degree: 5,
				SecondaryOf: &SecondaryTarget{
					Degree: target,
					Minor:  key.DegreeIsMinor(target),
				},
			}
			if c.Quality == QualDom7 {
				rn.Suffix = "7"
			}
			rn.Inversion = inversionFromBass(c)
			return rn, nil
		}
	}

	// Common modal borrowings from the parallel minor/major, expressed as
	// an accidental on the nearest diatonic degree (♭VII, ♭III, ♭VI, ♯IV).
	if degree, acc, ok := commonBorrowing(pc, key); ok {
		rn := RomanNumeral{
			Degree:     degree,
			Accidental: acc,
			Minor:      c.Quality.IsMinorLike(),
			Suffix:     suffixFromQuality(c.Quality),
		}
		rn.Inversion = inversionFromBass(c)
		return rn, nil
	}

	return RomanNumeral{}, &ParseError{Kind: "roman", Input: c.String(), Msg: "chord is not diatonic, a secondary dominant, or a common borrowing in this key"}
}

// borrowedDegrees lists the (semitone-offset-from-tonic, degree,
// accidental) triples accepted as "common modal borrowings" for strict
// bidirectional round-trip (DESIGN.md records the ♭II labeling choice).
var borrowedDegrees = []struct {
	offset     int
	degree     int
	accidental string
}{
	{10, 7, "b"}, // bVII
	{3, 3, "b"},  // bIII
	{8, 6, "b"},  // bVI
	{6, 4, "#"},  // #IV (Lydian-borrowed)
	{1, 2, "b"},  // bII (Neapolitan-adjacent; see DESIGN.md open question)
}

func commonBorrowing(pc PitchClass, key Key) (degree int, accidental string, ok bool) {
	rel := pc.Sub(key.Tonic)
	for _, b := range borrowedDegrees {
		if b.offset == rel {
			return b.degree, b.accidental, true
		}
	}
	return 0, "", false
}

func suffixFromQuality(q Quality) string {
	switch q {
	case QualDim:
		return "dim"
	case QualDim7:
		return "dim7"
	case QualMin7b5:
		return "m7b5"
	case QualAug:
		return "+"
	case QualMaj7:
		return "maj7"
	case QualDom7, QualMin7:
		return "7"
	default:
		return ""
	}
}

func inversionFromBass(c Chord) Inversion {
	idx := c.InversionIndex()
	seventh := len(c.ChordTones()) == 4
	switch idx {
	case 0, -1:
		// A root-position seventh is already marked by its "7" suffix.
		return InvRoot
	case 1:
		if seventh {
			return Inv65
		}
		return Inv6
	case 2:
		if seventh {
			return Inv43
		}
		return Inv64
	case 3:
		return Inv42
	default:
		return InvRoot
	}
}
