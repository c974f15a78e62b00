package theory

import (
	"fmt"
	"regexp"
	"strings"
)

// Quality is a closed set of triad/seventh chord qualities.
type Quality string

const (
	QualMaj     Quality = "maj"
	QualMin     Quality = "min"
	QualDim     Quality = "dim"
	QualAug     Quality = "aug"
	QualSus2    Quality = "sus2"
	QualSus4    Quality = "sus4"
	QualMaj7    Quality = "maj7"
	QualMin7    Quality = "min7"
	QualDom7    Quality = "dom7"
	QualMin7b5  Quality = "min7b5" // half-diminished, ø
	QualDim7    Quality = "dim7"
	QualAug7    Quality = "aug7"
)

// qualityIntervals gives the chord-tone semitone offsets from the root for each
// quality (triad or seventh; added tones are layered on separately).
var qualityIntervals = map[Quality][]int{
	QualMaj:    {0, 4, 7},
	QualMin:    {0, 3, 7},
	QualDim:    {0, 3, 6},
	QualAug:    {0, 4, 8},
	QualSus2:   {0, 2, 7},
	QualSus4:   {0, 5, 7},
	QualMaj7:   {0, 4, 7, 11},
	QualMin7:   {0, 3, 7, 10},
	QualDom7:   {0, 4, 7, 10},
	QualMin7b5: {0, 3, 6, 10},
	QualDim7:   {0, 3, 6, 9},
	QualAug7:   {0, 4, 8, 10},
}

// IsDominantFunctioning reports whether q resolves like a dominant (major
// triad or dominant 7th) — used for secondary-dominant detection.
func (q Quality) IsDominantFunctioning() bool {
	return q == QualMaj || q == QualDom7
}

// IsMinorLike reports whether q is built on a minor third (drives
// lowercase roman-numeral casing).
func (q Quality) IsMinorLike() bool {
	switch q {
	case QualMin, QualMin7, QualDim, QualDim7, QualMin7b5:
		return true
	default:
		return false
	}
}

// Chord is a parsed chord symbol.
type Chord struct {
	Root            PitchClass
	Quality         Quality
	Added           []string // e.g. "9", "11", "13" add-tone extensions
	Alterations     []string // e.g. "#5", "b9", "#11", "b13"
	Bass            *PitchClass
	NonDiatonicBass bool // set by the analysis context once a key is known
}

// ChordTones returns the absolute pitch classes sounded by the chord
// (root + quality intervals; added/altered tones are not modeled here,
// they live in Added/Alterations for feature extraction).
func (c Chord) ChordTones() []PitchClass {
	ivs := qualityIntervals[c.Quality]
	tones := make([]PitchClass, len(ivs))
	for i, iv := range ivs {
		tones[i] = c.Root.Add(iv)
	}
	return tones
}

// BassPitchClass returns the sounding bass: the override if present,
// otherwise the root.
func (c Chord) BassPitchClass() PitchClass {
	if c.Bass != nil {
		return *c.Bass
	}
	return c.Root
}

// InversionIndex returns the index of BassPitchClass() within ChordTones(),
// or -1 if the bass is not a chord tone (a "slash" non-chord bass).
func (c Chord) InversionIndex() int {
	bass := c.BassPitchClass()
	for i, t := range c.ChordTones() {
		if t == bass {
			return i
		}
	}
	return -1
}

// String renders the chord back to lead-sheet notation.
func (c Chord) String() string {
	var b strings.Builder
	b.WriteString(c.Root.Name(false))
	b.WriteString(qualitySuffix(c.Quality))
	for _, a := range c.Added {
		b.WriteString("add")
		b.WriteString(a)
	}
	for _, a := range c.Alterations {
		b.WriteString(a)
	}
	if c.Bass != nil && *c.Bass != c.Root {
		b.WriteString("/")
		b.WriteString(c.Bass.Name(false))
	}
	return b.String()
}

func qualitySuffix(q Quality) string {
	switch q {
	case QualMaj:
		return ""
	case QualMin:
		return "m"
	case QualDim:
		return "dim"
	case QualAug:
		return "+"
	case QualSus2:
		return "sus2"
	case QualSus4:
		return "sus4"
	case QualMaj7:
		return "maj7"
	case QualMin7:
		return "m7"
	case QualDom7:
		return "7"
	case QualMin7b5:
		return "m7b5"
	case QualDim7:
		return "dim7"
	case QualAug7:
		return "aug7"
	default:
		return ""
	}
}

// ParseError is returned for unparseable chord or roman-numeral symbols.
type ParseError struct {
	Kind  string // "chord" or "roman"
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("theory: invalid %s symbol %q at %d: %s", e.Kind, e.Input, e.Pos, e.Msg)
}

var halfDimRE = regexp.MustCompile(`ø7?`)
var dimSeventhRE = regexp.MustCompile(`°7`)

var chordSymbolRE = regexp.MustCompile(
	`^([A-G])([#♯b♭]?)` + // root
		`(maj13|maj11|maj9|maj7|m7b5|mM7|maj|dim7|dim|aug7|aug|sus2|sus4|m7|m9|m11|m13|m6|m|min7|min|\+|6|7|9|11|13)?` +
		`((?:add\d+)*)` +
		`((?:[#♯b♭](?:5|9|11|13))*)` +
		`(?:/([A-G][#♯b♭]?))?$`)

// ParseChord parses a lead-sheet chord symbol, e.g. "Cm7b5", "C/E",
// "C13#11", "Cø7". Unparseable input returns a *ParseError.
func ParseChord(s string) (Chord, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "♯", "#")
	s = strings.ReplaceAll(s, "♭", "b")
	// "°7" (full diminished seventh) and "°" (diminished triad) both occur;
	// "ø"/"ø7" always mean the half-diminished seventh regardless of a
	// trailing 7, so normalize both before the digit is seen.
	s = halfDimRE.ReplaceAllString(s, "m7b5")
	s = dimSeventhRE.ReplaceAllString(s, "dim7")
	s = strings.ReplaceAll(s, "°", "dim")

	m := chordSymbolRE.FindStringSubmatch(s)
	if m == nil {
		return Chord{}, &ParseError{Kind: "chord", Input: orig, Pos: 0, Msg: "does not match chord grammar"}
	}

	rootStr := m[1] + m[2]
	root, err := ParsePitchClass(rootStr)
	if err != nil {
		return Chord{}, &ParseError{Kind: "chord", Input: orig, Pos: 0, Msg: err.Error()}
	}

	quality, added0 := qualityFromSuffix(m[3])
	added := []string{}
	if added0 != "" {
		added = append(added, added0)
	}
	for _, a := range regexp.MustCompile(`add(\d+)`).FindAllStringSubmatch(m[4], -1) {
		added = append(added, a[1])
	}

	var alterations []string
	if m[5] != "" {
		for _, a := range regexp.MustCompile(`[#b](?:5|9|11|13)`).FindAllString(m[5], -1) {
			alterations = append(alterations, strings.ReplaceAll(strings.ReplaceAll(a, "#", "♯"), "b", "♭"))
		}
	}

	var bass *PitchClass
	if m[6] != "" {
		bp, err := ParsePitchClass(m[6])
		if err != nil {
			return Chord{}, &ParseError{Kind: "chord", Input: orig, Pos: len(orig) - len(m[6]), Msg: err.Error()}
		}
		bass = &bp
	}

	return Chord{Root: root, Quality: quality, Added: added, Alterations: alterations, Bass: bass}, nil
}

// qualityFromSuffix maps the captured quality token to a Quality plus an
// optional bare extension-number ("6", "9", "11", "13" with no "add"
// meaning a colored triad, e.g. "C6").
func qualityFromSuffix(tok string) (Quality, string) {
	switch tok {
	case "", "maj":
		return QualMaj, ""
	case "m", "min":
		return QualMin, ""
	case "dim":
		return QualDim, ""
	case "dim7":
		return QualDim7, ""
	case "aug", "+":
		return QualAug, ""
	case "aug7":
		return QualAug7, ""
	case "sus2":
		return QualSus2, ""
	case "sus4":
		return QualSus4, ""
	case "maj7":
		return QualMaj7, ""
	case "maj9":
		return QualMaj7, "9"
	case "maj11":
		return QualMaj7, "11"
	case "maj13":
		return QualMaj7, "13"
	case "m7":
		return QualMin7, ""
	case "min7":
		return QualMin7, ""
	case "m7b5":
		return QualMin7b5, ""
	case "mM7":
		return QualMin7, "" // minor/major7, modeled as min7; the major seventh is not recorded
	case "m6":
		return QualMin, "6"
	case "m9":
		return QualMin7, "9"
	case "m11":
		return QualMin7, "11"
	case "m13":
		return QualMin7, "13"
	case "7":
		return QualDom7, ""
	case "9":
		return QualDom7, "9"
	case "11":
		return QualDom7, "11"
	case "13":
		return QualDom7, "13"
	case "6":
		return QualMaj, "6"
	default:
		return QualMaj, ""
	}
}
