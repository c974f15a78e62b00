// Package theory provides the music-theory primitives the rest of the
// analysis pipeline is built on: pitch-class arithmetic, note and chord
// symbol parsing, key signatures, and bidirectional Roman-numeral
// conversion.
package theory

import "fmt"

// PitchClass is a pitch mod 12, with C = 0.
type PitchClass int8

// Norm returns p reduced into the canonical [0,11] range.
func (p PitchClass) Norm() PitchClass {
	m := int8(p) % 12
	if m < 0 {
		m += 12
	}
	return PitchClass(m)
}

// Add transposes p by the given number of semitones.
func (p PitchClass) Add(semitones int) PitchClass {
	return PitchClass(int8(p) + int8(semitones)).Norm()
}

// Sub returns the number of semitones from other to p, in [0,11].
func (p PitchClass) Sub(other PitchClass) int {
	return int(p.Norm().Add(-int(other.Norm())))
}

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
var flatNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// Name renders p using sharp spelling unless preferFlats is set.
func (p PitchClass) Name(preferFlats bool) string {
	n := p.Norm()
	if preferFlats {
		return flatNames[n]
	}
	return sharpNames[n]
}

func (p PitchClass) String() string {
	return p.Name(false)
}

var pitchClassByName = map[string]PitchClass{
	"C": 0, "B#": 0,
	"C#": 1, "Db": 1,
	"D": 2,
	"D#": 3, "Eb": 3,
	"E": 4, "Fb": 4,
	"E#": 5, "F": 5,
	"F#": 6, "Gb": 6,
	"G": 7,
	"G#": 8, "Ab": 8,
	"A": 9,
	"A#": 10, "Bb": 10,
	"B": 11, "Cb": 11,
}

// ParsePitchClass parses a note name into a PitchClass. It accepts ASCII
// sharps/flats ('#', 'b') as well as the Unicode accidentals ♯ and ♭, plus
// the double-accidental forms "##"/"bb"/"𝄪"/"𝄫".
func ParsePitchClass(s string) (PitchClass, error) {
	s = normalizeAccidentals(s)
	if s == "" {
		return 0, fmt.Errorf("theory: empty note name")
	}
	if pc, ok := pitchClassByName[s]; ok {
		return pc, nil
	}
	// Fall back to letter + repeated accidentals (e.g. "Fbb", "Cx").
	letter := s[:1]
	base, ok := pitchClassByName[letter]
	if !ok {
		return 0, fmt.Errorf("theory: invalid note name %q", s)
	}
	rest := s[1:]
	offset := 0
	switch {
	case rest == "x" || rest == "##":
		offset = 2
	case rest == "bb":
		offset = -2
	default:
		for _, r := range rest {
			switch r {
			case '#':
				offset++
			case 'b':
				offset--
			default:
				return 0, fmt.Errorf("theory: invalid accidental in %q", s)
			}
		}
	}
	return base.Add(offset), nil
}

// normalizeAccidentals rewrites Unicode accidental glyphs to their ASCII
// equivalents so a single parser table can serve both spellings.
func normalizeAccidentals(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '♯':
			out = append(out, '#')
		case '♭':
			out = append(out, 'b')
		case '𝄪':
			out = append(out, 'x')
		case '𝄫':
			out = append(out, 'b', 'b')
		case '♮':
			// natural: contributes nothing
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
