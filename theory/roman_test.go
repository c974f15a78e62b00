package theory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCanonicalRoundTrip exercises the canonical regression case:
// (D, Gm/Bb, D/A, Gm, F/C, C, F) in F major should emit
// V/ii ii6 V/ii6/4 ii I6/4 V I and reconstructing chords from those romans
// should reproduce the input exactly.
func TestCanonicalRoundTrip(t *testing.T) {
	key := NewKey(5, Major) // F major

	inputs := []string{"D", "Gm/Bb", "D/A", "Gm", "F/C", "C", "F"}
	wantRomans := []string{"V/ii", "ii6", "V/ii6/4", "ii", "I6/4", "V", "I"}

	chords := make([]Chord, len(inputs))
	for i, s := range inputs {
		c, err := ParseChord(s)
		require.NoError(t, err, "parsing %q", s)
		chords[i] = c
	}

	romans := make([]RomanNumeral, len(chords))
	for i, c := range chords {
		rn, err := ChordToRoman(c, key)
		require.NoError(t, err, "chord %d (%v)", i, c)
		romans[i] = rn
		require.Equal(t, wantRomans[i], rn.String(), "roman %d", i)
	}

	for i, rn := range romans {
		back, err := RomanToChord(rn, key)
		require.NoError(t, err, "roman %d (%s)", i, rn.String())
		require.Equal(t, chords[i].Root, back.Root, "root mismatch at %d", i)
		require.Equal(t, chords[i].Quality, back.Quality, "quality mismatch at %d", i)
		require.Equal(t, chords[i].BassPitchClass(), back.BassPitchClass(), "bass mismatch at %d", i)
	}
}

func TestParseChordGrammar(t *testing.T) {
	cases := map[string]Quality{
		"C":      QualMaj,
		"Cm":     QualMin,
		"Cmaj7":  QualMaj7,
		"C7":     QualDom7,
		"Cø7":    QualMin7b5,
		"C°7":    QualDim7,
		"C+":     QualAug,
		"Csus2":  QualSus2,
		"Csus4":  QualSus4,
	}
	for in, want := range cases {
		c, err := ParseChord(in)
		require.NoError(t, err, in)
		require.Equal(t, want, c.Quality, in)
	}

	slash, err := ParseChord("C/E")
	require.NoError(t, err)
	require.NotNil(t, slash.Bass)
	require.Equal(t, PitchClass(4), slash.Bass.Norm())
}

func TestParseChordAddAndAlterations(t *testing.T) {
	c, err := ParseChord("C7b9")
	require.NoError(t, err)
	require.Equal(t, QualDom7, c.Quality)
	require.Contains(t, c.Alterations, "♭9")

	c2, err := ParseChord("Cadd9")
	require.NoError(t, err)
	require.Contains(t, c2.Added, "9")
}

func TestParseChordInvalid(t *testing.T) {
	_, err := ParseChord("H7")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestKeyParentAndCharacteristic(t *testing.T) {
	dDorian := NewKey(2, Dorian)
	parent := dDorian.ParentKey()
	require.Equal(t, PitchClass(0), parent.Tonic.Norm()) // C major
	require.Equal(t, []string{"♭3", "♮6"}, dDorian.CharacteristicDegrees())
}

func TestIsolatedInversionAndSecondaryRoundTrip(t *testing.T) {
	key := NewKey(0, Major) // C major
	rn, err := ParseRoman("V7/V")
	require.NoError(t, err)
	require.Equal(t, 5, rn.Degree)
	require.NotNil(t, rn.SecondaryOf)
	require.Equal(t, 5, rn.SecondaryOf.Degree)

	c, err := RomanToChord(rn, key)
	require.NoError(t, err)
	require.Equal(t, QualDom7, c.Quality)
	// V of V in C major is D major -> root D (pc 2).
	require.Equal(t, PitchClass(2), c.Root.Norm())
}
