package harmonic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/patterns"
)

func loadCore(t *testing.T) *patterns.Catalogue {
	t.Helper()
	cat, err := patterns.LoadDir("../patterns/data")
	require.NoError(t, err)
	return cat
}

func TestNewRejectsEmptyCatalogue(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	var he *Error
	require.ErrorAs(t, err, &he)
	require.Equal(t, ErrCatalogueNotReady, he.Code)
}

func TestAnalyzePACEndToEnd(t *testing.T) {
	e, err := New(loadCore(t))
	require.NoError(t, err)

	env, err := e.Analyze(context.Background(), Input{
		Chords:  []string{"Dm", "G7", "C"},
		KeyHint: "C major",
		Profile: "classical",
	})
	require.NoError(t, err)
	require.Equal(t, "functional", env.Summary.PrimaryTrack)
	require.NotEmpty(t, env.Summary.Cadences)
	require.NotEmpty(t, env.Summary.RomanNumerals)
	require.GreaterOrEqual(t, env.Summary.Confidence, 0.0)
	require.LessOrEqual(t, env.Summary.Confidence, 1.0)
}

func TestAnalyzeReturnsTypedErrorOnAmbiguousInput(t *testing.T) {
	e, err := New(loadCore(t))
	require.NoError(t, err)

	_, err = e.Analyze(context.Background(), Input{})
	require.Error(t, err)
	var he *Error
	require.ErrorAs(t, err, &he)
	require.Equal(t, ErrAmbiguousInput, he.Code)
}

func TestAnalyzeTritoneSubstitutionDiffersByProfile(t *testing.T) {
	e, err := New(loadCore(t))
	require.NoError(t, err)

	jazzEnv, err := e.Analyze(context.Background(), Input{
		Chords:  []string{"Dm7", "Db7", "Cmaj7"},
		KeyHint: "C major",
		Profile: "jazz",
	})
	require.NoError(t, err)

	classicalEnv, err := e.Analyze(context.Background(), Input{
		Chords:  []string{"Dm7", "Db7", "Cmaj7"},
		KeyHint: "C major",
		Profile: "classical",
	})
	require.NoError(t, err)

	jazzHasIIVI := false
	for _, m := range jazzEnv.Summary.MatchedPatterns {
		for _, ev := range m.Evidence {
			if ev.PatternID == "functional.ii_V_I" {
				jazzHasIIVI = true
			}
		}
	}
	classicalHasIIVI := false
	for _, m := range classicalEnv.Summary.MatchedPatterns {
		for _, ev := range m.Evidence {
			if ev.PatternID == "functional.ii_V_I" {
				classicalHasIIVI = true
			}
		}
	}
	require.True(t, jazzHasIIVI)
	require.False(t, classicalHasIIVI)
}

func TestAnalyzeScaleInput(t *testing.T) {
	e, err := New(loadCore(t))
	require.NoError(t, err)

	env, err := e.Analyze(context.Background(), Input{
		Notes:   []string{"D", "E", "F", "G", "A", "B", "C"},
		KeyHint: "D dorian",
	})
	require.NoError(t, err)
	require.NotNil(t, env.Summary.Scale)
	require.Contains(t, env.Summary.Scale.CharacteristicNotes, "♮6")
	require.Equal(t, "Dorian", env.Summary.Scale.DetectedMode)
	require.Equal(t, "C major", env.Summary.Scale.ParentKey)
}

func TestAnalyzeMelodyInput(t *testing.T) {
	e, err := New(loadCore(t))
	require.NoError(t, err)

	env, err := e.Analyze(context.Background(), Input{
		Melody:  []string{"C4", "D4", "E4", "F4", "G4", "A4", "B4", "C5"},
		KeyHint: "C major",
	})
	require.NoError(t, err)
	require.NotNil(t, env.Summary.Melody)
	require.Equal(t, "ascending", env.Summary.Melody.Contour)
	require.Equal(t, 12, env.Summary.Melody.RangeSemitones)
	require.Equal(t, []int{2, 2, 1, 2, 2, 2, 1}, env.Summary.Melody.Intervals)
	require.Contains(t, env.Summary.Melody.MelodicCharacteristics, "stepwise motion")
}

func TestAnalyzeDorianVampScenario(t *testing.T) {
	e, err := New(loadCore(t))
	require.NoError(t, err)

	env, err := e.Analyze(context.Background(), Input{
		Chords:  []string{"Dm", "G", "Dm", "G"},
		KeyHint: "D dorian",
		Profile: "folk",
	})
	require.NoError(t, err)
	require.Equal(t, "modal", env.Summary.PrimaryTrack)
	require.GreaterOrEqual(t, env.Summary.Confidence, 0.7)

	hasVamp := false
	for _, m := range env.Summary.MatchedPatterns {
		for _, ev := range m.Evidence {
			if ev.PatternID == "modal.dorian.i_iv_vamp" {
				hasVamp = true
			}
		}
	}
	require.True(t, hasVamp)
}
