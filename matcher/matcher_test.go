package matcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/context"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/evaluators"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/patterns"
)

func loadCore(t *testing.T) *patterns.Catalogue {
	t.Helper()
	cat, err := patterns.LoadDir("../patterns/data")
	require.NoError(t, err)
	return cat
}

func TestMatchPACOnDmG7C(t *testing.T) {
	cat := loadCore(t)
	reg := evaluators.Default()

	ctx, err := context.Build(context.Input{
		Chords:  []string{"Dm", "G7", "C"},
		KeyHint: "C major",
		Profile: context.ProfileClassical,
	})
	require.NoError(t, err)

	evs := Match(ctx, cat, reg)
	require.NotEmpty(t, evs)

	var foundPAC, foundIIVI bool
	for _, e := range evs {
		if e.PatternID == "cadence.authentic.perfect" {
			foundPAC = true
		}
		if e.PatternID == "functional.ii_V_I" {
			foundIIVI = true
		}
	}
	require.True(t, foundPAC, "expected PAC pattern to match")
	require.True(t, foundIIVI, "expected ii-V-I pattern to match")
}

func TestMatchEmptyContextYieldsNoEvidence(t *testing.T) {
	cat := loadCore(t)
	reg := evaluators.Default()
	ctx := &context.Context{}
	require.Empty(t, Match(ctx, cat, reg))
}

func TestMatchSingleChordOnlyLenOnePatterns(t *testing.T) {
	cat := loadCore(t)
	reg := evaluators.Default()
	ctx, err := context.Build(context.Input{Chords: []string{"C"}, KeyHint: "C major"})
	require.NoError(t, err)

	evs := Match(ctx, cat, reg)
	for _, e := range evs {
		require.Equal(t, 1, e.Span.Len(), "single-chord input must not match multi-chord patterns")
	}
}

func TestTritoneSubUnderJazzNotClassical(t *testing.T) {
	cat := loadCore(t)
	reg := evaluators.Default()

	jazzCtx, err := context.Build(context.Input{
		Chords:  []string{"Dm7", "Db7", "Cmaj7"},
		KeyHint: "C major",
		Profile: context.ProfileJazz,
	})
	require.NoError(t, err)
	jazzEvs := Match(jazzCtx, cat, reg)
	var jazzMatched bool
	for _, e := range jazzEvs {
		if e.PatternID == "functional.ii_V_I" {
			jazzMatched = true
			require.Equal(t, 1.0, e.Features["substitution_used"])
		}
	}
	require.True(t, jazzMatched, "expected ii-V-I to match via tritone substitution under jazz")

	classicalCtx, err := context.Build(context.Input{
		Chords:  []string{"Dm7", "Db7", "Cmaj7"},
		KeyHint: "C major",
		Profile: context.ProfileClassical,
	})
	require.NoError(t, err)
	classicalEvs := Match(classicalCtx, cat, reg)
	for _, e := range classicalEvs {
		require.NotEqual(t, "functional.ii_V_I", e.PatternID, "classical profile must not accept the tritone substitution")
	}
}

func TestTranspositionInvariance(t *testing.T) {
	cat := loadCore(t)
	reg := evaluators.Default()

	base, err := context.Build(context.Input{Chords: []string{"Dm", "G7", "C"}, KeyHint: "C major"})
	require.NoError(t, err)
	shifted, err := context.Build(context.Input{Chords: []string{"Em", "A7", "D"}, KeyHint: "D major"})
	require.NoError(t, err)

	baseEvs := Match(base, cat, reg)
	shiftedEvs := Match(shifted, cat, reg)
	require.Equal(t, len(baseEvs), len(shiftedEvs))

	for i := range baseEvs {
		require.Equal(t, baseEvs[i].PatternID, shiftedEvs[i].PatternID)
		require.Equal(t, baseEvs[i].Span, shiftedEvs[i].Span)
		require.InDelta(t, baseEvs[i].RawScore, shiftedEvs[i].RawScore, 1e-6)
	}
}
