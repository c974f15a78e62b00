package arbitration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/context"
)

func TestSelectPrimaryPicksHighestScore(t *testing.T) {
	scores := map[string]float64{"functional": 0.9, "modal": 0.2, "chromatic": 0.1}
	require.Equal(t, "functional", SelectPrimary(scores, context.ProfileClassical, DefaultConfig()))
}

func TestSelectPrimaryUsesPrecedenceOnTie(t *testing.T) {
	scores := map[string]float64{"functional": 0.5, "chromatic": 0.5, "modal": 0.5}
	require.Equal(t, "functional", SelectPrimary(scores, context.ProfileClassical, DefaultConfig()))
	require.Equal(t, "modal", SelectPrimary(scores, context.ProfileJazz, DefaultConfig()))
}

func TestSelectPrimaryPopFavorsFunctionalUnlessModalExceedsMargin(t *testing.T) {
	cfg := DefaultConfig()
	close := map[string]float64{"functional": 0.6, "modal": 0.65}
	require.Equal(t, "functional", SelectPrimary(close, context.ProfilePop, cfg))

	wide := map[string]float64{"functional": 0.4, "modal": 0.8}
	require.Equal(t, "modal", SelectPrimary(wide, context.ProfilePop, cfg))
}

func TestSelectAlternativesRespectsThresholdAndCap(t *testing.T) {
	scores := map[string]float64{
		"functional": 0.9,
		"modal":      0.8,
		"chromatic":  0.1,
	}
	alts := SelectAlternatives(scores, "functional", Config{ConfidenceThreshold: 0.15, MaxAlternatives: 3})
	require.Equal(t, []string{"modal"}, alts)
}

func TestBuildScaleSummaryDorian(t *testing.T) {
	ctx, err := context.Build(context.Input{
		Notes:   []string{"D", "E", "F", "G", "A", "B", "C"},
		KeyHint: "D dorian",
	})
	require.NoError(t, err)

	summary := buildScaleSummary(ctx)
	require.Equal(t, "Dorian", summary.DetectedMode)
	require.Equal(t, "C major", summary.ParentKey)
	require.Equal(t, []string{"♭3", "♮6"}, summary.CharacteristicNotes)
	require.Equal(t, []string{"D", "E", "F", "G", "A", "B", "C"}, summary.Notes)
}

func TestBuildMelodySummaryAscendingMajorScale(t *testing.T) {
	ctx, err := context.Build(context.Input{
		Melody:  []string{"C4", "D4", "E4", "F4", "G4", "A4", "B4", "C5"},
		KeyHint: "C major",
	})
	require.NoError(t, err)

	summary := buildMelodySummary(ctx)
	require.Equal(t, "ascending", summary.Contour)
	require.Equal(t, 12, summary.RangeSemitones)
	require.Equal(t, []int{2, 2, 1, 2, 2, 2, 1}, summary.Intervals)
	require.Contains(t, summary.MelodicCharacteristics, "stepwise motion")
}
