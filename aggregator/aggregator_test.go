package aggregator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/evidence"
)

func ev(id, family string, start, end int, raw float64, track string) evidence.Evidence {
	return evidence.Evidence{
		PatternID:    id,
		Family:       family,
		Span:         evidence.Span{Start: start, End: end},
		RawScore:     raw,
		TrackWeights: map[string]float64{track: 1.0},
	}
}

func TestAggregateScoresAreBounded(t *testing.T) {
	evs := []evidence.Evidence{
		ev("a", "cadence", 0, 2, 0.9, "harmonic"),
		ev("b", "functional", 0, 3, 0.8, "harmonic"),
		ev("c", "modal", 1, 3, 0.6, "harmonic"),
	}
	res := Aggregate(evs, nil, DefaultConfig())
	for _, s := range res.Scores {
		require.GreaterOrEqual(t, s, 0.0)
		require.LessOrEqual(t, s, 1.0)
	}
}

func TestSoftNMSDecaysOverlappingLowerRanked(t *testing.T) {
	evs := []evidence.Evidence{
		ev("a", "cadence", 0, 3, 0.9, "harmonic"),
		ev("b", "cadence", 0, 3, 0.9, "harmonic"),
	}
	resolved := resolveConflicts(evs, nil, DefaultConfig())
	require.Len(t, resolved, 2)
	require.Equal(t, 0.9, resolved[0].RawScore)
	require.Less(t, resolved[1].RawScore, 0.9)
}

func TestMaxPoolKeepsOnlyHighestAtContestedIndex(t *testing.T) {
	evs := []evidence.Evidence{
		ev("a", "cadence", 0, 2, 0.5, "harmonic"),
		ev("b", "cadence", 1, 3, 0.9, "harmonic"),
	}
	resolved := resolveConflicts(evs, map[string]string{"cadence": "max_pool"}, DefaultConfig())
	require.Len(t, resolved, 1)
	require.Equal(t, "b", resolved[0].PatternID)
}

func TestNonePolicyKeepsEverything(t *testing.T) {
	evs := []evidence.Evidence{
		ev("a", "cadence", 0, 2, 0.5, "harmonic"),
		ev("b", "cadence", 0, 2, 0.9, "harmonic"),
	}
	resolved := resolveConflicts(evs, map[string]string{"cadence": "none"}, DefaultConfig())
	require.Len(t, resolved, 2)
}

func TestDiversityBonusAppliesAcrossTwoFamilies(t *testing.T) {
	single := []evidence.Evidence{ev("a", "cadence", 0, 2, 0.5, "harmonic")}
	diverse := []evidence.Evidence{
		ev("a", "cadence", 0, 2, 0.5, "harmonic"),
		ev("b", "modal", 2, 4, 0.0001, "harmonic"),
	}
	singleRes := Aggregate(single, nil, DefaultConfig())
	diverseRes := Aggregate(diverse, nil, DefaultConfig())
	require.Greater(t, diverseRes.Scores["harmonic"], singleRes.Scores["harmonic"])
}

func TestAggregateIgnoresZeroWeightTracks(t *testing.T) {
	e := ev("a", "cadence", 0, 2, 0.9, "harmonic")
	e.TrackWeights["melodic"] = 0
	res := Aggregate([]evidence.Evidence{e}, nil, DefaultConfig())
	_, ok := res.Scores["melodic"]
	require.False(t, ok)
}

func TestDeterministicOrderingIsStable(t *testing.T) {
	evs := []evidence.Evidence{
		ev("z", "cadence", 0, 2, 0.5, "harmonic"),
		ev("a", "cadence", 0, 2, 0.5, "harmonic"),
	}
	resolved := resolveConflicts(evs, map[string]string{"cadence": "none"}, DefaultConfig())
	require.Equal(t, "a", resolved[0].PatternID)
	require.Equal(t, "z", resolved[1].PatternID)
}
