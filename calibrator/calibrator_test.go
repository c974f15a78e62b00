package calibrator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func linspace(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

func TestFitRejectsSmallSampleCount(t *testing.T) {
	m := Fit(MethodPlatt, []float64{0.1, 0.9}, []float64{0, 1})
	require.Equal(t, MethodIdentity, m.Method)
	require.False(t, m.PassedGates)
	require.Equal(t, "insufficient samples", m.Diagnostics.FailureReason)
}

func TestFitRejectsLowTargetVariance(t *testing.T) {
	raw := linspace(60)
	targets := make([]float64, 60)
	for i := range targets {
		targets[i] = 0.5
	}
	m := Fit(MethodPlatt, raw, targets)
	require.False(t, m.PassedGates)
	require.Equal(t, "target variance too low", m.Diagnostics.FailureReason)
}

func TestFitPlattAcceptsWellCorrelatedData(t *testing.T) {
	raw := linspace(100)
	targets := make([]float64, 100)
	for i, r := range raw {
		if r > 0.5 {
			targets[i] = 1
		}
	}
	m := Fit(MethodPlatt, raw, targets)
	require.True(t, m.PassedGates)
	require.Equal(t, MethodPlatt, m.Method)
	require.Less(t, m.Apply(0.0), m.Apply(1.0))
}

func TestFitIsotonicAcceptsMonotoneData(t *testing.T) {
	raw := linspace(100)
	targets := make([]float64, 100)
	copy(targets, raw)
	m := Fit(MethodIsotonic, raw, targets)
	require.True(t, m.PassedGates)
	require.InDelta(t, 0.0, m.Apply(0.0), 0.05)
	require.InDelta(t, 1.0, m.Apply(1.0), 0.05)
}

func TestApplyClampsOutOfRangeInputs(t *testing.T) {
	m := Identity()
	require.Equal(t, 0.0, m.Apply(-5))
	require.Equal(t, 1.0, m.Apply(5))
}

func TestIdentityNeverPassesGates(t *testing.T) {
	require.False(t, Identity().PassedGates)
}

func TestFitBestPrefersPlattWhenItPasses(t *testing.T) {
	raw := linspace(100)
	targets := make([]float64, 100)
	for i, r := range raw {
		if r > 0.5 {
			targets[i] = 1
		}
	}
	m := FitBest(raw, targets)
	require.True(t, m.PassedGates)
	require.Equal(t, MethodPlatt, m.Method)
}

func TestFitBestFallsBackToIdentityWhenGatesFail(t *testing.T) {
	m := FitBest([]float64{0.1, 0.9}, []float64{0, 1})
	require.Equal(t, MethodIdentity, m.Method)
	require.False(t, m.PassedGates)
}
