package evaluators

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/patterns"
)

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	r := Default()
	for _, name := range []string{"identity", "logistic_default", "logistic_dorian"} {
		_, ok := r.Lookup(name)
		require.True(t, ok, "missing built-in evaluator %q", name)
	}
}

func TestIdentityAlwaysOne(t *testing.T) {
	r := Default()
	fn, _ := r.Lookup("identity")
	require.Equal(t, 1.0, fn(patterns.Pattern{}, Features{"x": 0.1}))
}

func TestLogisticDefaultMonotonic(t *testing.T) {
	r := Default()
	fn, _ := r.Lookup("logistic_default")
	p := patterns.Pattern{Evidence: patterns.Evidence{Features: []string{"a", "b"}}}
	low := fn(p, Features{"a": 0.1, "b": 0.1})
	high := fn(p, Features{"a": 0.9, "b": 0.9})
	require.Less(t, low, high)
	require.GreaterOrEqual(t, low, 0.0)
	require.LessOrEqual(t, high, 1.0)
}

func TestModalLogisticWeightsCharacteristic(t *testing.T) {
	r := Default()
	fn, _ := r.Lookup("logistic_dorian")
	p := patterns.Pattern{Evidence: patterns.Evidence{Features: []string{"has_modal_vamp"}}}
	withChar := fn(p, Features{"has_modal_vamp": 0.2, "characteristic_sixth": 1.0})
	withoutChar := fn(p, Features{"has_modal_vamp": 0.2, "characteristic_sixth": 0.0})
	require.Greater(t, withChar, withoutChar)
}

func TestRegisterOverride(t *testing.T) {
	r := NewRegistry()
	r.Register("always_half", func(patterns.Pattern, Features) float64 { return 0.5 })
	fn, ok := r.Lookup("always_half")
	require.True(t, ok)
	require.Equal(t, 0.5, fn(patterns.Pattern{}, nil))
}
