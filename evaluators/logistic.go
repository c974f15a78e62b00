package evaluators

import (
	"math"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/patterns"
)

// logisticSlope and logisticIntercept are the default logistic-combination
// coefficients: tuned by historical experiment against the corpus this
// engine was derived from, not derived analytically. Re-implementers
// should keep these configurable (see Registry.Register) rather than
// hard-coded further than this package boundary — spec.md §9.
const (
	logisticSlope     = 6.0
	logisticIntercept = -2.5
)

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// identityFn returns 1.0 whenever the matcher has already established a
// syntactic match — the pattern's declared weight alone carries the
// confidence. This is the evaluator used by patterns that don't need
// feature-weighted scoring (e.g. schema/smoke-test patterns).
func identityFn(_ patterns.Pattern, _ Features) float64 { return 1.0 }

// logisticDefaultFn combines the pattern's declared features with equal
// weight through a logistic function, used by functional-track patterns.
func logisticDefaultFn(p patterns.Pattern, f Features) float64 {
	mean := meanFeature(p.Evidence.Features, f)
	return sigmoid(logisticSlope*mean + logisticIntercept)
}

// modalLogistic builds a mode-specific evaluator that up-weights a single
// characteristic feature (e.g. "characteristic_sixth" for Dorian) relative
// to the pattern's other declared features, matching spec.md §4.5's
// "logistic_dorian (and siblings per mode)".
func modalLogistic(characteristicFeature string) Fn {
	return func(p patterns.Pattern, f Features) float64 {
		base := meanFeature(p.Evidence.Features, f)
		char := f[characteristicFeature]
		// The characteristic feature counts for half the combination
		// regardless of how many other features the pattern declares.
		mean := 0.5*char + 0.5*base
		return sigmoid(logisticSlope*mean + logisticIntercept)
	}
}

func meanFeature(names []string, f Features) float64 {
	if len(names) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, n := range names {
		sum += f[n]
	}
	return sum / float64(len(names))
}
