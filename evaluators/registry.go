// Package evaluators implements the plugin registry (C5): a mapping from
// evaluator name to a pure, deterministic confidence function the pattern
// matcher invokes once a pattern's sequence and constraints are satisfied.
//
// The source represents evaluators as decorator-registered callables keyed
// by name, duck-typed against the features dict they receive. This module
// keeps the name-keyed registry (it's the right shape for "pattern
// declares an evaluator by string") but replaces the duck typing with a
// closed Go func type and an explicit features map.
package evaluators

import "github.com/Conceptual-Machines/harmonic-analysis-engine/patterns"

// Features is the normalized [0,1] feature map computed by the matcher for
// one candidate span, keyed by feature name.
type Features map[string]float64

// Fn is the signature every registered evaluator implements. It must be
// pure and side-effect-free: same inputs, same output, every time.
type Fn func(p patterns.Pattern, features Features) float64

// Registry is a name -> Fn lookup table. The zero value is not usable;
// construct with NewRegistry or Default.
type Registry struct {
	fns map[string]Fn
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{fns: map[string]Fn{}}
}

// Register adds or replaces the evaluator under name. Registering under an
// existing name is allowed (it is how callers override a built-in), unlike
// the one-shot immutability of a loaded pattern catalogue.
func (r *Registry) Register(name string, fn Fn) {
	r.fns[name] = fn
}

// Lookup returns the evaluator registered under name, if any.
func (r *Registry) Lookup(name string) (Fn, bool) {
	fn, ok := r.fns[name]
	return fn, ok
}

// Default returns a Registry pre-populated with the built-in evaluators
// named in spec.md §4.5: identity, logistic_default, and a logistic_<mode>
// sibling per mode requiring characteristic-degree weighting.
func Default() *Registry {
	r := NewRegistry()
	r.Register("identity", identityFn)
	r.Register("logistic_default", logisticDefaultFn)
	r.Register("logistic_dorian", modalLogistic("characteristic_sixth"))
	r.Register("logistic_mixolydian", modalLogistic("has_mixolydian_cadence"))
	r.Register("logistic_phrygian", modalLogistic("modal_char_score"))
	r.Register("logistic_lydian", modalLogistic("modal_char_score"))
	return r
}
