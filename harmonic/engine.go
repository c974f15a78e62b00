// Package harmonic is the top-level facade: it wires the normalization,
// tokenization, matching, aggregation, calibration, and arbitration stages
// into a single Analyze call and owns the envelope/error DTOs a caller sees.
package harmonic

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/aggregator"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/arbitration"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/calibrator"
	actx "github.com/Conceptual-Machines/harmonic-analysis-engine/context"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/envelope"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/evaluators"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/glossary"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/matcher"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/patterns"
)

// Input mirrors context.Input at the facade boundary, plus the
// supplement fields (capo) SPEC_FULL.md §5 adds.
type Input struct {
	Chords   []string
	Romans   []string
	Notes    []string
	Melody   []string
	KeyHint  string
	Profile  string
	Capo     int
	Metadata map[string]any
}

// Engine is the stateful facade: an immutable pattern catalogue and
// calibration mapping, hot-swappable via atomic pointers so a long-running
// host process can reload either without locking the analysis hot path.
type Engine struct {
	catalogue   atomic.Pointer[patterns.Catalogue]
	calibration atomic.Pointer[calibrator.Mapping]
	registry    *evaluators.Registry
	aggCfg      aggregator.Config
	arbCfg      arbitration.Config
	glossary    map[string]glossary.Entry
	logger      *log.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger injects an optional logger; the engine stays silent by
// default (spec.md §5 forbids ambient global logging on the hot path).
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCalibration installs a fitted calibration mapping.
func WithCalibration(m calibrator.Mapping) Option {
	return func(e *Engine) { e.calibration.Store(&m) }
}

// WithAggregatorConfig overrides the default conflict/diversity tuning.
func WithAggregatorConfig(cfg aggregator.Config) Option {
	return func(e *Engine) { e.aggCfg = cfg }
}

// WithArbitrationConfig overrides the default primary/alternative tuning.
func WithArbitrationConfig(cfg arbitration.Config) Option {
	return func(e *Engine) { e.arbCfg = cfg }
}

// New constructs an Engine from a loaded pattern catalogue. This is the
// only call in the package allowed to fail hard (a malformed catalogue is
// a configuration error, not an analytical one).
func New(cat *patterns.Catalogue, opts ...Option) (*Engine, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, wrap(ErrCatalogueNotReady, errNilCatalogue)
	}
	e := &Engine{
		registry: evaluators.Default(),
		aggCfg:   aggregator.DefaultConfig(),
		arbCfg:   arbitration.DefaultConfig(),
		glossary: glossary.Default(),
	}
	e.catalogue.Store(cat)
	identity := calibrator.Identity()
	e.calibration.Store(&identity)
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ReloadCatalogue atomically swaps in a newly loaded pattern catalogue.
func (e *Engine) ReloadCatalogue(cat *patterns.Catalogue) {
	e.catalogue.Store(cat)
}

// ReloadCalibration atomically swaps in a newly fitted calibration mapping.
func (e *Engine) ReloadCalibration(m calibrator.Mapping) {
	e.calibration.Store(&m)
}

// Analyze runs the full pipeline on one input and returns the resulting
// envelope. The ctx parameter is not consulted: analysis is synchronous
// CPU work with no I/O, and it is neither cancelled nor bounded by ctx.
func (e *Engine) Analyze(_ context.Context, in Input) (*envelope.AnalysisEnvelope, error) {
	actxIn := actx.Input{
		Chords:   in.Chords,
		Romans:   in.Romans,
		Notes:    in.Notes,
		Melody:   in.Melody,
		KeyHint:  in.KeyHint,
		Profile:  actx.Profile(in.Profile),
		Metadata: in.Metadata,
	}
	analysisCtx, err := actx.Build(actxIn)
	if err != nil {
		return nil, classifyBuildError(err)
	}

	cat := e.catalogue.Load()
	evs := matcher.Match(analysisCtx, cat, e.registry)

	policyByFamily := familyConflictPolicies(cat)
	aggResult := aggregator.Aggregate(evs, policyByFamily, e.aggCfg)

	cal := e.calibration.Load()
	calibratedScores := make(map[string]float64, len(aggResult.Scores))
	for track, score := range aggResult.Scores {
		calibratedScores[track] = cal.Apply(score)
	}
	primary := arbitration.SelectPrimary(calibratedScores, analysisCtx.Profile, e.arbCfg)
	alternatives := arbitration.SelectAlternatives(calibratedScores, primary, e.arbCfg)
	summary, altDTOs := arbitration.BuildSummary(analysisCtx, aggResult, *cal, primary, alternatives)

	env := &envelope.AnalysisEnvelope{
		Input: envelope.InputEcho{
			Kind:           string(analysisCtx.Kind),
			Key:            analysisCtx.Key.Name(),
			KeyWasInferred: analysisCtx.KeyWasInferred,
			Profile:        string(analysisCtx.Profile),
			Capo:           in.Capo,
			Metadata:       in.Metadata,
		},
		Summary:      summary,
		Alternatives: altDTOs,
		Terms:        toEnvelopeTerms(glossary.Enrich(e.glossary, usedFeatureKeys(aggResult))),
	}

	if e.logger != nil {
		e.logger.Printf("harmonic: analyzed %s input, primary=%s key=%s", analysisCtx.Kind, primary, analysisCtx.Key.Name())
	}
	return env, nil
}

// toEnvelopeTerms converts the glossary package's internal Term shape to
// the envelope DTO, keeping the glossary package free of a dependency on
// the envelope wire format.
func toEnvelopeTerms(terms []glossary.Term) []envelope.Term {
	out := make([]envelope.Term, len(terms))
	for i, t := range terms {
		out[i] = envelope.Term{Key: t.Key, Label: t.Label, Tooltip: t.Tooltip}
	}
	return out
}

func familyConflictPolicies(cat *patterns.Catalogue) map[string]string {
	out := map[string]string{}
	for _, p := range cat.Patterns() {
		if p.Metadata.Family != "" && p.Metadata.Conflict != "" {
			out[p.Metadata.Family] = string(p.Metadata.Conflict)
		}
	}
	return out
}

func usedFeatureKeys(agg aggregator.Result) []string {
	seen := map[string]bool{}
	var keys []string
	for _, bd := range agg.Breakdowns {
		for _, e := range bd.Surviving {
			for k := range e.Features {
				if !seen[k] {
					seen[k] = true
					keys = append(keys, k)
				}
			}
		}
	}
	return keys
}
