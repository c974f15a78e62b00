// Package matcher implements the pattern matcher (C6): it enumerates
// candidate windows of each loaded pattern against a normalized analysis
// context, checks constraints, applies profile-aware chord-substitution
// widening, extracts features, and invokes the configured evaluator to
// produce Evidence.
package matcher

import (
	"sort"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/context"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/evaluators"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/evidence"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/patterns"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/tokens"
)

// Match enumerates matches of every pattern in cat against ctx, in
// catalogue order, each pattern scanning its candidate windows
// left-to-right (spec.md §5's ordering guarantee).
func Match(ctx *context.Context, cat *patterns.Catalogue, registry *evaluators.Registry) []evidence.Evidence {
	if contextLength(ctx) == 0 {
		return nil
	}

	toks := tokens.Convert(ctx)

	var all []evidence.Evidence
	for _, p := range cat.Patterns() {
		if !scopeApplies(p, ctx) {
			continue
		}
		mult := profileMultiplier(p, ctx.Profile)
		if mult == 0 {
			continue
		}
		fn, ok := registry.Lookup(p.Evidence.ConfidenceFn)
		if !ok {
			continue // unknown evaluator: the pattern is skipped; loading only checks that confidence_fn is non-empty
		}

		matches := candidateMatches(p, ctx, toks, fn, mult)
		if !p.Matchers.Window.OverlapOK {
			matches = greedyNonOverlapping(matches)
		}
		all = append(all, matches...)
	}
	return all
}

func scopeApplies(p patterns.Pattern, ctx *context.Context) bool {
	for _, s := range p.Scope {
		switch s {
		case patterns.ScopeHarmonic:
			if len(ctx.Romans) > 0 || len(ctx.Chords) > 0 {
				return true
			}
		case patterns.ScopeMelodic:
			if len(ctx.Melody) > 0 {
				return true
			}
		case patterns.ScopeScale:
			if len(ctx.ScaleDegrees) > 0 {
				return true
			}
		}
	}
	return false
}

func profileMultiplier(p patterns.Pattern, profile context.Profile) float64 {
	if len(p.ProfileWeights) == 0 {
		return 1.0
	}
	w, ok := p.ProfileWeights[string(profile)]
	if !ok {
		return 1.0
	}
	return w
}

func candidateMatches(p patterns.Pattern, ctx *context.Context, toks []tokens.Token, fn evaluators.Fn, mult float64) []evidence.Evidence {
	length := p.Matchers.Window.Len
	total := tokenCount(p, ctx)
	if length <= 0 || total < length {
		return nil
	}

	var out []evidence.Evidence
	for start := 0; start+length <= total; start++ {
		res := matchSequence(p, ctx, start, ctx.Profile)
		if !res.matched {
			continue
		}
		cons := p.Matchers.Constraints
		if res.substitutionUsed && cons.KeyContext == "diatonic" {
			// A substitute chord stands in for the diatonic degree the
			// pattern names, so its accidental does not fail the span.
			cons.KeyContext = ""
		}
		if !checkConstraints(cons, ctx, start, length) {
			continue
		}

		span := evidence.Span{Start: start, End: start + length}
		feats := computeFeatures(p, ctx, start, length, res.substitutionUsed, toks)
		raw := fn(p, feats) * p.Evidence.Weight * mult
		if raw < 0 {
			raw = 0
		}
		if raw > 1 {
			raw = 1
		}

		weights := make(map[string]float64, len(p.Track))
		for _, t := range p.Track {
			weights[string(t)] = 1.0
		}

		plainFeatures := make(map[string]float64, len(feats))
		for k, v := range feats {
			plainFeatures[k] = v
		}

		ev := evidence.Evidence{
			PatternID:    p.ID,
			PatternName:  p.Name,
			Family:       p.Metadata.Family,
			Span:         span,
			TrackWeights: weights,
			Features:     plainFeatures,
			RawScore:     raw,
			Priority:     p.Metadata.Priority,
			Surviving:    true,
		}
		ev.CadenceRole, ev.SectionClose = cadenceRole(p, start, total)
		out = append(out, ev)
	}
	return out
}

// cadenceRole tags cadence-family patterns landing at the end of the
// context as the section-closing cadence.
func cadenceRole(p patterns.Pattern, start, total int) (role string, closes bool) {
	if p.Metadata.Family != "cadence" {
		return "", false
	}
	end := start + p.Matchers.Window.Len
	if end == total {
		return "final", true
	}
	return "internal", false
}

// greedyNonOverlapping implements spec.md §4.6's edge-case policy for
// overlap_ok=false: retain the highest-scoring non-overlapping subset via
// a greedy left-to-right scan, tie-breaking on earlier start.
func greedyNonOverlapping(matches []evidence.Evidence) []evidence.Evidence {
	if len(matches) <= 1 {
		return matches
	}
	sorted := append([]evidence.Evidence(nil), matches...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RawScore != sorted[j].RawScore {
			return sorted[i].RawScore > sorted[j].RawScore
		}
		return sorted[i].Span.Start < sorted[j].Span.Start
	})

	var kept []evidence.Evidence
	for _, m := range sorted {
		overlaps := false
		for _, k := range kept {
			if m.Span.Overlaps(k.Span) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, m)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Span.Start < kept[j].Span.Start })
	return kept
}
