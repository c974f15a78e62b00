// Package aggregator implements evidence aggregation (C7): conflict
// resolution across overlapping pattern matches, per-track soft-OR
// combination, and a diversity bonus, producing one raw score per track.
package aggregator

import (
	"math"
	"sort"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/evidence"
)

// Config holds the tunable constants spec.md §9 says should stay
// configurable rather than hard-coded: soft-NMS decay and the diversity
// bonus magnitude.
type Config struct {
	SoftNMSSigma     float64
	DiversityBonus   float64
	DefaultConflict  string // applied when a pattern's metadata doesn't declare one
}

// DefaultConfig matches the values spec.md §4.7 documents as defaults.
func DefaultConfig() Config {
	return Config{SoftNMSSigma: 0.5, DiversityBonus: 0.05, DefaultConflict: "soft_nms"}
}

// TrackBreakdown is the per-track debug/envelope-facing summary of which
// evidence survived conflict resolution and contributed to the score.
type TrackBreakdown struct {
	Track     string
	Score     float64
	Surviving []evidence.Evidence
	Families  map[string]bool
}

// Result is the aggregator's output: one raw score per track plus the
// breakdown used by tests and the envelope.
type Result struct {
	Scores     map[string]float64
	Breakdowns map[string]TrackBreakdown
}

// Aggregate combines evidence into per-track raw scores. Conflict
// resolution (soft-NMS / max-pool / none) is applied per pattern family
// before the per-track soft-OR combination; policy is read from each
// evidence's Family via policyByFamily (evidence carries only the family
// string; a family missing from the map uses cfg.DefaultConflict).
func Aggregate(evidences []evidence.Evidence, policyByFamily map[string]string, cfg Config) Result {
	resolved := resolveConflicts(evidences, policyByFamily, cfg)

	tracks := map[string]bool{}
	for _, e := range resolved {
		for t, w := range e.TrackWeights {
			if w > 0 {
				tracks[t] = true
			}
		}
	}

	scores := map[string]float64{}
	breakdowns := map[string]TrackBreakdown{}
	for t := range tracks {
		var surviving []evidence.Evidence
		product := 1.0
		families := map[string]bool{}
		for _, e := range resolved {
			w, ok := e.TrackWeights[t]
			if !ok || w <= 0 || e.RawScore <= 0 {
				continue
			}
			product *= 1 - e.RawScore*w
			surviving = append(surviving, e)
			if e.Family != "" {
				families[e.Family] = true
			}
		}
		score := 1 - product
		if len(families) >= 2 {
			score += cfg.DiversityBonus
		}
		if score > 1 {
			score = 1
		}
		if score < 0 {
			score = 0
		}
		scores[t] = score
		breakdowns[t] = TrackBreakdown{Track: t, Score: score, Surviving: surviving, Families: families}
	}
	return Result{Scores: scores, Breakdowns: breakdowns}
}

// resolveConflicts applies the configured conflict policy across evidence
// sharing chord indices, grouped by pattern family (spec.md §4.7 step 1).
// Resolution order is deterministic: evidence is processed by descending
// raw score, then declared priority, then pattern id, matching the
// tie-break rule spec.md §4.7 requires.
func resolveConflicts(evidences []evidence.Evidence, policyByFamily map[string]string, cfg Config) []evidence.Evidence {
	byFamily := map[string][]evidence.Evidence{}
	for _, e := range evidences {
		byFamily[e.Family] = append(byFamily[e.Family], e)
	}

	var out []evidence.Evidence
	for family, group := range byFamily {
		policy := cfg.DefaultConflict
		if p, ok := policyByFamily[family]; ok && p != "" {
			policy = p
		}
		switch policy {
		case "max_pool":
			out = append(out, maxPool(group)...)
		case "none":
			out = append(out, group...)
		default: // "soft_nms"
			out = append(out, softNMS(group, cfg.SoftNMSSigma)...)
		}
	}
	sortDeterministic(out)
	return out
}

func sortDeterministic(evs []evidence.Evidence) {
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].RawScore != evs[j].RawScore {
			return evs[i].RawScore > evs[j].RawScore
		}
		if evs[i].Priority != evs[j].Priority {
			return evs[i].Priority > evs[j].Priority
		}
		return evs[i].PatternID < evs[j].PatternID
	})
}

// softNMS decays the score of each lower-ranked evidence that overlaps a
// higher-ranked one, by exp(-overlap_fraction/sigma), rather than
// eliminating it outright.
func softNMS(group []evidence.Evidence, sigma float64) []evidence.Evidence {
	sorted := append([]evidence.Evidence(nil), group...)
	sortDeterministic(sorted)

	out := make([]evidence.Evidence, len(sorted))
	copy(out, sorted)
	for i := range out {
		for j := 0; j < i; j++ {
			overlap := out[i].Span.OverlapFraction(out[j].Span)
			if overlap <= 0 {
				continue
			}
			decay := math.Exp(-overlap / sigma)
			out[i].RawScore *= decay
		}
	}
	return out
}

// maxPool retains, for any contested index, only the single highest-scoring
// evidence.
func maxPool(group []evidence.Evidence) []evidence.Evidence {
	sorted := append([]evidence.Evidence(nil), group...)
	sortDeterministic(sorted)

	claimed := map[int]bool{}
	var out []evidence.Evidence
	for _, e := range sorted {
		contested := false
		for i := e.Span.Start; i < e.Span.End; i++ {
			if claimed[i] {
				contested = true
				break
			}
		}
		if contested {
			continue
		}
		for i := e.Span.Start; i < e.Span.End; i++ {
			claimed[i] = true
		}
		out = append(out, e)
	}
	return out
}
