// Package arbitration implements primary/alternative track selection and
// the narrative AnalysisSummary construction (C10): turning the
// aggregator's per-track scores and surviving evidence into the single
// reading a caller sees first, plus the next-best alternatives.
package arbitration

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/aggregator"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/calibrator"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/context"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/envelope"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/theory"
)

// Config tunes alternative-track selection.
type Config struct {
	ConfidenceThreshold float64 // largest score gap below the primary at which an alternative is still listed
	MaxAlternatives     int
	MarginThreshold     float64 // pop profile: how far modal must exceed functional to win
}

// DefaultConfig matches spec.md §4.10's defaults.
func DefaultConfig() Config {
	return Config{ConfidenceThreshold: 0.15, MaxAlternatives: 3, MarginThreshold: 0.1}
}

// Precedence returns the tie-break order (best first) a profile prefers
// among otherwise-equal-scoring tracks.
func Precedence(profile context.Profile) []string {
	switch profile {
	case context.ProfileJazz:
		return []string{"modal", "functional", "chromatic"}
	case context.ProfilePop, context.ProfileFolk:
		return []string{"functional", "modal", "chromatic"}
	default: // classical, choral
		return []string{"functional", "chromatic", "modal"}
	}
}

func precedenceRank(order []string, track string) int {
	for i, t := range order {
		if t == track {
			return i
		}
	}
	return len(order)
}

// SelectPrimary picks the best-supported track. Ties (within a hair of
// floating-point equality) are broken via the profile's precedence order.
// Under the pop and folk profiles a modal reading wins over functional only
// when it clears it by more than cfg.MarginThreshold; a smaller modal lead
// is treated as a tie with functional, which the precedence order settles.
func SelectPrimary(scores map[string]float64, profile context.Profile, cfg Config) string {
	if len(scores) == 0 {
		return ""
	}
	if (profile == context.ProfilePop || profile == context.ProfileFolk) {
		if modal, ok := scores["modal"]; ok {
			if functional, ok2 := scores["functional"]; ok2 {
				if modal-functional > cfg.MarginThreshold {
					return "modal"
				}
				if modal > functional {
					adjusted := make(map[string]float64, len(scores))
					for t, s := range scores {
						adjusted[t] = s
					}
					adjusted["modal"] = functional
					scores = adjusted
				}
			}
		}
	}

	order := Precedence(profile)
	best := ""
	bestScore := -1.0
	for track, score := range scores {
		switch {
		case score > bestScore+1e-9:
			best, bestScore = track, score
		case score > bestScore-1e-9 && score < bestScore+1e-9:
			if precedenceRank(order, track) < precedenceRank(order, best) {
				best = track
			}
		}
	}
	return best
}

// SelectAlternatives returns up to cfg.MaxAlternatives other tracks whose
// score is within cfg.ConfidenceThreshold of the primary's, sorted by
// descending score.
func SelectAlternatives(scores map[string]float64, primary string, cfg Config) []string {
	primaryScore := scores[primary]
	type kv struct {
		track string
		score float64
	}
	var rest []kv
	for t, s := range scores {
		if t == primary {
			continue
		}
		if primaryScore-s <= cfg.ConfidenceThreshold {
			rest = append(rest, kv{t, s})
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		if rest[i].score != rest[j].score {
			return rest[i].score > rest[j].score
		}
		return rest[i].track < rest[j].track
	})
	if len(rest) > cfg.MaxAlternatives {
		rest = rest[:cfg.MaxAlternatives]
	}
	out := make([]string, len(rest))
	for i, r := range rest {
		out[i] = r.track
	}
	return out
}

// patternMatchDTO converts one track's surviving evidence into the public
// DTO shape, calibrating each raw score.
func patternMatchDTO(track string, bd aggregator.TrackBreakdown, cal calibrator.Mapping) envelope.PatternMatchDTO {
	evs := make([]envelope.EvidenceDTO, 0, len(bd.Surviving))
	for _, e := range bd.Surviving {
		evs = append(evs, envelope.EvidenceDTO{
			PatternID:   e.PatternID,
			PatternName: e.PatternName,
			Family:      e.Family,
			Span:        [2]int{e.Span.Start, e.Span.End},
			RawScore:    e.RawScore,
			Calibrated:  cal.Apply(e.RawScore),
			Features:    e.Features,
			CadenceRole: e.CadenceRole,
		})
	}
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].Span[0] < evs[j].Span[0] })
	return envelope.PatternMatchDTO{Track: track, Score: bd.Score, Confidence: cal.Apply(bd.Score), Evidence: evs}
}

// BuildSummary assembles the narrative AnalysisSummary from the
// aggregator's result and the chosen primary/alternative tracks.
func BuildSummary(ctx *context.Context, agg aggregator.Result, cal calibrator.Mapping, primary string, alternatives []string) (envelope.AnalysisSummary, []envelope.PatternMatchDTO) {
	summary := envelope.AnalysisSummary{
		PrimaryTrack:    primary,
		RomanNumerals:   romanLabels(ctx.Romans),
		ChromaticElements: chromaticElements(ctx.Romans),
		Cadences:        cadences(agg),
	}

	if bd, ok := agg.Breakdowns[primary]; ok {
		dto := patternMatchDTO(primary, bd, cal)
		summary.MatchedPatterns = []envelope.PatternMatchDTO{dto}
		summary.Confidence = dto.Confidence
	} else {
		summary.Confidence = 0
	}

	altDTOs := make([]envelope.PatternMatchDTO, 0, len(alternatives))
	for _, t := range alternatives {
		if bd, ok := agg.Breakdowns[t]; ok {
			altDTOs = append(altDTOs, patternMatchDTO(t, bd, cal))
		}
	}

	if ctx.Kind == context.InputNotes {
		summary.Scale = buildScaleSummary(ctx)
	}
	if ctx.Kind == context.InputMelody {
		summary.Melody = buildMelodySummary(ctx)
	}

	summary.Reasoning = reasoning(primary, agg)
	return summary, altDTOs
}

func buildScaleSummary(ctx *context.Context) *envelope.ScaleSummary {
	chars := ctx.Key.CharacteristicDegrees()
	var tags []string
	if len(chars) > 0 {
		tags = append(tags, "modal")
	}

	// ScaleDegree.Degree is numbered against the parent diatonic collection
	// (context.buildFromNotes resolves each note via parent.DegreeOf), so
	// the pitch class must be looked up through the same parent key rather
	// than ctx.Key's own mode-relative degree table.
	parent := ctx.Key.ParentKey()
	notes := make([]string, 0, len(ctx.ScaleDegrees))
	degrees := make([]int, 0, len(ctx.ScaleDegrees))
	for _, sd := range ctx.ScaleDegrees {
		notes = append(notes, parent.DegreePitchClass(sd.Degree).Name(parent.PrefersFlats()))
		degrees = append(degrees, sd.Degree)
	}

	return &envelope.ScaleSummary{
		KeyName:             ctx.Key.Name(),
		DetectedMode:        titleCase(string(ctx.Key.Scale)),
		ParentKey:           ctx.Key.ParentKey().Name(),
		ScaleTag:            string(ctx.Key.Scale),
		CharacteristicNotes: chars,
		Notes:               notes,
		Degrees:             degrees,
		Tags:                tags,
	}
}

func buildMelodySummary(ctx *context.Context) *envelope.MelodySummary {
	leadingToneResolutions := 0
	intervals := make([]int, 0, len(ctx.Melody))
	for i := 0; i+1 < len(ctx.Melody); i++ {
		degree := ctx.Key.DegreeOf(ctx.Melody[i].PitchClass)
		nextDegree := ctx.Key.DegreeOf(ctx.Melody[i+1].PitchClass)
		if degree == 7 && nextDegree == 1 {
			leadingToneResolutions++
		}
		step := semitones(ctx.Melody[i+1]) - semitones(ctx.Melody[i])
		if step < 0 {
			step = -step
		}
		intervals = append(intervals, step)
	}

	return &envelope.MelodySummary{
		Contour:                contour(ctx.Melody),
		RangeSemitones:         rangeSemitones(ctx.Melody),
		Intervals:              intervals,
		LeadingToneResolutions: leadingToneResolutions,
		CharacteristicNotes:    ctx.Key.CharacteristicDegrees(),
		MelodicCharacteristics: melodicCharacteristics(ctx, intervals),
	}
}

// melodicCharacteristics tags a melody's step/leap makeup: "stepwise
// motion" when at least half the motion is by step (up to 2 semitones),
// "leap emphasis" when most is wider than a whole tone (a third counts as
// a leap). "chromatic motion" fires on a note foreign to the
// key's diatonic collection — an ordinary diatonic half-step (e.g. 3-4 or
// 7-8 of a major scale) is not chromatic motion on its own.
func melodicCharacteristics(ctx *context.Context, intervals []int) []string {
	if len(intervals) == 0 {
		return nil
	}
	steps, leaps := 0, 0
	for _, iv := range intervals {
		switch {
		case iv <= 2:
			steps++
		default:
			leaps++
		}
	}
	chromatic := false
	for _, n := range ctx.Melody {
		if ctx.Key.DegreeOf(n.PitchClass) == 0 {
			chromatic = true
			break
		}
	}
	var tags []string
	if steps >= leaps {
		tags = append(tags, "stepwise motion")
	}
	if leaps > steps {
		tags = append(tags, "leap emphasis")
	}
	if chromatic {
		tags = append(tags, "chromatic motion")
	}
	return tags
}

func semitones(n context.MelodyNote) int {
	return int(n.PitchClass) + n.Octave*12
}

func rangeSemitones(notes []context.MelodyNote) int {
	if len(notes) == 0 {
		return 0
	}
	lo, hi := semitones(notes[0]), semitones(notes[0])
	for _, n := range notes[1:] {
		p := semitones(n)
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return hi - lo
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func contour(notes []context.MelodyNote) string {
	if len(notes) < 2 {
		return "static"
	}
	first, last := notes[0], notes[len(notes)-1]
	firstPitch := semitones(first)
	lastPitch := semitones(last)

	highestIdx, lowestIdx := 0, 0
	for i, n := range notes {
		p := semitones(n)
		if p > semitones(notes[highestIdx]) {
			highestIdx = i
		}
		if p < semitones(notes[lowestIdx]) {
			lowestIdx = i
		}
	}
	switch {
	case highestIdx > 0 && highestIdx < len(notes)-1 && highestIdx != lowestIdx:
		return "arch"
	case lowestIdx > 0 && lowestIdx < len(notes)-1:
		return "wave"
	case lastPitch > firstPitch:
		return "ascending"
	case lastPitch < firstPitch:
		return "descending"
	default:
		return "static"
	}
}

func romanLabels(romans []theory.RomanNumeral) []string {
	if len(romans) == 0 {
		return nil
	}
	out := make([]string, len(romans))
	for i, rn := range romans {
		out[i] = rn.String()
	}
	return out
}

func chromaticElements(romans []theory.RomanNumeral) []envelope.ChromaticElement {
	var out []envelope.ChromaticElement
	for i, rn := range romans {
		switch {
		case rn.SecondaryOf != nil:
			out = append(out, envelope.ChromaticElement{
				Index:       i,
				RomanLabel:  rn.String(),
				Explanation: "secondary dominant",
			})
		case rn.Accidental != "":
			out = append(out, envelope.ChromaticElement{
				Index:       i,
				RomanLabel:  rn.String(),
				Explanation: "borrowed from the parallel mode",
			})
		}
	}
	return out
}

func cadences(agg aggregator.Result) []envelope.Cadence {
	var out []envelope.Cadence
	seen := map[[2]int]bool{}
	for _, bd := range agg.Breakdowns {
		for _, e := range bd.Surviving {
			if e.Family != "cadence" || e.CadenceRole == "" {
				continue
			}
			key := [2]int{e.Span.End - 1, e.Span.End}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, envelope.Cadence{
				Index: e.Span.End - 1,
				Type:  strings.TrimPrefix(e.PatternID, "cadence."),
				Final: e.SectionClose,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func reasoning(primary string, agg aggregator.Result) string {
	bd, ok := agg.Breakdowns[primary]
	if !ok || len(bd.Surviving) == 0 {
		return fmt.Sprintf("No strong evidence found; defaulting to the %s track.", primary)
	}
	return fmt.Sprintf("Selected the %s reading, supported by %d matched pattern(s) (top: %s).",
		primary, len(bd.Surviving), topPattern(bd))
}

func topPattern(bd aggregator.TrackBreakdown) string {
	best := bd.Surviving[0]
	for _, e := range bd.Surviving[1:] {
		if e.RawScore > best.RawScore {
			best = e
		}
	}
	return best.PatternName
}
