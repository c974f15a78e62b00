package matcher

import (
	"strings"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/context"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/evaluators"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/patterns"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/tokens"
)

// computeFeatures evaluates every feature name the pattern declares
// (spec.md §4.6 step 4) against the matched span. Boolean-shaped features
// (has_*) resolve to 1.0 once the sequence/constraint match above has
// already succeeded — the matcher itself is the detector; the feature
// just exposes that fact to the evaluator and to the envelope.
func computeFeatures(p patterns.Pattern, ctx *context.Context, start, length int, substitutionUsed bool, toks []tokens.Token) evaluators.Features {
	f := evaluators.Features{}
	end := start + length
	for _, name := range p.Evidence.Features {
		f[name] = featureValue(name, ctx, start, end, substitutionUsed, toks, p)
	}
	// Always expose these regardless of whether the pattern declared them,
	// so the evaluator and downstream substitution bookkeeping can read
	// them without every pattern having to list them explicitly.
	if _, ok := f["substitution_used"]; !ok && substitutionUsed {
		f["substitution_used"] = 1.0
	}
	return f
}

func featureValue(name string, ctx *context.Context, start, end int, substitutionUsed bool, toks []tokens.Token, p patterns.Pattern) float64 {
	switch name {
	case "substitution_used":
		if substitutionUsed {
			return 1.0
		}
		return 0.0
	case "tonal_clarity":
		return diatonicFraction(toks, start, end)
	case "soprano_on_tonic":
		if end-1 >= 0 && end-1 < len(ctx.SopranoLine) {
			if ctx.Key.DegreeOf(ctx.SopranoLine[end-1]) == 1 {
				return 1.0
			}
			return 0.0
		}
		return 0.5 // unknown — neutral
	case "modal_char_score":
		return modalCharFraction(toks, start, end)
	case "outside_key_ratio":
		return 1.0 - diatonicFraction(toks, 0, len(toks))
	case "voice_leading_smoothness":
		return voiceLeadingSmoothness(toks, start, end)
	case "pattern_weight":
		return p.Evidence.Weight
	case "characteristic_sixth":
		return characteristicIntervalPresent(ctx, start, end, 9)
	default:
		if strings.HasPrefix(name, "has_") {
			return 1.0 // the sequence/constraint matcher already confirmed this
		}
		return 0.5
	}
}

func diatonicFraction(toks []tokens.Token, start, end int) float64 {
	if end > len(toks) {
		end = len(toks)
	}
	if start >= end {
		return 1.0
	}
	diatonic := 0
	for i := start; i < end; i++ {
		if toks[i].IsDiatonic {
			diatonic++
		}
	}
	return float64(diatonic) / float64(end-start)
}

func modalCharFraction(toks []tokens.Token, start, end int) float64 {
	if end > len(toks) {
		end = len(toks)
	}
	if start >= end {
		return 0.0
	}
	flagged := 0
	for i := start; i < end; i++ {
		if len(toks[i].Alterations) > 0 {
			flagged++
		}
	}
	return float64(flagged) / float64(end-start)
}

func voiceLeadingSmoothness(toks []tokens.Token, start, end int) float64 {
	if end > len(toks) {
		end = len(toks)
	}
	if end-start < 2 {
		return 1.0
	}
	total := 0
	count := 0
	for i := start; i < end-1; i++ {
		m := toks[i].RootMotionToNext
		if m < 0 {
			m = -m
		}
		total += m
		count++
	}
	if count == 0 {
		return 1.0
	}
	avg := float64(total) / float64(count)
	// No root motion scores 1.0 and the score falls linearly to 0.0 at a
	// tritone (6 semitones); an average half-step scores 5/6.
	smooth := 1.0 - avg/6.0
	if smooth < 0 {
		smooth = 0
	}
	if smooth > 1 {
		smooth = 1
	}
	return smooth
}

func characteristicIntervalPresent(ctx *context.Context, start, end int, want int) float64 {
	if end > len(ctx.Chords) {
		return 0.0
	}
	for i := start; i < end; i++ {
		for _, tone := range ctx.Chords[i].ChordTones() {
			if tone.Sub(ctx.Key.Tonic) == want {
				return 1.0
			}
		}
	}
	return 0.0
}
