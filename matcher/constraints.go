package matcher

import (
	"strings"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/context"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/patterns"
)

// checkConstraints evaluates every declared constraint against the span
// [start, start+length). Any failing constraint rejects the candidate.
func checkConstraints(c patterns.Constraints, ctx *context.Context, start, length int) bool {
	end := start + length
	tokenCount := contextLength(ctx)

	if len(c.SopranoDegree) > 0 && !checkSopranoDegree(c.SopranoDegree, ctx, end-1) {
		return false
	}
	if len(c.BassMotion) > 0 && !checkBassMotion(c.BassMotion, ctx, start, end) {
		return false
	}
	if c.Position != "" && !checkPosition(c.Position, start, end, tokenCount) {
		return false
	}
	if len(c.ModeAnyOf) > 0 && !checkModeAnyOf(c.ModeAnyOf, ctx) {
		return false
	}
	if len(c.CharacteristicInterval) > 0 && !checkCharacteristicInterval(c.CharacteristicInterval, ctx, start, end) {
		return false
	}
	if c.KeyContext != "" && !checkKeyContext(c.KeyContext, ctx, start, end) {
		return false
	}
	return true
}

func contextLength(ctx *context.Context) int {
	switch {
	case len(ctx.Romans) > 0:
		return len(ctx.Romans)
	case len(ctx.Chords) > 0:
		return len(ctx.Chords)
	case len(ctx.ScaleDegrees) > 0:
		return len(ctx.ScaleDegrees)
	case len(ctx.Melody) > 0:
		return len(ctx.Melody)
	default:
		return 0
	}
}

// checkSopranoDegree requires the span's final chord's soprano to land on
// one of the declared scale degrees. Harmonic input with no inferable
// soprano line can't be checked, so it is treated as satisfied — spec.md
// doesn't have the engine reject a cadence match solely because voicing
// data wasn't supplied.
func checkSopranoDegree(want []int, ctx *context.Context, idx int) bool {
	if idx < 0 || idx >= len(ctx.SopranoLine) {
		return true
	}
	degree := ctx.Key.DegreeOf(ctx.SopranoLine[idx])
	for _, d := range want {
		if d == degree {
			return true
		}
	}
	return false
}

func checkBassMotion(want []int, ctx *context.Context, start, end int) bool {
	if len(ctx.BassLine) < end || end-start < 2 {
		return true
	}
	motion := ctx.BassLine[end-1].Sub(ctx.BassLine[start])
	if motion > 6 {
		motion -= 12
	}
	for _, w := range want {
		if w == motion {
			return true
		}
	}
	return false
}

func checkPosition(pos string, start, end, total int) bool {
	switch pos {
	case "start":
		return start == 0
	case "end":
		return end == total
	case "middle":
		return start > 0 && end < total
	default:
		return true
	}
}

func checkModeAnyOf(modes []string, ctx *context.Context) bool {
	for _, m := range modes {
		if strings.EqualFold(m, string(ctx.Key.Scale)) {
			return true
		}
	}
	return false
}

// checkCharacteristicInterval requires at least one chord tone in the
// span — not just a chord root — sitting the given number of semitones
// above the key's tonic. A mode's characteristic degree (e.g. Dorian's
// natural 6th) typically shows up as a chord tone of a diatonic triad
// (the 3rd of IV), not as the root of a dedicated chord, so the root
// alone is too narrow a check.
func checkCharacteristicInterval(intervals []int, ctx *context.Context, start, end int) bool {
	if len(ctx.Chords) < end {
		return false
	}
	for i := start; i < end; i++ {
		for _, tone := range ctx.Chords[i].ChordTones() {
			rel := tone.Sub(ctx.Key.Tonic)
			for _, want := range intervals {
				if rel == want {
					return true
				}
			}
		}
	}
	return false
}

func checkKeyContext(kind string, ctx *context.Context, start, end int) bool {
	if len(ctx.Romans) < end {
		return true
	}
	allDiatonic := true
	anyChromatic := false
	for i := start; i < end; i++ {
		rn := ctx.Romans[i]
		if rn.SecondaryOf != nil || rn.Accidental != "" {
			anyChromatic = true
			allDiatonic = false
		}
	}
	switch kind {
	case "diatonic":
		return allDiatonic
	case "chromatic":
		return anyChromatic
	default:
		return true
	}
}
