package matcher

import (
	"github.com/Conceptual-Machines/harmonic-analysis-engine/context"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/patterns"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/theory"
)

// tokenCount reports how many positions the pattern's declared sequence
// matcher operates over, given the context's input kind. A pattern whose
// matcher type doesn't apply to this context (e.g. a roman_seq pattern
// against a scale-only context) reports 0, which yields no candidate
// windows.
func tokenCount(p patterns.Pattern, ctx *context.Context) int {
	switch {
	case len(p.Matchers.RomanSeq) > 0:
		return len(ctx.Romans)
	case len(p.Matchers.ChordSeq) > 0:
		return len(ctx.Chords)
	case len(p.Matchers.ScaleDegreeSeq) > 0:
		return len(ctx.ScaleDegrees)
	case len(p.Matchers.IntervalSeq) > 0:
		if len(ctx.Melody) == 0 {
			return 0
		}
		return len(ctx.Melody) - 1 // intervals are between consecutive notes
	default:
		return 0
	}
}

// sequenceResult reports the outcome of trying to unify a pattern's
// sequence matcher against the context slice [start, start+len).
type sequenceResult struct {
	matched          bool
	substitutionUsed bool
}

func matchSequence(p patterns.Pattern, ctx *context.Context, start int, profile context.Profile) sequenceResult {
	switch {
	case len(p.Matchers.RomanSeq) > 0:
		return matchRomanSeq(p, ctx, start, profile)
	case len(p.Matchers.ChordSeq) > 0:
		return sequenceResult{matched: matchChordSeq(p, ctx, start)}
	case len(p.Matchers.ScaleDegreeSeq) > 0:
		return sequenceResult{matched: matchScaleDegreeSeq(p, ctx, start)}
	case len(p.Matchers.IntervalSeq) > 0:
		return sequenceResult{matched: matchIntervalSeq(p, ctx, start)}
	default:
		return sequenceResult{}
	}
}

// matchRomanSeq unifies the pattern's roman_seq against ctx.Romans[start:].
// Matching is transposition-invariant by construction: ctx.Romans are
// already key-relative degree classes, so the same comparison succeeds
// regardless of the context's absolute key.
func matchRomanSeq(p patterns.Pattern, ctx *context.Context, start int, profile context.Profile) sequenceResult {
	substitutionUsed := false
	allowSub := allowsSubstitution(p.Metadata.Tags)

	for i, tokStr := range p.Matchers.RomanSeq {
		idx := start + i
		if idx >= len(ctx.Romans) {
			return sequenceResult{}
		}
		patTok, wildcardSecondary, err := parsePatternRomanToken(tokStr)
		if err != nil {
			return sequenceResult{}
		}
		ctxTok := ctx.Romans[idx]

		if wildcardSecondary {
			if ctxTok.SecondaryOf == nil {
				return sequenceResult{}
			}
			if patTok.Suffix != "" && patTok.Suffix != ctxTok.Suffix {
				return sequenceResult{}
			}
			continue
		}

		if matchesRomanClass(classOf(patTok), classOf(ctxTok)) && matchesSuffix(patTok, ctxTok) && ctxTok.SecondaryOf == nil {
			continue
		}

		if allowSub {
			matchedSub := false
			for _, eq := range substitutesFor(classOf(patTok), profile) {
				if classOf(ctxTok) == eq.Alt && ctxTok.SecondaryOf == nil &&
					(eq.AltInversion == "" || ctxTok.Inversion == eq.AltInversion) {
					matchedSub = true
					break
				}
			}
			if matchedSub {
				substitutionUsed = true
				continue
			}
		}
		return sequenceResult{}
	}
	return sequenceResult{matched: true, substitutionUsed: substitutionUsed}
}

func matchesRomanClass(pattern, ctx romanClass) bool {
	return pattern.Degree == ctx.Degree && pattern.Minor == ctx.Minor && pattern.Accidental == ctx.Accidental
}

// matchesSuffix reports whether the pattern's declared chord-quality
// suffix (if any) agrees with the context chord's actual suffix. A
// pattern that doesn't pin a suffix (e.g. plain "V") accepts any quality
// in the context (V, V7, V9 all satisfy it).
func matchesSuffix(pattern, ctx theory.RomanNumeral) bool {
	if pattern.Suffix == "" {
		return true
	}
	return pattern.Suffix == ctx.Suffix
}

// parsePatternRomanToken parses a roman_seq token. A token ending in
// "/x" (e.g. "V/x") is a secondary-dominant wildcard matching any
// secondary dominant whose own degree/suffix agrees with the prefix.
func parsePatternRomanToken(tok string) (theory.RomanNumeral, bool, error) {
	const wildcardSuffix = "/x"
	if len(tok) > len(wildcardSuffix) && tok[len(tok)-len(wildcardSuffix):] == wildcardSuffix {
		prefix := tok[:len(tok)-len(wildcardSuffix)]
		rn, err := theory.ParseRoman(prefix)
		return rn, true, err
	}
	rn, err := theory.ParseRoman(tok)
	return rn, false, err
}

func matchChordSeq(p patterns.Pattern, ctx *context.Context, start int) bool {
	for i, tokStr := range p.Matchers.ChordSeq {
		idx := start + i
		if idx >= len(ctx.Chords) {
			return false
		}
		patC, err := theory.ParseChord(tokStr)
		if err != nil {
			return false
		}
		ctxC := ctx.Chords[idx]
		if patC.Root.Norm() != ctxC.Root.Norm() || patC.Quality != ctxC.Quality {
			return false
		}
	}
	return true
}

func matchScaleDegreeSeq(p patterns.Pattern, ctx *context.Context, start int) bool {
	for i, want := range p.Matchers.ScaleDegreeSeq {
		idx := start + i
		if idx >= len(ctx.ScaleDegrees) {
			return false
		}
		if ctx.ScaleDegrees[idx].Degree != want {
			return false
		}
	}
	return true
}

func matchIntervalSeq(p patterns.Pattern, ctx *context.Context, start int) bool {
	for i, want := range p.Matchers.IntervalSeq {
		idx := start + i
		if idx+1 >= len(ctx.Melody) {
			return false
		}
		motion := ctx.Melody[idx+1].PitchClass.Sub(ctx.Melody[idx].PitchClass)
		if motion > 6 {
			motion -= 12
		}
		if motion != want {
			return false
		}
	}
	return true
}
