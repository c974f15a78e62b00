// Package tokens converts a normalized analysis context into per-position
// tokens the pattern matcher consumes (C3). It is purely functional: given
// the same context it always returns the same token sequence.
package tokens

import (
	"github.com/Conceptual-Machines/harmonic-analysis-engine/context"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/theory"
)

// ChromaticAlteration flags a non-diatonic scale-degree inflection.
type ChromaticAlteration string

const (
	AltFlat2  ChromaticAlteration = "♭2"
	AltSharp4 ChromaticAlteration = "♯4"
	AltFlat7  ChromaticAlteration = "♭7"
	AltFlat3  ChromaticAlteration = "♭3"
	AltFlat6  ChromaticAlteration = "♭6"
)

// Token is the per-chord (or per-note, for melodic contexts) record the
// matcher reads.
type Token struct {
	Index              int
	Degree             int // scale degree 1..7, 0 if non-diatonic
	IsDiatonic         bool
	Quality            theory.Quality
	RootMotionToNext   int // semitones, signed, to the next token's root; 0 for last
	Alterations        []ChromaticAlteration
	BassDegree         int
	SopranoDegree      int // 0 if unknown
	SubstitutionTarget string // not filled in by Convert or the matcher; substitutions are reported through the substitution_used feature
}

// Convert produces the token sequence for a harmonic (chord-based)
// context.
func Convert(ctx *context.Context) []Token {
	if len(ctx.Chords) == 0 {
		return convertMelodic(ctx)
	}

	toks := make([]Token, len(ctx.Chords))
	for i, c := range ctx.Chords {
		degree := ctx.Key.DegreeOf(c.Root.Norm())
		tok := Token{
			Index:      i,
			Degree:     degree,
			IsDiatonic: degree > 0,
			Quality:    c.Quality,
			BassDegree: ctx.Key.DegreeOf(c.BassPitchClass()),
		}
		if i+1 < len(ctx.Chords) {
			tok.RootMotionToNext = ctx.Chords[i+1].Root.Sub(c.Root)
			if tok.RootMotionToNext > 6 {
				tok.RootMotionToNext -= 12
			}
		}
		tok.Alterations = chromaticAlterations(c.Root.Norm(), ctx.Key)
		if i < len(ctx.SopranoLine) {
			tok.SopranoDegree = ctx.Key.DegreeOf(ctx.SopranoLine[i])
		}
		toks[i] = tok
	}
	return toks
}

func convertMelodic(ctx *context.Context) []Token {
	if len(ctx.ScaleDegrees) > 0 {
		toks := make([]Token, len(ctx.ScaleDegrees))
		for i, sd := range ctx.ScaleDegrees {
			toks[i] = Token{Index: i, Degree: sd.Degree, IsDiatonic: true}
		}
		return toks
	}
	if len(ctx.Melody) > 0 {
		toks := make([]Token, len(ctx.Melody))
		for i, n := range ctx.Melody {
			degree := ctx.Key.ParentKey().DegreeOf(n.PitchClass.Norm())
			tok := Token{Index: i, Degree: degree, IsDiatonic: degree > 0}
			if i+1 < len(ctx.Melody) {
				motion := ctx.Melody[i+1].PitchClass.Sub(n.PitchClass)
				if motion > 6 {
					motion -= 12
				}
				tok.RootMotionToNext = motion
			}
			toks[i] = tok
		}
		return toks
	}
	return nil
}

// chromaticAlterations flags which of the common modal-inflection
// alterations (relative to the key's tonic) a root pitch class
// represents, independent of whether it forms a full secondary dominant.
func chromaticAlterations(pc theory.PitchClass, key theory.Key) []ChromaticAlteration {
	rel := pc.Sub(key.Tonic)
	var out []ChromaticAlteration
	switch rel {
	case 1:
		out = append(out, AltFlat2)
	case 3:
		out = append(out, AltFlat3)
	case 6:
		out = append(out, AltSharp4)
	case 8:
		out = append(out, AltFlat6)
	case 10:
		out = append(out, AltFlat7)
	}
	return out
}
