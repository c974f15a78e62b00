package context

import (
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/theory"
)

// inferenceThreshold is the minimum inference score (see InferKey) above
// which chord-only input is allowed to proceed without an explicit key
// hint. Below this, the engine prefers failing with MissingKeyError over
// guessing — "when inference confidence is near threshold, prefer the key
// hint" (spec.md §4.2); absent a hint at all, the threshold gates whether
// a guess is trustworthy enough to stand in for one.
const inferenceThreshold = 0.45

var candidateScales = []theory.ScaleTag{
	theory.Major, theory.Minor,
	theory.Dorian, theory.Phrygian, theory.Lydian, theory.Mixolydian, theory.Locrian,
}

// InferKey scores every (tonic, mode) candidate against the chord list and
// returns the best-scoring key, its score, and whether the score clears
// inferenceThreshold.
func InferKey(chords []theory.Chord) (theory.Key, float64, bool) {
	if len(chords) == 0 {
		return theory.Key{}, 0, false
	}

	var best theory.Key
	bestScore := -1.0

	for tonic := theory.PitchClass(0); tonic < 12; tonic++ {
		for _, scale := range candidateScales {
			key := theory.NewKey(tonic, scale)
			score := scoreKeyCandidate(key, chords)
			if score > bestScore {
				bestScore = score
				best = key
			}
		}
	}

	return best, bestScore, bestScore >= inferenceThreshold
}

func scoreKeyCandidate(key theory.Key, chords []theory.Chord) float64 {
	diatonicCount := 0
	for _, c := range chords {
		if key.DegreeOf(c.Root.Norm()) > 0 {
			diatonicCount++
		}
	}
	fraction := float64(diatonicCount) / float64(len(chords))

	score := fraction
	if len(chords) > 0 {
		if key.DegreeOf(chords[0].Root.Norm()) == 1 {
			score += 0.1
		}
		if key.DegreeOf(chords[len(chords)-1].Root.Norm()) == 1 {
			score += 0.1
		}
	}
	// Penalize needing many accidentals (non-diatonic roots) beyond the
	// fraction already captured.
	score -= float64(len(chords)-diatonicCount) * 0.02
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// ParseKeyHint parses a key-hint string like "C major", "D dorian",
// "Am", "F#m", "Bb major" into a theory.Key.
func ParseKeyHint(hint string) (theory.Key, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return theory.Key{}, fmt.Errorf("context: empty key hint")
	}

	fields := strings.Fields(hint)
	if len(fields) >= 2 {
		pc, err := theory.ParsePitchClass(fields[0])
		if err != nil {
			return theory.Key{}, fmt.Errorf("context: invalid key hint %q: %w", hint, err)
		}
		scale := theory.ScaleTag(strings.ToLower(fields[1]))
		if !scale.Valid() {
			return theory.Key{}, fmt.Errorf("context: invalid key hint %q: unknown mode %q", hint, fields[1])
		}
		return theory.NewKey(pc, scale), nil
	}

	// Compact form: "Am", "F#m", "C", "Bb".
	tok := fields[0]
	minor := strings.HasSuffix(tok, "m") && !strings.HasSuffix(strings.ToLower(tok), "maj")
	root := tok
	if minor {
		root = tok[:len(tok)-1]
	}
	pc, err := theory.ParsePitchClass(root)
	if err != nil {
		return theory.Key{}, fmt.Errorf("context: invalid key hint %q: %w", hint, err)
	}
	scale := theory.Major
	if minor {
		scale = theory.Minor
	}
	return theory.NewKey(pc, scale), nil
}
