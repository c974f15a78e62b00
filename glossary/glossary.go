// Package glossary implements the feature-key -> human-readable term
// dictionary (C11) used to annotate envelope output for UI consumers that
// don't already know what "tonal_clarity" or "modal_char_score" means.
package glossary

// Entry pairs a short display label with a longer explanatory tooltip.
type Entry struct {
	Label   string
	Tooltip string
}

// Default returns the built-in feature dictionary. Unknown keys are left
// for the caller to handle (Enrich passes them through unchanged) rather
// than guessed at here.
func Default() map[string]Entry {
	return map[string]Entry{
		"tonal_clarity": {
			Label:   "Tonal clarity",
			Tooltip: "Fraction of the matched chords that are diatonic to the established key.",
		},
		"outside_key_ratio": {
			Label:   "Outside-key ratio",
			Tooltip: "Fraction of the whole progression that falls outside the key's diatonic collection.",
		},
		"soprano_on_tonic": {
			Label:   "Soprano on tonic",
			Tooltip: "Whether the top voice of the final chord lands on the tonic scale degree.",
		},
		"modal_char_score": {
			Label:   "Modal character",
			Tooltip: "Density of scale-degree alterations characteristic of the identified mode.",
		},
		"voice_leading_smoothness": {
			Label:   "Voice-leading smoothness",
			Tooltip: "How close successive root motions are to stepwise motion, scored 0 to 1.",
		},
		"pattern_weight": {
			Label:   "Pattern weight",
			Tooltip: "The base confidence weight declared by the matched pattern before evaluation.",
		},
		"characteristic_sixth": {
			Label:   "Characteristic sixth",
			Tooltip: "Presence of a chord tone a major sixth above the tonic, typical of Dorian vamps.",
		},
		"substitution_used": {
			Label:   "Substitution used",
			Tooltip: "The match required a profile-specific chord-substitution equivalence (e.g. tritone substitution).",
		},
	}
}

// Term is the enriched, UI-facing pairing of a raw key with its glossary
// entry (or just itself, if the key isn't in the dictionary).
type Term struct {
	Key     string
	Label   string
	Tooltip string
}

// Enrich attaches glossary terms to a set of feature keys, passing unknown
// keys through with their raw key doubling as the label.
func Enrich(dict map[string]Entry, keys []string) []Term {
	terms := make([]Term, 0, len(keys))
	for _, k := range keys {
		if e, ok := dict[k]; ok {
			terms = append(terms, Term{Key: k, Label: e.Label, Tooltip: e.Tooltip})
		} else {
			terms = append(terms, Term{Key: k, Label: k})
		}
	}
	return terms
}
