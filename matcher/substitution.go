package matcher

import (
	"github.com/Conceptual-Machines/harmonic-analysis-engine/context"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/theory"
)

// romanClass identifies a roman-numeral's equivalence class for sequence
// matching and substitution purposes: degree, case, and leading
// accidental. Suffix (7th/dim/etc.) and inversion are deliberately
// excluded — spec.md §4.6 requires roman-sequence matching to unify on
// "degree+quality+accidental+inversion class", and the suffix is treated
// as optional detail a pattern may or may not pin down (see matchesSuffix).
type romanClass struct {
	Degree     int
	Minor      bool
	Accidental string
}

func classOf(rn theory.RomanNumeral) romanClass {
	return romanClass{Degree: rn.Degree, Minor: rn.Minor, Accidental: rn.Accidental}
}

// equivalence is one profile-gated chord-substitution rule: a context
// token in the Alt class is accepted wherever a pattern declares the
// Canonical class, under the given profile. This is the explicit,
// extensible table spec.md §9 asks for in place of inline "if jazz"
// conditionals — see SPEC_FULL.md §5.
type equivalence struct {
	Profile      context.Profile
	Canonical    romanClass
	Alt          romanClass
	AltInversion theory.Inversion // "" = any inversion accepted
}

// substitutionTable lists the "common modal borrowings"/profile
// equivalences spec.md §4.6 names as examples: tritone substitution and
// ii/iiø7/ii9 interchangeability under jazz (the latter falls out of
// suffix-optional matching and needs no table entry), and IV≡ii6 under
// classical part-writing.
var substitutionTable = []equivalence{
	{
		Profile:   context.ProfileJazz,
		Canonical: romanClass{Degree: 5, Minor: false},
		Alt:       romanClass{Degree: 2, Minor: false, Accidental: "b"}, // bII7, tritone sub of V7
	},
	{
		Profile:      context.ProfileClassical,
		Canonical:    romanClass{Degree: 4, Minor: false},
		Alt:          romanClass{Degree: 2, Minor: true},
		AltInversion: theory.Inv6, // ii6 functions like IV
	},
}

// substitutesFor returns the context token classes accepted in place of
// canonical under profile, beyond canonical itself.
func substitutesFor(canonical romanClass, profile context.Profile) []equivalence {
	var out []equivalence
	for _, eq := range substitutionTable {
		if eq.Profile == profile && eq.Canonical == canonical {
			out = append(out, eq)
		}
	}
	return out
}

// allowsSubstitution reports whether pattern p permits the matcher to
// widen its sequence matcher via the substitution table. A pattern opts
// out by tagging itself "no_substitution" in metadata.tags.
func allowsSubstitution(tags []string) bool {
	for _, t := range tags {
		if t == "no_substitution" {
			return false
		}
	}
	return true
}
