package harmonic

import (
	"errors"
	"fmt"

	actx "github.com/Conceptual-Machines/harmonic-analysis-engine/context"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/theory"
)

var errNilCatalogue = errors.New("pattern catalogue is nil or empty")

// Code is the closed set of error conditions the engine can return.
type Code string

const (
	ErrAmbiguousInput    Code = "ambiguous_input"
	ErrMissingKey        Code = "missing_key"
	ErrKeyScaleMismatch  Code = "key_scale_mismatch"
	ErrInvalidChord      Code = "invalid_chord"
	ErrInvalidRoman      Code = "invalid_roman"
	ErrCatalogueNotReady Code = "catalogue_not_ready"
)

// Error wraps an underlying cause with a stable, machine-checkable code, so
// a caller can errors.As into it instead of string-matching.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("harmonic: %s", e.Code)
	}
	return fmt.Sprintf("harmonic: %s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(code Code, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Err: err}
}

// classifyBuildError maps context.Build's concrete error types onto the
// engine's closed Code set, so a caller only ever needs to switch on Code.
func classifyBuildError(err error) error {
	var ambiguous *actx.AmbiguousInputError
	var missingKey *actx.MissingKeyError
	var mismatch *actx.KeyScaleMismatchError
	var parseErr *theory.ParseError
	switch {
	case errors.As(err, &parseErr) && parseErr.Kind == "roman":
		return wrap(ErrInvalidRoman, err)
	case errors.As(err, &ambiguous):
		return wrap(ErrAmbiguousInput, err)
	case errors.As(err, &missingKey):
		return wrap(ErrMissingKey, err)
	case errors.As(err, &mismatch):
		return wrap(ErrKeyScaleMismatch, err)
	default:
		return wrap(ErrInvalidChord, err)
	}
}
