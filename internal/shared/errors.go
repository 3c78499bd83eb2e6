package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks requests that clash with the current state.
	ErrConflict = errors.New("conflict")

	// ErrMatchNotFound is returned whenever an operation names an unknown match.
	ErrMatchNotFound = fmt.Errorf("match %w", ErrNotFound)
	// ErrIllegalTransition rejects period moves the state machine does not allow.
	ErrIllegalTransition = fmt.Errorf("illegal period transition: %w", ErrConflict)
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindFatal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "fatal"
	}
}

// KindOf reports the kind of err. Anything not wrapping a known sentinel is fatal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindFatal
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindFatal
	}
}

// Validationf builds a validation error with context.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
