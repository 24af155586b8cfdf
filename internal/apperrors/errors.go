package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel roots for the error taxonomy. Wrap with context via the
// constructors below; handlers branch with errors.Is to pick status codes.
var (
	ErrValidation = errors.New("validation error")
	ErrOwnership  = errors.New("ownership error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream error")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Ownership(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOwnership, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Upstream(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUpstream, fmt.Sprintf(format, args...))
}
