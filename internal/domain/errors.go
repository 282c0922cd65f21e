package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every ValidationError
	ErrInvalidInput = errors.New("invalid input")

	// ErrCalculationNotFound indicates requested calculation doesn't exist
	ErrCalculationNotFound = errors.New("calculation not found")
)

// ValidationError names the precondition an input violated.
// It is returned before any computation runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) classify validation failures
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
