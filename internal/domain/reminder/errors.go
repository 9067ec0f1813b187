package reminder

import (
	"errors"
	"fmt"
)

// Common errors returned by the reminder service. None are transient; all
// indicate caller mistakes and are never retried internally.
var (
	ErrNotFound             = errors.New("reminder not found")
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrForbidden            = errors.New("prescription does not belong to this patient")
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
