package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when input fails the task rules.
	// It is usually wrapped by a ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when a task identifier is malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidStatus is returned when a status string is not one of the
	// enumerated task statuses.
	ErrInvalidStatus = errors.New("invalid task status")
)

// ValidationError describes a single rule violation on a named input field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field. The cause may be nil,
// in which case the error only wraps ErrValidation.
func NewValidationError(field, message string, cause error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     cause,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap exposes both ErrValidation and the specific cause to errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil || errors.Is(e.Err, ErrValidation) {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// ValidationErrors collects every field violation found in one input.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap returns the individual field errors.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v)+1)
	errs = append(errs, ErrValidation)
	for _, e := range v {
		errs = append(errs, e)
	}
	return errs
}

// Fields groups messages by field name, in the shape returned to API clients.
func (v ValidationErrors) Fields() map[string][]string {
	out := make(map[string][]string, len(v))
	for _, e := range v {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

// ErrOrNil returns nil for an empty collection so callers can write
// `return errs.ErrOrNil()`.
func (v ValidationErrors) ErrOrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// FieldErrors extracts per-field messages from any validation error.
// It returns nil if err carries no field information.
func FieldErrors(err error) map[string][]string {
	var many ValidationErrors
	if errors.As(err, &many) {
		return many.Fields()
	}

	var one *ValidationError
	if errors.As(err, &one) {
		return map[string][]string{one.Field: {one.Message}}
	}

	return nil
}

// SortedFields returns the field names of a FieldErrors map in stable order.
func SortedFields(fields map[string][]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
