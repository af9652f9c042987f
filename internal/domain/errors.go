package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when caller input fails validation.
	// It is usually wrapped by a *ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidStressLevel is returned when a stress level is not one of low, medium or high.
	ErrInvalidStressLevel = errors.New("invalid stress level")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes a single invalid input field.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	// Field is the name of the offending input, e.g. "wellbeing" or "text".
	Field string
	// Message is a human readable description of the problem.
	Message string
	// Err is an optional more specific cause.
	Err error
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Message)
}

// Unwrap returns the specific cause when present, otherwise ErrValidation.
func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrValidation
}

// Is reports whether target is ErrValidation so that wrapped causes do not hide
// the validation category.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
