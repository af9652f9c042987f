package service

import (
	"errors"
	"fmt"
)

// Common service errors. Callers check them with errors.Is; the API layer
// maps them to HTTP status codes.
var (
	// ErrNoCheckin indicates biometrics arrived for a learner without any check-in.
	// API layer should map this to HTTP 404 Not Found.
	ErrNoCheckin = errors.New("no check-in found, complete a check-in first")
)

// StressServiceError wraps unexpected failures of StressService operations.
type StressServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for StressServiceError.
func (e *StressServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stress service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("stress service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StressServiceError) Unwrap() error {
	return e.Err
}

// NewStressServiceError creates a new StressServiceError.
func NewStressServiceError(operation, message string, err error) *StressServiceError {
	return &StressServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// GenerationServiceError wraps failures of GenerationService operations.
type GenerationServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for GenerationServiceError.
func (e *GenerationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("generation service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *GenerationServiceError) Unwrap() error {
	return e.Err
}

// NewGenerationServiceError creates a new GenerationServiceError.
func NewGenerationServiceError(operation, message string, err error) *GenerationServiceError {
	return &GenerationServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
