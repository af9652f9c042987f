package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrServiceUnavailable is returned when the language model cannot be
	// reached or fails to answer in time. Callers may retry.
	ErrServiceUnavailable = errors.New("language model service unavailable")

	// ErrInvalidResponse is returned by clients when the model answers without usable text
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// ServiceUnavailableError wraps the client failure that prevented generation.
// errors.Is(err, ErrServiceUnavailable) holds, and Unwrap exposes the cause.
type ServiceUnavailableError struct {
	Cause error
}

// NewServiceUnavailableError wraps cause.
func NewServiceUnavailableError(cause error) *ServiceUnavailableError {
	return &ServiceUnavailableError{Cause: cause}
}

// Error implements the error interface.
func (e *ServiceUnavailableError) Error() string {
	if e.Cause == nil {
		return ErrServiceUnavailable.Error()
	}
	return fmt.Sprintf("%s: %v", ErrServiceUnavailable, e.Cause)
}

// Unwrap returns the underlying client error.
func (e *ServiceUnavailableError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrServiceUnavailable.
func (e *ServiceUnavailableError) Is(target error) bool {
	return target == ErrServiceUnavailable
}
