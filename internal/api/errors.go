package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/yachaflex/yachaflex-api/internal/api/shared"
	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/generation"
	"github.com/yachaflex/yachaflex-api/internal/platform/logger"
	"github.com/yachaflex/yachaflex-api/internal/redact"
	"github.com/yachaflex/yachaflex-api/internal/service"
	"github.com/yachaflex/yachaflex-api/internal/service/auth"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusUnprocessableEntity

	case errors.Is(err, service.ErrNoCheckin),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	case store.IsDuplicateError(err):
		return http.StatusConflict

	case errors.Is(err, generation.ErrServiceUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err. Validation
// messages are built from caller input and returned as is; the cause of a
// language model outage is redacted before it is shown.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verr *domain.ValidationError
	var unavailable *generation.ServiceUnavailableError

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.As(err, &verr):
		return verr.Error()

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, service.ErrNoCheckin):
		return "No check-in found. Please complete a check-in first."

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrStressRecordNotFound):
		return "Stress record not found"

	case errors.Is(err, store.ErrContentNotFound):
		return "Generated content not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.As(err, &unavailable):
		if unavailable.Cause != nil {
			return "AI service unavailable, please try again: " + redact.Error(unavailable.Cause)
		}
		return "AI service unavailable, please try again"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error response for err. fallbackMessage replaces
// the generic message of unmapped (500) errors when it is not empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}

	var opts []shared.ResponseOption
	switch status {
	case http.StatusServiceUnavailable:
		opts = append(opts, shared.WithRetryable())
	case http.StatusUnauthorized:
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// logFor returns the request-scoped logger, falling back to fallback.
func logFor(r *http.Request, fallback *slog.Logger) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), fallback)
}
