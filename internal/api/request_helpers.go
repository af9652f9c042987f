package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/api/shared"
	"github.com/yachaflex/yachaflex-api/internal/domain"
)

// requireUserID extracts the authenticated user's ID placed in the context by
// the auth middleware. It writes a 401 and returns false when it is missing.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return userID, true
}

// parseOptionalUUID parses an optional identifier. Blank input yields nil.
func parseOptionalUUID(field, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "has invalid format", domain.ErrInvalidID)
	}
	return &id, nil
}

// parseLimit reads the "limit" query parameter. A missing value yields 0,
// which lets the service pick its default.
func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, domain.NewValidationError("limit", "must be a positive integer", nil)
	}
	return limit, nil
}

// decodeAndValidate decodes a JSON body into req and validates it, writing
// the error response itself when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}
