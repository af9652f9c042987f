package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yachaflex/yachaflex-api/internal/api/shared"
	"github.com/yachaflex/yachaflex-api/internal/service"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users service.UserService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}
	return &AuthHandler{
		users:  users,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.users.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	logFor(r, h.logger).Info("user registered", slog.String("user_id", res.User.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, newAuthResponse(res))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newAuthResponse(res))
}

func newAuthResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		UserID:    res.User.ID,
		Name:      res.User.Name,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
