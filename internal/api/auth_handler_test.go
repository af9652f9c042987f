package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yachaflex/yachaflex-api/internal/api/shared"
	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/service"
	"github.com/yachaflex/yachaflex-api/internal/service/auth"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

func authResult(email string) *service.AuthResult {
	return &service.AuthResult{
		User:      &domain.User{ID: uuid.New(), Email: email, Name: "Ana"},
		Token:     "signed.jwt.token",
		ExpiresAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       interface{}
		registerFn func(ctx context.Context, email, name, password string) (*service.AuthResult, error)
		wantStatus int
		wantError  string
	}{
		{
			name: "created",
			body: RegisterRequest{Email: "ana@example.com", Name: "Ana", Password: "password123"},
			registerFn: func(_ context.Context, email, _, _ string) (*service.AuthResult, error) {
				return authResult(email), nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "short password",
			body:       RegisterRequest{Email: "ana@example.com", Name: "Ana", Password: "short"},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "password",
		},
		{
			name:       "invalid email",
			body:       RegisterRequest{Email: "not-an-email", Name: "Ana", Password: "password123"},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "email",
		},
		{
			name: "email taken",
			body: RegisterRequest{Email: "ana@example.com", Name: "Ana", Password: "password123"},
			registerFn: func(context.Context, string, string, string) (*service.AuthResult, error) {
				return nil, store.ErrEmailExists
			},
			wantStatus: http.StatusConflict,
			wantError:  "Email already exists",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users := &fakeUserService{RegisterFn: tc.registerFn}
			h := NewAuthHandler(users, testLogger())

			rec := httptest.NewRecorder()
			h.Register(rec, jsonRequest(t, http.MethodPost, "/api/auth/register", tc.body, uuid.Nil))

			require.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantError != "" {
				body := decodeBody[shared.ErrorResponse](t, rec)
				assert.Contains(t, body.Error, tc.wantError)
				return
			}
			body := decodeBody[AuthResponse](t, rec)
			assert.NotEqual(t, uuid.Nil, body.UserID)
			assert.Equal(t, "Ana", body.Name)
			assert.Equal(t, "signed.jwt.token", body.Token)
			assert.Equal(t, "2025-03-01T12:00:00Z", body.ExpiresAt)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		var gotEmail, gotPassword string
		users := &fakeUserService{
			AuthenticateFn: func(_ context.Context, email, password string) (*service.AuthResult, error) {
				gotEmail, gotPassword = email, password
				return authResult(email), nil
			},
		}
		h := NewAuthHandler(users, testLogger())

		rec := httptest.NewRecorder()
		h.Login(rec, jsonRequest(t, http.MethodPost, "/api/auth/login",
			LoginRequest{Email: "ana@example.com", Password: "password123"}, uuid.Nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ana@example.com", gotEmail)
		assert.Equal(t, "password123", gotPassword)
		body := decodeBody[AuthResponse](t, rec)
		assert.Equal(t, "signed.jwt.token", body.Token)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		users := &fakeUserService{
			AuthenticateFn: func(context.Context, string, string) (*service.AuthResult, error) {
				return nil, auth.ErrInvalidCredentials
			},
		}
		h := NewAuthHandler(users, testLogger())

		rec := httptest.NewRecorder()
		h.Login(rec, jsonRequest(t, http.MethodPost, "/api/auth/login",
			LoginRequest{Email: "ana@example.com", Password: "wrong-password"}, uuid.Nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody[shared.ErrorResponse](t, rec)
		assert.Equal(t, "Invalid email or password", body.Error)
	})

	t.Run("missing password", func(t *testing.T) {
		h := NewAuthHandler(&fakeUserService{}, testLogger())

		rec := httptest.NewRecorder()
		h.Login(rec, jsonRequest(t, http.MethodPost, "/api/auth/login",
			map[string]string{"email": "ana@example.com"}, uuid.Nil))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestNewAuthHandler_NilLoggerPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewAuthHandler(&fakeUserService{}, nil) })
}
