package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/mocks"
	"github.com/yachaflex/yachaflex-api/internal/service"
	"github.com/yachaflex/yachaflex-api/internal/service/auth"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

func newUserService(t *testing.T, users *mocks.MockUserStore, pw *mocks.MockPasswordVerifier, jwt *mocks.MockJWTService) service.UserService {
	t.Helper()
	svc, err := service.NewUserService(users, pw, pw, jwt, testLogger())
	require.NoError(t, err)
	return svc
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("stores hashed password and issues token", func(t *testing.T) {
		t.Parallel()
		users := mocks.NewMockUserStore()
		jwt := &mocks.MockJWTService{Token: "signed-token", Lifetime: 30 * time.Minute}
		svc := newUserService(t, users, &mocks.MockPasswordVerifier{}, jwt)

		before := time.Now()
		res, err := svc.Register(context.Background(), " Ana@Example.com ", "Ana", "password123")
		require.NoError(t, err)

		assert.Equal(t, "signed-token", res.Token)
		assert.Equal(t, "ana@example.com", res.User.Email)
		assert.WithinDuration(t, before.Add(30*time.Minute), res.ExpiresAt, 5*time.Second)

		stored := users.Users["ana@example.com"]
		require.NotNil(t, stored)
		assert.Equal(t, "hashed:password123", stored.HashedPassword)
		assert.Empty(t, stored.Password)
	})

	t.Run("invalid input is a validation error", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t, mocks.NewMockUserStore(), &mocks.MockPasswordVerifier{}, &mocks.MockJWTService{})

		_, err := svc.Register(context.Background(), "not-an-email", "Ana", "password123")
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)

		_, err = svc.Register(context.Background(), "ana@example.com", "Ana", "short")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		users := mocks.NewLoginMockUserStore(uuid.New(), "ana@example.com", "hash")
		svc := newUserService(t, users, &mocks.MockPasswordVerifier{}, &mocks.MockJWTService{})

		_, err := svc.Register(context.Background(), "ana@example.com", "Ana", "password123")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("token failure", func(t *testing.T) {
		t.Parallel()
		tokenErr := errors.New("signing failed")
		svc := newUserService(t, mocks.NewMockUserStore(), &mocks.MockPasswordVerifier{},
			&mocks.MockJWTService{Err: tokenErr})

		_, err := svc.Register(context.Background(), "ana@example.com", "Ana", "password123")
		assert.ErrorIs(t, err, tokenErr)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name      string
		email     string
		succeed   bool
		storeErr  error
		wantErr   error
		wantToken string
	}{
		{name: "valid credentials", email: "ANA@example.com", succeed: true, wantToken: "tok"},
		{name: "wrong password", email: "ana@example.com", wantErr: auth.ErrInvalidCredentials},
		{name: "unknown email", email: "bob@example.com", succeed: true, wantErr: auth.ErrInvalidCredentials},
		{name: "store failure", email: "ana@example.com", storeErr: errors.New("timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			users := mocks.NewLoginMockUserStore(userID, "ana@example.com", "stored-hash")
			users.GetByEmailError = tt.storeErr
			pw := &mocks.MockPasswordVerifier{ShouldSucceed: tt.succeed}
			jwt := &mocks.MockJWTService{
				GenerateTokenFn: func(_ context.Context, id uuid.UUID) (string, error) {
					assert.Equal(t, userID, id)
					return "tok", nil
				},
			}
			svc := newUserService(t, users, pw, jwt)

			res, err := svc.Authenticate(context.Background(), tt.email, "password123")
			switch {
			case tt.storeErr != nil:
				assert.ErrorIs(t, err, tt.storeErr)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, res.Token)
				assert.Equal(t, "stored-hash", pw.CompareCalledWith.HashedPassword)
			}
		})
	}
}

func TestUserService_GetUser(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	users := mocks.NewLoginMockUserStore(userID, "ana@example.com", "hash")
	svc := newUserService(t, users, &mocks.MockPasswordVerifier{}, &mocks.MockJWTService{})

	user, err := svc.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)

	_, err = svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
