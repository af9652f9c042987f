package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/platform/logger"
	"github.com/yachaflex/yachaflex-api/internal/service/auth"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

// AuthResult is a signed-in user together with an access token.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// UserService registers and authenticates learners.
type UserService interface {
	// Register creates a user and signs them in.
	// Returns store.ErrEmailExists when the email is taken.
	Register(ctx context.Context, email, name, password string) (*AuthResult, error)

	// Authenticate checks credentials and issues a token.
	// Returns auth.ErrInvalidCredentials for an unknown email or a wrong password.
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type userServiceImpl struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	tokens   auth.JWTService
	now      func() time.Time
	logger   *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	tokens auth.JWTService,
	logger *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		tokens:   tokens,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.
func (s *userServiceImpl) Register(ctx context.Context, email, name, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, name, password)
	if err != nil {
		return nil, domain.NewValidationError("", err.Error(), err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register existing email")
		} else {
			log.Error("failed to save user",
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return s.issue(ctx, user)
}

// Authenticate implements UserService.
func (s *userServiceImpl) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return nil, auth.ErrInvalidCredentials
		}
		log.Error("failed to load user for login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password", slog.String("user_id", user.ID.String()))
		return nil, auth.ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// GetUser implements UserService.
func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

func (s *userServiceImpl) issue(ctx context.Context, user *domain.User) (*AuthResult, error) {
	issuedAt := s.now()
	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to generate token",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: issuedAt.Add(s.tokens.TokenLifetime()),
	}, nil
}
