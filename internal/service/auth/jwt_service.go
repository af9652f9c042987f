package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and validates access tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for userID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies tokenString and returns its claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime is how long issued tokens stay valid.
	TokenLifetime() time.Duration
}

// Claims are the validated contents of an access token.
type Claims struct {
	UserID    uuid.UUID `json:"uid,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
