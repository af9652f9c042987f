package biometric

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yachaflex/yachaflex-api/internal/domain"
)

// ErrEmptyToken is returned when a registry operation receives a blank token.
var ErrEmptyToken = errors.New("session token cannot be empty")

// Session is the latest biometric submission for a token.
type Session struct {
	Token      string                  `json:"session_id"`
	Payload    domain.BiometricInput   `json:"payload"`
	Assessment domain.StressAssessment `json:"assessment"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// Registry stores sessions keyed by token.
type Registry interface {
	// Put stores a session, fully replacing any previous one under the same token.
	Put(ctx context.Context, token string, payload domain.BiometricInput, assessment domain.StressAssessment) error

	// Get returns the session stored under token. found is false for unknown tokens.
	Get(ctx context.Context, token string) (session Session, found bool, err error)
}

// NormalizeToken trims the token and rejects blank values.
func NormalizeToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}

// clonePayload copies the optional signals so a stored session never aliases
// caller-owned memory.
func clonePayload(p domain.BiometricInput) domain.BiometricInput {
	return domain.BiometricInput{
		HeartRate: cloneFloat(p.HeartRate),
		HRV:       cloneFloat(p.HRV),
		Activity:  cloneFloat(p.Activity),
	}
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
