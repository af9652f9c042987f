package mocks

import (
	"context"

	"github.com/yachaflex/yachaflex-api/internal/biometric"
	"github.com/yachaflex/yachaflex-api/internal/domain"
)

// MockRegistry implements biometric.Registry for testing.
// Without function fields it delegates to an in-memory registry.
type MockRegistry struct {
	PutFn func(ctx context.Context, token string, payload domain.BiometricInput, assessment domain.StressAssessment) error
	GetFn func(ctx context.Context, token string) (biometric.Session, bool, error)

	PutCalls int
	inner    *biometric.MemoryRegistry
}

var _ biometric.Registry = (*MockRegistry)(nil)

// Put implements biometric.Registry
func (m *MockRegistry) Put(
	ctx context.Context,
	token string,
	payload domain.BiometricInput,
	assessment domain.StressAssessment,
) error {
	m.PutCalls++
	if m.PutFn != nil {
		return m.PutFn(ctx, token, payload, assessment)
	}
	return m.registry().Put(ctx, token, payload, assessment)
}

// Get implements biometric.Registry
func (m *MockRegistry) Get(ctx context.Context, token string) (biometric.Session, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, token)
	}
	return m.registry().Get(ctx, token)
}

func (m *MockRegistry) registry() *biometric.MemoryRegistry {
	if m.inner == nil {
		m.inner = biometric.NewMemoryRegistry()
	}
	return m.inner
}
