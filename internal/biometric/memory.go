package biometric

import (
	"context"
	"sync"
	"time"

	"github.com/yachaflex/yachaflex-api/internal/domain"
)

// MemoryRegistry is a process-local Registry. Entries live until the process
// exits; there is no eviction.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemoryRegistry creates an empty in-process registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[string]Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ Registry = (*MemoryRegistry)(nil)

// Put implements Registry.
func (r *MemoryRegistry) Put(
	_ context.Context,
	token string,
	payload domain.BiometricInput,
	assessment domain.StressAssessment,
) error {
	token, err := NormalizeToken(token)
	if err != nil {
		return err
	}

	session := Session{
		Token:      token,
		Payload:    clonePayload(payload),
		Assessment: assessment,
		UpdatedAt:  r.now(),
	}

	r.mu.Lock()
	r.sessions[token] = session
	r.mu.Unlock()
	return nil
}

// Get implements Registry.
func (r *MemoryRegistry) Get(_ context.Context, token string) (Session, bool, error) {
	token, err := NormalizeToken(token)
	if err != nil {
		return Session{}, false, err
	}

	r.mu.RLock()
	session, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok {
		return Session{}, false, nil
	}

	session.Payload = clonePayload(session.Payload)
	return session, true, nil
}

// Len returns the number of stored sessions.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
