package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Data for default implementation
	mu              sync.Mutex
	Users           map[string]*domain.User
	LastUserID      uuid.UUID
	CreateError     error
	GetByEmailError error
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Users == nil {
		m.Users = make(map[string]*domain.User)
	}
	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}

	m.Users[user.Email] = user
	m.LastUserID = user.ID
	return nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	if m.GetByEmailError != nil {
		return nil, m.GetByEmailError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// WithTx implements the UserStore interface. The mock ignores the transaction.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// NewLoginMockUserStore creates a store holding a single user, for login tests.
func NewLoginMockUserStore(userID uuid.UUID, email, hashedPassword string) *MockUserStore {
	m := NewMockUserStore()
	m.Users[email] = &domain.User{
		ID:             userID,
		Email:          email,
		Name:           "Test Learner",
		HashedPassword: hashedPassword,
	}
	return m
}
