package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

// MockContentStore implements store.ContentStore for testing
type MockContentStore struct {
	CreateFn  func(ctx context.Context, content *domain.GeneratedContent) error
	GetByIDFn func(ctx context.Context, userID, id uuid.UUID) (*domain.GeneratedContent, error)

	mu       sync.Mutex
	Contents []*domain.GeneratedContent
}

var _ store.ContentStore = (*MockContentStore)(nil)

// Create implements store.ContentStore
func (m *MockContentStore) Create(ctx context.Context, content *domain.GeneratedContent) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, content)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Contents = append(m.Contents, content)
	return nil
}

// GetByID implements store.ContentStore
func (m *MockContentStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.GeneratedContent, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Contents {
		if c.ID == id && c.UserID == userID {
			return c, nil
		}
	}
	return nil, store.ErrContentNotFound
}
