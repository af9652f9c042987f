package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

// MockStressRecordStore implements store.StressRecordStore for testing.
// Without function fields it behaves like an in-memory table.
type MockStressRecordStore struct {
	CreateFn             func(ctx context.Context, record *domain.StressRecord) error
	GetByIDFn            func(ctx context.Context, userID, id uuid.UUID) (*domain.StressRecord, error)
	GetLatestFn          func(ctx context.Context, userID uuid.UUID) (*domain.StressRecord, error)
	GetLatestForUpdateFn func(ctx context.Context, userID uuid.UUID) (*domain.StressRecord, error)
	UpdateBiometricsFn   func(ctx context.Context, record *domain.StressRecord) error
	ListRecentFn         func(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.StressRecord, error)

	mu      sync.Mutex
	Records []*domain.StressRecord

	// WithTxCalls counts WithTx invocations.
	WithTxCalls int
}

var _ store.StressRecordStore = (*MockStressRecordStore)(nil)

// Create implements store.StressRecordStore
func (m *MockStressRecordStore) Create(ctx context.Context, record *domain.StressRecord) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, record)
	return nil
}

// GetByID implements store.StressRecordStore
func (m *MockStressRecordStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.StressRecord, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Records {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}
	return nil, store.ErrStressRecordNotFound
}

// GetLatest implements store.StressRecordStore
func (m *MockStressRecordStore) GetLatest(ctx context.Context, userID uuid.UUID) (*domain.StressRecord, error) {
	if m.GetLatestFn != nil {
		return m.GetLatestFn(ctx, userID)
	}
	return m.latest(userID)
}

// GetLatestForUpdate implements store.StressRecordStore
func (m *MockStressRecordStore) GetLatestForUpdate(ctx context.Context, userID uuid.UUID) (*domain.StressRecord, error) {
	if m.GetLatestForUpdateFn != nil {
		return m.GetLatestForUpdateFn(ctx, userID)
	}
	return m.latest(userID)
}

// UpdateBiometrics implements store.StressRecordStore
func (m *MockStressRecordStore) UpdateBiometrics(ctx context.Context, record *domain.StressRecord) error {
	if m.UpdateBiometricsFn != nil {
		return m.UpdateBiometricsFn(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.Records {
		if r.ID == record.ID {
			m.Records[i] = record
			return nil
		}
	}
	return store.ErrStressRecordNotFound
}

// ListRecent implements store.StressRecordStore
func (m *MockStressRecordStore) ListRecent(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.StressRecord, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx, userID, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var owned []*domain.StressRecord
	for _, r := range m.Records {
		if r.UserID == userID {
			owned = append(owned, r)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].Timestamp.Before(owned[j].Timestamp)
	})
	if limit > 0 && len(owned) > limit {
		owned = owned[len(owned)-limit:]
	}
	return owned, nil
}

// WithTx implements store.StressRecordStore. The mock ignores the transaction.
func (m *MockStressRecordStore) WithTx(tx *sql.Tx) store.StressRecordStore {
	m.mu.Lock()
	m.WithTxCalls++
	m.mu.Unlock()
	return m
}

func (m *MockStressRecordStore) latest(userID uuid.UUID) (*domain.StressRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *domain.StressRecord
	for _, r := range m.Records {
		if r.UserID != userID {
			continue
		}
		if latest == nil || !r.Timestamp.Before(latest.Timestamp) {
			latest = r
		}
	}
	if latest == nil {
		return nil, store.ErrStressRecordNotFound
	}
	return latest, nil
}
