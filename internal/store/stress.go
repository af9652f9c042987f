package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/domain"
)

// StressRecordStore persists check-ins and the assessments derived from them.
type StressRecordStore interface {
	// Create saves a new record.
	Create(ctx context.Context, record *domain.StressRecord) error

	// GetByID retrieves one of the user's records.
	// Returns ErrStressRecordNotFound if it does not exist or belongs to another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.StressRecord, error)

	// GetLatest retrieves the user's most recent record.
	// Returns ErrStressRecordNotFound if the user has none.
	GetLatest(ctx context.Context, userID uuid.UUID) (*domain.StressRecord, error)

	// GetLatestForUpdate is GetLatest with the row locked until the
	// surrounding transaction ends. Only meaningful on a store from WithTx.
	GetLatestForUpdate(ctx context.Context, userID uuid.UUID) (*domain.StressRecord, error)

	// UpdateBiometrics stores the record's biometric fields and assessment.
	// Returns ErrStressRecordNotFound if the record does not exist.
	UpdateBiometrics(ctx context.Context, record *domain.StressRecord) error

	// ListRecent returns the user's most recent records, at most limit of
	// them, ordered oldest first.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.StressRecord, error)

	// WithTx returns a StressRecordStore that runs its queries in tx.
	WithTx(tx *sql.Tx) StressRecordStore
}

// ContentStore persists generation attempts.
type ContentStore interface {
	// Create saves generated content, degraded results included.
	Create(ctx context.Context, content *domain.GeneratedContent) error

	// GetByID retrieves one of the user's generated contents.
	// Returns ErrContentNotFound if it does not exist or belongs to another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.GeneratedContent, error)
}
