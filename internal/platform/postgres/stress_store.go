package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/platform/logger"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

// MaxHistoryLimit caps ListRecent.
const MaxHistoryLimit = 365

// PostgresStressRecordStore implements store.StressRecordStore on PostgreSQL.
type PostgresStressRecordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStressRecordStore creates a stress record store on db.
// A nil logger falls back to slog.Default().
func NewPostgresStressRecordStore(db store.DBTX, logger *slog.Logger) *PostgresStressRecordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStressRecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "stress_record_store")),
	}
}

var _ store.StressRecordStore = (*PostgresStressRecordStore)(nil)

// WithTx implements store.StressRecordStore.
func (s *PostgresStressRecordStore) WithTx(tx *sql.Tx) store.StressRecordStore {
	return &PostgresStressRecordStore{db: tx, logger: s.logger}
}

// Create implements store.StressRecordStore.
func (s *PostgresStressRecordStore) Create(ctx context.Context, record *domain.StressRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("stress record validation failed during create",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stress_records (
			id, user_id, wellbeing, sleep, focus, checkin_score,
			heart_rate, hrv, activity, stress_score, stress_level, recorded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		record.ID,
		record.UserID,
		record.Checkin.Wellbeing,
		record.Checkin.Sleep,
		record.Checkin.Focus,
		record.CheckinScore,
		record.Biometrics.HeartRate,
		record.Biometrics.HRV,
		record.Biometrics.Activity,
		record.Assessment.Score,
		string(record.Assessment.Level),
		record.Timestamp,
	)
	if err != nil {
		log.Error("failed to create stress record",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()),
			slog.String("user_id", record.UserID.String()))
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, record.UserID)
		}
		return MapError(err)
	}

	log.Info("stress record created",
		slog.String("record_id", record.ID.String()),
		slog.String("user_id", record.UserID.String()),
		slog.String("stress_level", string(record.Assessment.Level)))
	return nil
}

const selectStressRecord = `
	SELECT id, user_id, wellbeing, sleep, focus, checkin_score,
		heart_rate, hrv, activity, stress_score, stress_level, recorded_at
	FROM stress_records
`

// GetByID implements store.StressRecordStore.
func (s *PostgresStressRecordStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.StressRecord, error) {
	return s.getOne(ctx, selectStressRecord+` WHERE id = $1 AND user_id = $2`, id, userID)
}

// GetLatest implements store.StressRecordStore.
func (s *PostgresStressRecordStore) GetLatest(ctx context.Context, userID uuid.UUID) (*domain.StressRecord, error) {
	return s.getOne(ctx, selectStressRecord+`
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1`, userID)
}

// GetLatestForUpdate implements store.StressRecordStore.
func (s *PostgresStressRecordStore) GetLatestForUpdate(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.StressRecord, error) {
	return s.getOne(ctx, selectStressRecord+`
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
		FOR UPDATE`, userID)
}

func (s *PostgresStressRecordStore) getOne(ctx context.Context, query string, args ...any) (*domain.StressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	record, err := scanStressRecord(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStressRecordNotFound
		}
		log.Error("failed to get stress record", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return record, nil
}

// UpdateBiometrics implements store.StressRecordStore.
func (s *PostgresStressRecordStore) UpdateBiometrics(ctx context.Context, record *domain.StressRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE stress_records
		SET heart_rate = $1, hrv = $2, activity = $3, stress_score = $4, stress_level = $5
		WHERE id = $6 AND user_id = $7
	`,
		record.Biometrics.HeartRate,
		record.Biometrics.HRV,
		record.Biometrics.Activity,
		record.Assessment.Score,
		string(record.Assessment.Level),
		record.ID,
		record.UserID,
	)
	if err != nil {
		log.Error("failed to update stress record biometrics",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrStressRecordNotFound); err != nil {
		return err
	}

	log.Info("stress record biometrics updated",
		slog.String("record_id", record.ID.String()),
		slog.String("stress_level", string(record.Assessment.Level)))
	return nil
}

// ListRecent implements store.StressRecordStore.
func (s *PostgresStressRecordStore) ListRecent(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.StressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		return []*domain.StressRecord{}, nil
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT * FROM (`+selectStressRecord+`
			WHERE user_id = $1
			ORDER BY recorded_at DESC
			LIMIT $2
		) recent
		ORDER BY recorded_at ASC
	`, userID, limit)
	if err != nil {
		log.Error("failed to list stress records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*domain.StressRecord, 0, limit)
	for rows.Next() {
		record, err := scanStressRecord(rows)
		if err != nil {
			return nil, MapError(err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStressRecord(row rowScanner) (*domain.StressRecord, error) {
	var (
		record                   domain.StressRecord
		heartRate, hrv, activity sql.NullFloat64
		level                    string
	)
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Checkin.Wellbeing,
		&record.Checkin.Sleep,
		&record.Checkin.Focus,
		&record.CheckinScore,
		&heartRate,
		&hrv,
		&activity,
		&record.Assessment.Score,
		&level,
		&record.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	record.Assessment.Level = domain.StressLevel(level)
	record.Biometrics = domain.BiometricInput{
		HeartRate: nullableFloat(heartRate),
		HRV:       nullableFloat(hrv),
		Activity:  nullableFloat(activity),
	}
	return &record, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
