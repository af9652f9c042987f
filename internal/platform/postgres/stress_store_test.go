package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/platform/postgres"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

var stressColumns = []string{
	"id", "user_id", "wellbeing", "sleep", "focus", "checkin_score",
	"heart_rate", "hrv", "activity", "stress_score", "stress_level", "recorded_at",
}

func newTestRecord(t *testing.T, userID uuid.UUID) *domain.StressRecord {
	t.Helper()
	record, err := domain.NewStressRecord(userID,
		domain.CheckinInput{Wellbeing: 3, Sleep: 4, Focus: 2},
		domain.StressAssessment{Score: 50, Level: domain.StressLevelMedium})
	require.NoError(t, err)
	return record
}

func TestPostgresStressRecordStore_Create(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresStressRecordStore(db, nil)
	record := newTestRecord(t, uuid.New())

	mock.ExpectExec("INSERT INTO stress_records").
		WithArgs(record.ID, record.UserID, 3.0, 4.0, 2.0, 50.0,
			nil, nil, nil, 50.0, "medium", record.Timestamp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), record))
}

func TestPostgresStressRecordStore_Create_UnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresStressRecordStore(db, nil)

	mock.ExpectExec("INSERT INTO stress_records").
		WillReturnError(newPgError("23503", "stress_records_user_id_fkey"))

	err := s.Create(context.Background(), newTestRecord(t, uuid.New()))
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestPostgresStressRecordStore_Create_Invalid(t *testing.T) {
	db, _ := newMockDB(t)
	s := postgres.NewPostgresStressRecordStore(db, nil)

	record := newTestRecord(t, uuid.New())
	record.Assessment.Level = "extreme"
	assert.ErrorIs(t, s.Create(context.Background(), record), domain.ErrInvalidStressLevel)
}

func TestPostgresStressRecordStore_GetLatest(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresStressRecordStore(db, nil)

	userID := uuid.New()
	id := uuid.New()
	at := time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM stress_records WHERE user_id = \\$1 ORDER BY recorded_at DESC LIMIT 1").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(stressColumns).
			AddRow(id.String(), userID.String(), 3.0, 4.0, 2.0, 50.0, 85.0, nil, 5000.0, 43.0, "medium", at))

	record, err := s.GetLatest(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, id, record.ID)
	assert.Equal(t, domain.CheckinInput{Wellbeing: 3, Sleep: 4, Focus: 2}, record.Checkin)
	assert.Equal(t, 50.0, record.CheckinScore)
	require.NotNil(t, record.Biometrics.HeartRate)
	assert.Equal(t, 85.0, *record.Biometrics.HeartRate)
	assert.Nil(t, record.Biometrics.HRV)
	assert.Equal(t, 5000.0, *record.Biometrics.Activity)
	assert.Equal(t, domain.StressAssessment{Score: 43, Level: domain.StressLevelMedium}, record.Assessment)
	assert.Equal(t, at, record.Timestamp)
	assert.True(t, record.HasBiometrics())
}

func TestPostgresStressRecordStore_GetLatest_None(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresStressRecordStore(db, nil)

	mock.ExpectQuery("SELECT (.+) FROM stress_records").
		WillReturnRows(sqlmock.NewRows(stressColumns))

	_, err := s.GetLatest(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrStressRecordNotFound)
}

func TestPostgresStressRecordStore_GetByID_ScopedToUser(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresStressRecordStore(db, nil)

	userID, id := uuid.New(), uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM stress_records WHERE id = \\$1 AND user_id = \\$2").
		WithArgs(id, userID).
		WillReturnRows(sqlmock.NewRows(stressColumns))

	_, err := s.GetByID(context.Background(), userID, id)
	assert.ErrorIs(t, err, store.ErrStressRecordNotFound)
}

func TestPostgresStressRecordStore_UpdateBiometricsInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresStressRecordStore(db, nil)

	userID := uuid.New()
	id := uuid.New()
	at := time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM stress_records (.+) FOR UPDATE").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(stressColumns).
			AddRow(id.String(), userID.String(), 3.0, 4.0, 2.0, 50.0, nil, nil, nil, 50.0, "medium", at))
	mock.ExpectExec("UPDATE stress_records SET heart_rate").
		WithArgs(85.0, nil, 5000.0, 43.0, "medium", id, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.WithTx(tx)
		record, err := txStore.GetLatestForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		record.ApplyBiometrics(
			domain.BiometricInput{HeartRate: float(85), Activity: float(5000)},
			domain.StressAssessment{Score: 43, Level: domain.StressLevelMedium})
		return txStore.UpdateBiometrics(ctx, record)
	})
	require.NoError(t, err)
}

func TestPostgresStressRecordStore_UpdateBiometrics_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresStressRecordStore(db, nil)

	mock.ExpectExec("UPDATE stress_records").WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateBiometrics(context.Background(), newTestRecord(t, uuid.New()))
	assert.ErrorIs(t, err, store.ErrStressRecordNotFound)
}

func TestPostgresStressRecordStore_ListRecent(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresStressRecordStore(db, nil)

	userID := uuid.New()
	first := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(stressColumns).
		AddRow(uuid.NewString(), userID.String(), 1.0, 1.0, 1.0, 100.0, nil, nil, nil, 100.0, "high", first).
		AddRow(uuid.NewString(), userID.String(), 5.0, 5.0, 5.0, 0.0, 50.0, nil, 10000.0, 0.0, "low", first.Add(time.Hour))

	mock.ExpectQuery("SELECT \\* FROM \\((.+) LIMIT \\$2 \\) recent ORDER BY recorded_at ASC").
		WithArgs(userID, 30).
		WillReturnRows(rows)

	records, err := s.ListRecent(context.Background(), userID, 30)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.StressLevelHigh, records[0].Assessment.Level)
	assert.False(t, records[0].HasBiometrics())
	assert.True(t, records[1].HasBiometrics())
	assert.True(t, records[0].Timestamp.Before(records[1].Timestamp))
}

func TestPostgresStressRecordStore_ListRecent_Limits(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresStressRecordStore(db, nil)

	records, err := s.ListRecent(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	mock.ExpectQuery("SELECT").
		WithArgs(sqlmock.AnyArg(), postgres.MaxHistoryLimit).
		WillReturnRows(sqlmock.NewRows(stressColumns))

	records, err = s.ListRecent(context.Background(), uuid.New(), 10000)
	require.NoError(t, err)
	assert.Empty(t, records)
}
