package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yachaflex/yachaflex-api/internal/biometric"
	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/domain/stress"
	"github.com/yachaflex/yachaflex-api/internal/mocks"
	"github.com/yachaflex/yachaflex-api/internal/service"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

type stressFixture struct {
	svc      service.StressService
	records  *mocks.MockStressRecordStore
	registry *mocks.MockRegistry
}

func newStressFixture(t *testing.T) (stressFixture, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTxDB(t)
	records := &mocks.MockStressRecordStore{}
	registry := &mocks.MockRegistry{}

	svc, err := service.NewStressService(db, records, stress.NewDefaultScorer(), registry, testLogger())
	require.NoError(t, err)

	return stressFixture{svc: svc, records: records, registry: registry}, mock
}

func TestNewStressService_RequiresDependencies(t *testing.T) {
	t.Parallel()

	db, _ := newTxDB(t)
	scorer := stress.NewDefaultScorer()
	records := &mocks.MockStressRecordStore{}
	registry := &mocks.MockRegistry{}

	_, err := service.NewStressService(nil, records, scorer, registry, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewStressService(db, nil, scorer, registry, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewStressService(db, records, nil, registry, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewStressService(db, records, scorer, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	svc, err := service.NewStressService(db, records, scorer, registry, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestSubmitCheckin(t *testing.T) {
	t.Parallel()

	t.Run("worst ratings score high and are stored", func(t *testing.T) {
		t.Parallel()
		f, _ := newStressFixture(t)
		userID := uuid.New()

		out, err := f.svc.SubmitCheckin(context.Background(), userID,
			domain.CheckinInput{Wellbeing: 1, Sleep: 1, Focus: 1})
		require.NoError(t, err)

		assert.Equal(t, 100.0, out.Record.Assessment.Score)
		assert.Equal(t, domain.StressLevelHigh, out.Record.Assessment.Level)
		assert.Equal(t, 100.0, out.Record.CheckinScore)
		assert.Equal(t, service.LevelMessage(domain.StressLevelHigh), out.Message)
		require.Len(t, f.records.Records, 1)
		assert.Equal(t, userID, f.records.Records[0].UserID)
	})

	t.Run("out of range rating is a validation error", func(t *testing.T) {
		t.Parallel()
		f, _ := newStressFixture(t)

		_, err := f.svc.SubmitCheckin(context.Background(), uuid.New(),
			domain.CheckinInput{Wellbeing: 6, Sleep: 3, Focus: 3})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "wellbeing", verr.Field)
		assert.Empty(t, f.records.Records)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		t.Parallel()
		f, _ := newStressFixture(t)
		dbErr := errors.New("connection reset")
		f.records.CreateFn = func(context.Context, *domain.StressRecord) error { return dbErr }

		_, err := f.svc.SubmitCheckin(context.Background(), uuid.New(),
			domain.CheckinInput{Wellbeing: 3, Sleep: 3, Focus: 3})

		var serr *service.StressServiceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "submit_checkin", serr.Operation)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestLevelMessage(t *testing.T) {
	t.Parallel()

	for _, level := range []domain.StressLevel{domain.StressLevelLow, domain.StressLevelMedium, domain.StressLevelHigh} {
		assert.NotEmpty(t, service.LevelMessage(level), level)
	}
	assert.Empty(t, service.LevelMessage("unknown"))
}

func TestSubmitBiometrics(t *testing.T) {
	t.Parallel()

	t.Run("rescores latest record and publishes session", func(t *testing.T) {
		t.Parallel()
		f, mock := newStressFixture(t)
		userID := uuid.New()

		_, err := f.svc.SubmitCheckin(context.Background(), userID,
			domain.CheckinInput{Wellbeing: 1, Sleep: 1, Focus: 1})
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectCommit()

		bio := domain.BiometricInput{HeartRate: ptr(50), Activity: ptr(10000)}
		out, err := f.svc.SubmitBiometrics(context.Background(), userID, " qr-123 ", bio)
		require.NoError(t, err)

		// 0.6*100 + 0.4*0
		assert.Equal(t, 60.0, out.Record.Assessment.Score)
		assert.Equal(t, domain.StressLevelMedium, out.Record.Assessment.Level)
		assert.Equal(t, 100.0, out.Record.CheckinScore)
		assert.True(t, out.Record.HasBiometrics())
		assert.Contains(t, out.Message, "medium")
		assert.Equal(t, 1, f.records.WithTxCalls)

		session, found, err := f.svc.SessionStatus(context.Background(), "qr-123")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 60.0, session.Assessment.Score)
		assert.Equal(t, 50.0, *session.Payload.HeartRate)
		assert.Nil(t, session.Payload.HRV)
	})

	t.Run("best ratings with calm biometrics score zero", func(t *testing.T) {
		t.Parallel()
		f, mock := newStressFixture(t)
		userID := uuid.New()

		_, err := f.svc.SubmitCheckin(context.Background(), userID,
			domain.CheckinInput{Wellbeing: 5, Sleep: 5, Focus: 5})
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectCommit()

		out, err := f.svc.SubmitBiometrics(context.Background(), userID, "",
			domain.BiometricInput{HeartRate: ptr(50), Activity: ptr(10000)})
		require.NoError(t, err)
		assert.Equal(t, 0.0, out.Record.Assessment.Score)
		assert.Equal(t, domain.StressLevelLow, out.Record.Assessment.Level)
		assert.Equal(t, 0, f.registry.PutCalls)
	})

	t.Run("no check-in rolls back", func(t *testing.T) {
		t.Parallel()
		f, mock := newStressFixture(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := f.svc.SubmitBiometrics(context.Background(), uuid.New(), "qr",
			domain.BiometricInput{HeartRate: ptr(80)})
		assert.ErrorIs(t, err, service.ErrNoCheckin)
		assert.Equal(t, 0, f.registry.PutCalls)
	})

	t.Run("update failure rolls back", func(t *testing.T) {
		t.Parallel()
		f, mock := newStressFixture(t)
		userID := uuid.New()
		f.records.Records = []*domain.StressRecord{{
			ID:         uuid.New(),
			UserID:     userID,
			Checkin:    domain.CheckinInput{Wellbeing: 3, Sleep: 3, Focus: 3},
			Assessment: domain.StressAssessment{Score: 50, Level: domain.StressLevelMedium},
			Timestamp:  time.Now(),
		}}
		dbErr := errors.New("deadlock detected")
		f.records.UpdateBiometricsFn = func(context.Context, *domain.StressRecord) error { return dbErr }

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := f.svc.SubmitBiometrics(context.Background(), userID, "qr",
			domain.BiometricInput{HeartRate: ptr(80)})
		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, 0, f.registry.PutCalls)
	})

	t.Run("registry failure keeps the committed assessment", func(t *testing.T) {
		t.Parallel()
		f, mock := newStressFixture(t)
		userID := uuid.New()
		_, err := f.svc.SubmitCheckin(context.Background(), userID,
			domain.CheckinInput{Wellbeing: 3, Sleep: 3, Focus: 3})
		require.NoError(t, err)

		f.registry.PutFn = func(context.Context, string, domain.BiometricInput, domain.StressAssessment) error {
			return errors.New("throttled")
		}

		mock.ExpectBegin()
		mock.ExpectCommit()

		out, err := f.svc.SubmitBiometrics(context.Background(), userID, "qr",
			domain.BiometricInput{HeartRate: ptr(80)})
		require.NoError(t, err)
		assert.True(t, out.Record.HasBiometrics())
		assert.Equal(t, 1, f.registry.PutCalls)

		latest, err := f.records.GetLatest(context.Background(), userID)
		require.NoError(t, err)
		assert.True(t, latest.HasBiometrics())
		assert.Equal(t, out.Record.Assessment, latest.Assessment)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionStatus(t *testing.T) {
	t.Parallel()

	f, _ := newStressFixture(t)

	_, found, err := f.svc.SessionStatus(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = f.svc.SessionStatus(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, biometric.ErrEmptyToken)

	regErr := errors.New("unavailable")
	f.registry.GetFn = func(context.Context, string) (biometric.Session, bool, error) {
		return biometric.Session{}, false, regErr
	}
	_, _, err = f.svc.SessionStatus(context.Background(), "qr")
	assert.ErrorIs(t, err, regErr)
}

func TestHistory(t *testing.T) {
	t.Parallel()

	t.Run("empty history averages zero", func(t *testing.T) {
		t.Parallel()
		f, _ := newStressFixture(t)

		h, err := f.svc.History(context.Background(), uuid.New(), 0)
		require.NoError(t, err)
		assert.Empty(t, h.Records)
		assert.Equal(t, 0, h.TotalRecords)
		assert.Equal(t, 0.0, h.AverageScore)
	})

	t.Run("average is rounded to two decimals", func(t *testing.T) {
		t.Parallel()
		f, _ := newStressFixture(t)
		userID := uuid.New()
		base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		for i, score := range []float64{10, 20, 20.01} {
			f.records.Records = append(f.records.Records, &domain.StressRecord{
				ID:         uuid.New(),
				UserID:     userID,
				Assessment: domain.StressAssessment{Score: score, Level: domain.StressLevelLow},
				Timestamp:  base.Add(time.Duration(i) * time.Hour),
			})
		}

		h, err := f.svc.History(context.Background(), userID, 10)
		require.NoError(t, err)
		assert.Equal(t, 3, h.TotalRecords)
		assert.Equal(t, 16.67, h.AverageScore)
		assert.True(t, h.Records[0].Timestamp.Before(h.Records[2].Timestamp))
	})

	t.Run("limit defaults and caps", func(t *testing.T) {
		t.Parallel()
		f, _ := newStressFixture(t)
		var limits []int
		f.records.ListRecentFn = func(_ context.Context, _ uuid.UUID, limit int) ([]*domain.StressRecord, error) {
			limits = append(limits, limit)
			return nil, nil
		}

		for _, limit := range []int{-1, 0, 7, 10000} {
			_, err := f.svc.History(context.Background(), uuid.New(), limit)
			require.NoError(t, err)
		}
		assert.Equal(t, []int{service.DefaultHistoryLimit, service.DefaultHistoryLimit, 7, service.MaxHistoryLimit}, limits)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		t.Parallel()
		f, _ := newStressFixture(t)
		f.records.ListRecentFn = func(context.Context, uuid.UUID, int) ([]*domain.StressRecord, error) {
			return nil, store.NewStoreError("stress_record", "list", "query failed", errors.New("boom"))
		}

		_, err := f.svc.History(context.Background(), uuid.New(), 5)
		var serr *service.StressServiceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "history", serr.Operation)
	})
}
