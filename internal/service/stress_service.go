package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/biometric"
	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/domain/stress"
	"github.com/yachaflex/yachaflex-api/internal/platform/logger"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

// History limits.
const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 365
)

var levelMessages = map[domain.StressLevel]string{
	domain.StressLevelLow:    "You're doing great! Here's detailed content to help you learn.",
	domain.StressLevelMedium: "Moderate stress detected. Here's simplified content to keep you on track.",
	domain.StressLevelHigh:   "High stress detected. Take a breath, here's a quick overview to help you.",
}

// LevelMessage returns the learner-facing message for a stress level.
func LevelMessage(level domain.StressLevel) string {
	return levelMessages[level]
}

// AssessmentOutcome is a persisted assessment and the message shown to the learner.
type AssessmentOutcome struct {
	Record  *domain.StressRecord
	Message string
}

// StressHistory is a learner's recent records, oldest first.
type StressHistory struct {
	Records      []*domain.StressRecord
	AverageScore float64
	TotalRecords int
}

// StressService handles check-ins, biometric submissions and history.
type StressService interface {
	// SubmitCheckin scores a check-in and stores it as a new record.
	// Out-of-range ratings are returned as *domain.ValidationError.
	SubmitCheckin(ctx context.Context, userID uuid.UUID, checkin domain.CheckinInput) (*AssessmentOutcome, error)

	// SubmitBiometrics rescores the learner's latest record with biometrics.
	// When sessionToken is not blank the result is published to the session
	// registry. Returns ErrNoCheckin when the learner has no record yet.
	SubmitBiometrics(
		ctx context.Context,
		userID uuid.UUID,
		sessionToken string,
		biometrics domain.BiometricInput,
	) (*AssessmentOutcome, error)

	// SessionStatus reports whether biometrics arrived for sessionToken.
	SessionStatus(ctx context.Context, sessionToken string) (biometric.Session, bool, error)

	// History returns at most limit of the learner's most recent records.
	// limit <= 0 selects DefaultHistoryLimit; larger values are capped at MaxHistoryLimit.
	History(ctx context.Context, userID uuid.UUID, limit int) (*StressHistory, error)
}

type stressServiceImpl struct {
	db       *sql.DB
	records  store.StressRecordStore
	scorer   stress.Scorer
	registry biometric.Registry
	logger   *slog.Logger
}

// NewStressService creates a StressService.
// It returns an error if any of the required dependencies are nil.
func NewStressService(
	db *sql.DB,
	records store.StressRecordStore,
	scorer stress.Scorer,
	registry biometric.Registry,
	logger *slog.Logger,
) (StressService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if records == nil {
		return nil, domain.NewValidationError("records", "cannot be nil", domain.ErrValidation)
	}
	if scorer == nil {
		return nil, domain.NewValidationError("scorer", "cannot be nil", domain.ErrValidation)
	}
	if registry == nil {
		return nil, domain.NewValidationError("registry", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &stressServiceImpl{
		db:       db,
		records:  records,
		scorer:   scorer,
		registry: registry,
		logger:   logger.With(slog.String("component", "stress_service")),
	}, nil
}

// SubmitCheckin implements StressService.
func (s *stressServiceImpl) SubmitCheckin(
	ctx context.Context,
	userID uuid.UUID,
	checkin domain.CheckinInput,
) (*AssessmentOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	assessment, err := s.scorer.Calculate(checkin, nil)
	if err != nil {
		log.Debug("check-in rejected", slog.String("error", err.Error()))
		return nil, err
	}

	record, err := domain.NewStressRecord(userID, checkin, assessment)
	if err != nil {
		return nil, NewStressServiceError("submit_checkin", "failed to build record", err)
	}

	if err := s.records.Create(ctx, record); err != nil {
		log.Error("failed to store check-in",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewStressServiceError("submit_checkin", "failed to store record", err)
	}

	log.Info("check-in stored",
		slog.String("user_id", userID.String()),
		slog.String("record_id", record.ID.String()),
		slog.Float64("stress_score", assessment.Score),
		slog.String("stress_level", assessment.Level.String()))

	return &AssessmentOutcome{Record: record, Message: LevelMessage(assessment.Level)}, nil
}

// SubmitBiometrics implements StressService.
func (s *stressServiceImpl) SubmitBiometrics(
	ctx context.Context,
	userID uuid.UUID,
	sessionToken string,
	biometrics domain.BiometricInput,
) (*AssessmentOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var record *domain.StressRecord
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txRecords := s.records.WithTx(tx)

		latest, err := txRecords.GetLatestForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrStressRecordNotFound) {
				return ErrNoCheckin
			}
			return NewStressServiceError("submit_biometrics", "failed to load latest record", err)
		}

		assessment, err := s.scorer.Calculate(latest.Checkin, &biometrics)
		if err != nil {
			return err
		}
		latest.ApplyBiometrics(biometrics, assessment)

		if err := txRecords.UpdateBiometrics(ctx, latest); err != nil {
			return NewStressServiceError("submit_biometrics", "failed to update record", err)
		}
		record = latest
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNoCheckin) || errors.Is(err, domain.ErrValidation) {
			log.Debug("biometrics rejected",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		} else {
			log.Error("failed to apply biometrics",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return nil, err
	}

	if token, tokenErr := biometric.NormalizeToken(sessionToken); tokenErr == nil {
		// The record is already committed. Without a session the status
		// endpoint reports nothing received.
		if err := s.registry.Put(ctx, token, record.Biometrics, record.Assessment); err != nil {
			log.Error("failed to publish biometric session",
				slog.String("error", err.Error()),
				slog.String("session_id", token),
				slog.String("record_id", record.ID.String()))
		}
	}

	log.Info("biometrics applied",
		slog.String("user_id", userID.String()),
		slog.String("record_id", record.ID.String()),
		slog.Float64("stress_score", record.Assessment.Score),
		slog.String("stress_level", record.Assessment.Level.String()))

	return &AssessmentOutcome{
		Record:  record,
		Message: fmt.Sprintf("Biometrics received. Stress level updated to: %s", record.Assessment.Level),
	}, nil
}

// SessionStatus implements StressService.
func (s *stressServiceImpl) SessionStatus(ctx context.Context, sessionToken string) (biometric.Session, bool, error) {
	token, err := biometric.NormalizeToken(sessionToken)
	if err != nil {
		return biometric.Session{}, false, domain.NewValidationError("session_id", "is required", err)
	}

	session, found, err := s.registry.Get(ctx, token)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read biometric session",
			slog.String("error", err.Error()))
		return biometric.Session{}, false, NewStressServiceError("session_status", "failed to read session", err)
	}
	return session, found, nil
}

// History implements StressService.
func (s *stressServiceImpl) History(ctx context.Context, userID uuid.UUID, limit int) (*StressHistory, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	records, err := s.records.ListRecent(ctx, userID, limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list stress records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewStressServiceError("history", "failed to list records", err)
	}

	history := &StressHistory{Records: records, TotalRecords: len(records)}
	if len(records) > 0 {
		var sum float64
		for _, r := range records {
			sum += r.Assessment.Score
		}
		history.AverageScore = math.Round(sum/float64(len(records))*100) / 100
	}
	return history, nil
}
