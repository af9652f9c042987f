package stress

import (
	"errors"
	"fmt"
	"math"

	"github.com/yachaflex/yachaflex-api/internal/domain"
)

// Common errors
var (
	ErrInvalidScale      = errors.New("check-in scale maximum must be greater than its minimum")
	ErrInvalidThresholds = errors.New("stress thresholds must satisfy 0 <= low < medium <= 100")
)

// Scorer defines the interface for stress scoring operations.
// Implementations are pure and safe for concurrent use.
type Scorer interface {
	// ScoreCheckin converts the three check-in ratings into a score in [0,100].
	ScoreCheckin(checkin domain.CheckinInput) (float64, error)

	// ScoreBiometrics converts the present biometric signals into a score.
	// ok is false when no participating signal is present.
	ScoreBiometrics(biometrics domain.BiometricInput) (score float64, ok bool, err error)

	// Calculate produces the final assessment, blending in biometrics when
	// they carry a signal. biometrics may be nil.
	Calculate(checkin domain.CheckinInput, biometrics *domain.BiometricInput) (domain.StressAssessment, error)

	// Classify maps a score onto a stress level.
	Classify(score float64) domain.StressLevel
}

// defaultScorer is the standard implementation of the Scorer interface
type defaultScorer struct {
	params *Params
}

// NewDefaultScorer creates a scorer with default parameters
func NewDefaultScorer() Scorer {
	return &defaultScorer{params: NewDefaultParams()}
}

// NewScorer creates a scorer with custom parameters
func NewScorer(params *Params) (Scorer, error) {
	if params == nil {
		params = NewDefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultScorer{params: params}, nil
}

// ScoreCheckin implements Scorer.
func (s *defaultScorer) ScoreCheckin(checkin domain.CheckinInput) (float64, error) {
	if err := s.validateCheckin(checkin); err != nil {
		return 0, err
	}
	return scoreCheckin(checkin, s.params), nil
}

// ScoreBiometrics implements Scorer.
func (s *defaultScorer) ScoreBiometrics(biometrics domain.BiometricInput) (float64, bool, error) {
	if err := validateBiometrics(biometrics); err != nil {
		return 0, false, err
	}
	score, ok := scoreBiometrics(biometrics, s.params)
	return score, ok, nil
}

// Calculate implements Scorer.
func (s *defaultScorer) Calculate(
	checkin domain.CheckinInput,
	biometrics *domain.BiometricInput,
) (domain.StressAssessment, error) {
	checkinScore, err := s.ScoreCheckin(checkin)
	if err != nil {
		return domain.StressAssessment{}, err
	}

	final := checkinScore
	if biometrics != nil {
		biometricScore, ok, err := s.ScoreBiometrics(*biometrics)
		if err != nil {
			return domain.StressAssessment{}, err
		}
		if ok {
			final = blend(checkinScore, biometricScore, s.params)
		}
	}

	return domain.StressAssessment{
		Score: final,
		Level: classify(final, s.params),
	}, nil
}

// Classify implements Scorer.
func (s *defaultScorer) Classify(score float64) domain.StressLevel {
	return classify(score, s.params)
}

func (s *defaultScorer) validateCheckin(checkin domain.CheckinInput) error {
	ratings := []struct {
		field string
		value float64
	}{
		{"wellbeing", checkin.Wellbeing},
		{"sleep", checkin.Sleep},
		{"focus", checkin.Focus},
	}

	for _, r := range ratings {
		if math.IsNaN(r.value) || math.IsInf(r.value, 0) {
			return domain.NewValidationError(r.field, "must be a finite number", nil)
		}
		if r.value < s.params.CheckinScaleMin || r.value > s.params.CheckinScaleMax {
			return domain.NewValidationError(r.field, fmt.Sprintf("must be between %g and %g",
				s.params.CheckinScaleMin, s.params.CheckinScaleMax), nil)
		}
	}
	return nil
}

func validateBiometrics(b domain.BiometricInput) error {
	signals := []struct {
		field string
		value *float64
	}{
		{"heart_rate", b.HeartRate},
		{"hrv", b.HRV},
		{"activity", b.Activity},
	}

	for _, sig := range signals {
		if sig.value == nil {
			continue
		}
		if math.IsNaN(*sig.value) || math.IsInf(*sig.value, 0) {
			return domain.NewValidationError(sig.field, "must be a finite number", nil)
		}
	}
	return nil
}
