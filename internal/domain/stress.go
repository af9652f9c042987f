package domain

import "strings"

// StressLevel is the three-level classification of a stress score.
type StressLevel string

// Possible stress level values
const (
	StressLevelLow    StressLevel = "low"
	StressLevelMedium StressLevel = "medium"
	StressLevelHigh   StressLevel = "high"
)

// DefaultStressLevel is used when no prior assessment exists for a learner.
const DefaultStressLevel = StressLevelMedium

// ParseStressLevel converts a case-insensitive string into a StressLevel.
func ParseStressLevel(s string) (StressLevel, error) {
	level := StressLevel(strings.ToLower(strings.TrimSpace(s)))
	if !level.Valid() {
		return "", ErrInvalidStressLevel
	}
	return level, nil
}

// Valid reports whether the level is one of the known values.
func (l StressLevel) Valid() bool {
	switch l {
	case StressLevelLow, StressLevelMedium, StressLevelHigh:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (l StressLevel) String() string {
	return string(l)
}

// CheckinInput holds the three self-reported ratings of a check-in.
type CheckinInput struct {
	Wellbeing float64 `json:"wellbeing"`
	Sleep     float64 `json:"sleep"`
	Focus     float64 `json:"focus"`
}

// BiometricInput holds optional wearable signals. A nil field means the
// signal was not captured; it is never treated as zero.
type BiometricInput struct {
	// HeartRate in beats per minute
	HeartRate *float64 `json:"heart_rate"`
	// HRV is heart-rate variability in milliseconds
	HRV *float64 `json:"hrv"`
	// Activity in steps or an equivalent activity count
	Activity *float64 `json:"activity"`
}

// HasSignal reports whether at least one biometric signal is present.
func (b BiometricInput) HasSignal() bool {
	return b.HeartRate != nil || b.HRV != nil || b.Activity != nil
}

// StressAssessment is the normalized score and its classification.
type StressAssessment struct {
	Score float64     `json:"stress_score"`
	Level StressLevel `json:"stress_level"`
}
