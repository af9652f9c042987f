package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for records
var (
	ErrEmptyRecordID     = errors.New("record ID cannot be empty")
	ErrEmptyRecordUserID = errors.New("record user ID cannot be empty")
	ErrEmptyOriginalText = errors.New("original text cannot be empty")
)

// StressRecord is a persisted check-in together with the assessment derived
// from it. Biometric fields are filled in when a wearable submission arrives
// for the record.
type StressRecord struct {
	ID           uuid.UUID        `json:"id"`
	UserID       uuid.UUID        `json:"user_id"`
	Checkin      CheckinInput     `json:"checkin"`
	CheckinScore float64          `json:"checkin_score"`
	Biometrics   BiometricInput   `json:"biometrics"`
	Assessment   StressAssessment `json:"assessment"`
	Timestamp    time.Time        `json:"timestamp"`
}

// NewStressRecord creates a record for a freshly scored check-in.
func NewStressRecord(userID uuid.UUID, checkin CheckinInput, assessment StressAssessment) (*StressRecord, error) {
	record := &StressRecord{
		ID:           uuid.New(),
		UserID:       userID,
		Checkin:      checkin,
		CheckinScore: assessment.Score,
		Assessment:   assessment,
		Timestamp:    time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks the record's identifiers and classification.
func (r *StressRecord) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyRecordID
	}
	if r.UserID == uuid.Nil {
		return ErrEmptyRecordUserID
	}
	if !r.Assessment.Level.Valid() {
		return ErrInvalidStressLevel
	}
	return nil
}

// HasBiometrics reports whether a wearable submission has been applied.
func (r *StressRecord) HasBiometrics() bool {
	return r.Biometrics.HasSignal()
}

// ApplyBiometrics replaces the biometric signals and the assessment.
func (r *StressRecord) ApplyBiometrics(biometrics BiometricInput, assessment StressAssessment) {
	r.Biometrics = biometrics
	r.Assessment = assessment
}

// GeneratedContent is a persisted generation attempt. Degraded results are
// stored as well so that the attempt itself is recorded.
type GeneratedContent struct {
	ID             uuid.UUID        `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	StressRecordID *uuid.UUID       `json:"stress_record_id,omitempty"`
	OriginalText   string           `json:"original_text"`
	StressLevel    StressLevel      `json:"stress_level"`
	Result         GenerationResult `json:"result"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NewGeneratedContent wraps a generation result for persistence.
func NewGeneratedContent(
	userID uuid.UUID,
	anchorID *uuid.UUID,
	text string,
	level StressLevel,
	result GenerationResult,
) (*GeneratedContent, error) {
	content := &GeneratedContent{
		ID:             uuid.New(),
		UserID:         userID,
		StressRecordID: anchorID,
		OriginalText:   text,
		StressLevel:    level,
		Result:         result,
		CreatedAt:      time.Now().UTC(),
	}

	if err := content.Validate(); err != nil {
		return nil, err
	}

	return content, nil
}

// Validate checks the content's identifiers, text and level.
func (c *GeneratedContent) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyRecordID
	}
	if c.UserID == uuid.Nil {
		return ErrEmptyRecordUserID
	}
	if strings.TrimSpace(c.OriginalText) == "" {
		return ErrEmptyOriginalText
	}
	if !c.StressLevel.Valid() {
		return ErrInvalidStressLevel
	}
	return nil
}
