package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	// Token is the JWT used for API authorization
	Token string `json:"token"`
	// ExpiresAt is the RFC 3339 timestamp when the token expires
	ExpiresAt string `json:"expires_at"`
}

// CheckinRequest defines the payload of a check-in. Pointers distinguish a
// missing rating from zero.
type CheckinRequest struct {
	Wellbeing *float64 `json:"wellbeing" validate:"required"`
	Sleep     *float64 `json:"sleep"     validate:"required"`
	Focus     *float64 `json:"focus"     validate:"required"`
}

// AssessmentResponse is returned by the check-in and biometrics endpoints.
type AssessmentResponse struct {
	StressScore float64            `json:"stress_score"`
	StressLevel domain.StressLevel `json:"stress_level"`
	RecordID    uuid.UUID          `json:"record_id"`
	Message     string             `json:"message"`
}

// BiometricsRequest defines the payload sent by the wearable companion app.
type BiometricsRequest struct {
	HeartRate *float64 `json:"heart_rate" validate:"omitempty,gte=0"`
	HRV       *float64 `json:"hrv"        validate:"omitempty,gte=0"`
	Activity  *float64 `json:"activity"   validate:"omitempty,gte=0"`
	// SessionID is used when the session_id query parameter is absent
	SessionID string `json:"session_id" validate:"max=128"`
}

// BiometricsStatusResponse reports whether a session received biometrics.
// Only Received is set when nothing has arrived yet.
type BiometricsStatusResponse struct {
	Received    bool               `json:"received"`
	HeartRate   *float64           `json:"heart_rate,omitempty"`
	HRV         *float64           `json:"hrv,omitempty"`
	Activity    *float64           `json:"activity,omitempty"`
	StressScore *float64           `json:"stress_score,omitempty"`
	StressLevel domain.StressLevel `json:"stress_level,omitempty"`
}

// GenerateRequest defines the payload of a text generation request.
type GenerateRequest struct {
	Text           string `json:"text"             validate:"required,max=100000"`
	StressRecordID string `json:"stress_record_id" validate:"omitempty,uuid"`
}

// GenerateResponse carries the generated study content.
type GenerateResponse struct {
	StressLevel domain.StressLevel    `json:"stress_level"`
	Summary     string                `json:"summary"`
	Flashcards  []domain.Flashcard    `json:"flashcards"`
	Quiz        []domain.QuizQuestion `json:"quiz"`
	ContentID   uuid.UUID             `json:"content_id"`
}

// HistoryPoint is one record of the stress history.
type HistoryPoint struct {
	Timestamp     time.Time          `json:"timestamp"`
	StressScore   float64            `json:"stress_score"`
	StressLevel   domain.StressLevel `json:"stress_level"`
	HasBiometrics bool               `json:"has_biometrics"`
}

// HistoryResponse is the learner's recent stress history.
type HistoryResponse struct {
	Records      []HistoryPoint `json:"records"`
	AverageScore float64        `json:"average_score"`
	TotalRecords int            `json:"total_records"`
}

func newGenerateResponse(content *domain.GeneratedContent) GenerateResponse {
	flashcards := content.Result.Flashcards
	if flashcards == nil {
		flashcards = []domain.Flashcard{}
	}
	quiz := content.Result.Quiz
	if quiz == nil {
		quiz = []domain.QuizQuestion{}
	}
	return GenerateResponse{
		StressLevel: content.StressLevel,
		Summary:     content.Result.Summary,
		Flashcards:  flashcards,
		Quiz:        quiz,
		ContentID:   content.ID,
	}
}
