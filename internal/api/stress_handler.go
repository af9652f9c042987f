package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/yachaflex/yachaflex-api/internal/api/shared"
	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/service"
)

// StressHandler serves check-ins, biometric submissions and history.
type StressHandler struct {
	stress service.StressService
	logger *slog.Logger
}

// NewStressHandler creates a new StressHandler.
func NewStressHandler(stress service.StressService, logger *slog.Logger) *StressHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StressHandler")
	}
	return &StressHandler{
		stress: stress,
		logger: logger.With(slog.String("component", "stress_handler")),
	}
}

// SubmitCheckin handles POST /api/checkin.
func (h *StressHandler) SubmitCheckin(w http.ResponseWriter, r *http.Request) {
	log := logFor(r, h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CheckinRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.stress.SubmitCheckin(r.Context(), userID, domain.CheckinInput{
		Wellbeing: *req.Wellbeing,
		Sleep:     *req.Sleep,
		Focus:     *req.Focus,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit check-in")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newAssessmentResponse(out))
}

// SubmitBiometrics handles POST /api/biometrics. The session token comes
// from the session_id query parameter, or from the body when the query
// parameter is absent.
func (h *StressHandler) SubmitBiometrics(w http.ResponseWriter, r *http.Request) {
	log := logFor(r, h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req BiometricsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if token == "" {
		token = strings.TrimSpace(req.SessionID)
	}

	out, err := h.stress.SubmitBiometrics(r.Context(), userID, token, domain.BiometricInput{
		HeartRate: req.HeartRate,
		HRV:       req.HRV,
		Activity:  req.Activity,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit biometrics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newAssessmentResponse(out))
}

// BiometricsStatus handles GET /api/biometrics/status?session_id=...
func (h *StressHandler) BiometricsStatus(w http.ResponseWriter, r *http.Request) {
	log := logFor(r, h.logger)
	if _, ok := requireUserID(w, r, log); !ok {
		return
	}

	session, found, err := h.stress.SessionStatus(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read biometric session")
		return
	}
	if !found {
		shared.RespondWithJSON(w, r, http.StatusOK, BiometricsStatusResponse{Received: false})
		return
	}

	score := session.Assessment.Score
	shared.RespondWithJSON(w, r, http.StatusOK, BiometricsStatusResponse{
		Received:    true,
		HeartRate:   session.Payload.HeartRate,
		HRV:         session.Payload.HRV,
		Activity:    session.Payload.Activity,
		StressScore: &score,
		StressLevel: session.Assessment.Level,
	})
}

// History handles GET /api/history?limit=N.
func (h *StressHandler) History(w http.ResponseWriter, r *http.Request) {
	log := logFor(r, h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	history, err := h.stress.History(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load history")
		return
	}

	points := make([]HistoryPoint, 0, len(history.Records))
	for _, rec := range history.Records {
		points = append(points, HistoryPoint{
			Timestamp:     rec.Timestamp,
			StressScore:   rec.Assessment.Score,
			StressLevel:   rec.Assessment.Level,
			HasBiometrics: rec.HasBiometrics(),
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HistoryResponse{
		Records:      points,
		AverageScore: history.AverageScore,
		TotalRecords: history.TotalRecords,
	})
}

func newAssessmentResponse(out *service.AssessmentOutcome) AssessmentResponse {
	return AssessmentResponse{
		StressScore: out.Record.Assessment.Score,
		StressLevel: out.Record.Assessment.Level,
		RecordID:    out.Record.ID,
		Message:     out.Message,
	}
}
