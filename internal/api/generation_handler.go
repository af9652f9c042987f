package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/yachaflex/yachaflex-api/internal/api/shared"
	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/service"
)

// MaxPDFUploadBytes caps the size of an uploaded PDF.
const MaxPDFUploadBytes = 20 << 20

// GenerationHandler serves content generation from text and PDF uploads.
type GenerationHandler struct {
	generation service.GenerationService
	logger     *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generation service.GenerationService, logger *slog.Logger) *GenerationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerationHandler")
	}
	return &GenerationHandler{
		generation: generation,
		logger:     logger.With(slog.String("component", "generation_handler")),
	}
}

// Generate handles POST /api/generate.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logFor(r, h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req GenerateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	anchorID, err := parseOptionalUUID("stress_record_id", req.StressRecordID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	content, err := h.generation.Generate(r.Context(), userID, req.Text, anchorID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate content")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newGenerateResponse(content))
}

// GenerateFromPDF handles POST /api/generate/pdf, a multipart form with a
// "file" part and an optional "stress_record_id" field.
func (h *GenerationHandler) GenerateFromPDF(w http.ResponseWriter, r *http.Request) {
	log := logFor(r, h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxPDFUploadBytes)
	if err := r.ParseMultipartForm(MaxPDFUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Uploaded file is too large", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("file", "is required", err), "")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}

	anchorID, err := parseOptionalUUID("stress_record_id", r.FormValue("stress_record_id"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("pdf upload received",
		slog.String("filename", header.Filename),
		slog.Int("bytes", len(data)))

	content, err := h.generation.GenerateFromPDF(r.Context(), userID, header.Filename, data, anchorID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate content")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newGenerateResponse(content))
}
