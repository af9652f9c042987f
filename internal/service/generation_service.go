package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/generation"
	"github.com/yachaflex/yachaflex-api/internal/platform/logger"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

// MinPDFTextLength is the fewest characters a PDF must yield to be used as source text.
const MinPDFTextLength = 50

// ContentGenerator resolves stress levels and produces content.
// *generation.Orchestrator implements it.
type ContentGenerator interface {
	ResolveLevel(ctx context.Context, userID uuid.UUID, anchorID *uuid.UUID) (domain.StressLevel, *uuid.UUID, error)
	Generate(ctx context.Context, text string, level domain.StressLevel) (domain.GenerationResult, error)
}

var _ ContentGenerator = (*generation.Orchestrator)(nil)

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// GenerationService turns study text into stress-adapted content and stores it.
type GenerationService interface {
	// Generate produces content for text at the learner's resolved stress level.
	// A degraded answer is stored and returned like any other result.
	Generate(ctx context.Context, userID uuid.UUID, text string, anchorID *uuid.UUID) (*domain.GeneratedContent, error)

	// GenerateFromPDF extracts the text of a PDF upload and generates from it.
	GenerateFromPDF(
		ctx context.Context,
		userID uuid.UUID,
		filename string,
		data []byte,
		anchorID *uuid.UUID,
	) (*domain.GeneratedContent, error)
}

type generationServiceImpl struct {
	generator ContentGenerator
	contents  store.ContentStore
	extractor TextExtractor
	logger    *slog.Logger
}

// NewGenerationService creates a GenerationService.
// It returns an error if any of the required dependencies are nil.
func NewGenerationService(
	generator ContentGenerator,
	contents store.ContentStore,
	extractor TextExtractor,
	logger *slog.Logger,
) (GenerationService, error) {
	if generator == nil {
		return nil, domain.NewValidationError("generator", "cannot be nil", domain.ErrValidation)
	}
	if contents == nil {
		return nil, domain.NewValidationError("contents", "cannot be nil", domain.ErrValidation)
	}
	if extractor == nil {
		return nil, domain.NewValidationError("extractor", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &generationServiceImpl{
		generator: generator,
		contents:  contents,
		extractor: extractor,
		logger:    logger.With(slog.String("component", "generation_service")),
	}, nil
}

// Generate implements GenerationService.
func (s *generationServiceImpl) Generate(
	ctx context.Context,
	userID uuid.UUID,
	text string,
	anchorID *uuid.UUID,
) (*domain.GeneratedContent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("text", "cannot be blank", domain.ErrEmptyContent)
	}

	level, anchor, err := s.generator.ResolveLevel(ctx, userID, anchorID)
	if err != nil {
		log.Error("failed to resolve stress level",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewGenerationServiceError("generate", "failed to resolve stress level", err)
	}

	result, err := s.generator.Generate(ctx, text, level)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, NewGenerationServiceError("generate", "content generation failed", err)
	}

	content, err := domain.NewGeneratedContent(userID, anchor, text, level, result)
	if err != nil {
		return nil, NewGenerationServiceError("generate", "failed to build content", err)
	}
	if err := s.contents.Create(ctx, content); err != nil {
		log.Error("failed to store generated content",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewGenerationServiceError("generate", "failed to store content", err)
	}

	log.Info("generated content stored",
		slog.String("user_id", userID.String()),
		slog.String("content_id", content.ID.String()),
		slog.String("stress_level", level.String()),
		slog.Bool("degraded", result.IsEmpty()))

	return content, nil
}

// GenerateFromPDF implements GenerationService.
func (s *generationServiceImpl) GenerateFromPDF(
	ctx context.Context,
	userID uuid.UUID,
	filename string,
	data []byte,
	anchorID *uuid.UUID,
) (*domain.GeneratedContent, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, domain.NewValidationError("file", "must be a PDF", nil)
	}

	text, err := s.extractor.ExtractText(data)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("pdf extraction failed",
			slog.String("error", err.Error()),
			slog.String("filename", filename))
		return nil, domain.NewValidationError("file", "could not be read as a PDF", err)
	}

	text = strings.TrimSpace(text)
	if len([]rune(text)) < MinPDFTextLength {
		return nil, domain.NewValidationError("file",
			"does not contain enough text (minimum 50 characters)", domain.ErrEmptyContent)
	}

	return s.Generate(ctx, userID, text, anchorID)
}
