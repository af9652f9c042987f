package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/domain"
)

// DefaultTimeout bounds a single language model call.
const DefaultTimeout = 60 * time.Second

// AnchoredAssessment is a stored assessment together with the record it belongs to.
type AnchoredAssessment struct {
	RecordID   uuid.UUID
	Assessment domain.StressAssessment
}

// HistoryLookup gives the orchestrator read access to a learner's stored assessments.
type HistoryLookup interface {
	// MostRecentAssessment returns the learner's latest assessment. found is
	// false when the learner has none.
	MostRecentAssessment(ctx context.Context, userID uuid.UUID) (a AnchoredAssessment, found bool, err error)

	// AssessmentByID returns the assessment of one of the learner's records.
	// found is false when the record does not exist or belongs to someone else.
	AssessmentByID(ctx context.Context, userID, recordID uuid.UUID) (a AnchoredAssessment, found bool, err error)
}

// Orchestrator produces stress-adapted study content.
// It holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	client   LLMClient
	history  HistoryLookup
	profiles Profiles
	prompts  *PromptBuilder
	timeout  time.Duration
	logger   *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProfiles replaces the default level profile table.
func WithProfiles(profiles Profiles) Option {
	return func(o *Orchestrator) { o.profiles = profiles }
}

// WithPromptBuilder replaces the built-in prompt template.
func WithPromptBuilder(b *PromptBuilder) Option {
	return func(o *Orchestrator) { o.prompts = b }
}

// WithTimeout sets the per-call language model timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(
	client LLMClient,
	history HistoryLookup,
	logger *slog.Logger,
	opts ...Option,
) (*Orchestrator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: llm client cannot be nil", ErrInvalidConfig)
	}
	if history == nil {
		return nil, fmt.Errorf("%w: history lookup cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
	}

	o := &Orchestrator{
		client:   client,
		history:  history,
		profiles: DefaultProfiles(),
		timeout:  DefaultTimeout,
		logger:   logger.With(slog.String("component", "generation_orchestrator")),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.prompts == nil {
		prompts, err := NewPromptBuilder("")
		if err != nil {
			return nil, err
		}
		o.prompts = prompts
	}
	if err := o.profiles.Validate(); err != nil {
		return nil, err
	}
	if o.timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}

	return o, nil
}

// ResolveLevel picks the stress level for a generation request. A resolvable
// anchor wins; otherwise the learner's most recent assessment is used;
// otherwise domain.DefaultStressLevel applies with no anchor.
func (o *Orchestrator) ResolveLevel(
	ctx context.Context,
	userID uuid.UUID,
	anchorID *uuid.UUID,
) (domain.StressLevel, *uuid.UUID, error) {
	if anchorID != nil {
		anchored, found, err := o.history.AssessmentByID(ctx, userID, *anchorID)
		if err != nil {
			return "", nil, fmt.Errorf("failed to look up anchor assessment: %w", err)
		}
		if found {
			return anchored.Assessment.Level, &anchored.RecordID, nil
		}
		o.logger.WarnContext(ctx, "anchor record not found, falling back to most recent assessment",
			slog.String("user_id", userID.String()),
			slog.String("anchor_id", anchorID.String()))
	}

	anchored, found, err := o.history.MostRecentAssessment(ctx, userID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up most recent assessment: %w", err)
	}
	if found {
		return anchored.Assessment.Level, &anchored.RecordID, nil
	}

	return domain.DefaultStressLevel, nil, nil
}

// Generate produces content for text at level.
//
// Blank text is a *domain.ValidationError. A client failure, including the
// call timing out, is a *ServiceUnavailableError carrying the cause. An
// answer that cannot be decoded is not an error: the empty result is returned.
func (o *Orchestrator) Generate(
	ctx context.Context,
	text string,
	level domain.StressLevel,
) (domain.GenerationResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.GenerationResult{}, domain.NewValidationError("text", "cannot be blank", domain.ErrEmptyContent)
	}
	if !level.Valid() {
		return domain.GenerationResult{}, domain.NewValidationError("stress_level",
			fmt.Sprintf("%q is not one of low, medium, high", level), domain.ErrInvalidStressLevel)
	}

	profile, err := o.profiles.For(level)
	if err != nil {
		return domain.GenerationResult{}, err
	}
	prompt, err := o.prompts.Build(text, level, profile)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	raw, err := o.client.Complete(callCtx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %v", context.DeadlineExceeded, o.timeout, err)
		}
		o.logger.ErrorContext(ctx, "language model call failed",
			slog.String("stress_level", level.String()),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", err))
		return domain.GenerationResult{}, NewServiceUnavailableError(err)
	}

	extraction := Extract(raw)
	if extraction.Degraded() {
		o.logger.WarnContext(ctx, "language model answer could not be decoded, returning empty result",
			slog.String("stress_level", level.String()),
			slog.String("strategy", string(extraction.Strategy)),
			slog.Int("answer_length", len(raw)))
	} else {
		o.logger.InfoContext(ctx, "content generated",
			slog.String("stress_level", level.String()),
			slog.String("strategy", string(extraction.Strategy)),
			slog.Int("flashcards", len(extraction.Result.Flashcards)),
			slog.Int("quiz_questions", len(extraction.Result.Quiz)),
			slog.Duration("elapsed", elapsed))
	}

	return extraction.Result, nil
}
