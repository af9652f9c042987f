package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/yachaflex/yachaflex-api/internal/config"
	"github.com/yachaflex/yachaflex-api/internal/generation"
)

// DefaultModel is used when llm.model_name is empty.
const DefaultModel = "gemini-2.0-flash"

// contentGenerator is the subset of *genai.Models used by Client.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Client implements generation.LLMClient using the Gemini API.
type Client struct {
	logger      *slog.Logger
	models      contentGenerator
	model       string
	temperature float32
	maxRetries  int
	retryDelay  time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand
}

var _ generation.LLMClient = (*Client)(nil)

// NewClient creates a Gemini client. apiKey is passed separately so callers can
// resolve it from the config or from the parameter store.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newClient(logger, cfg, sdk.Models)
}

func newClient(logger *slog.Logger, cfg config.LLMConfig, models contentGenerator) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if models == nil {
		return nil, fmt.Errorf("%w: gemini models service cannot be nil", generation.ErrInvalidConfig)
	}

	model := cfg.ModelName
	if model == "" {
		model = DefaultModel
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		logger.Warn("invalid max retries value, retries disabled", "max_retries", maxRetries)
		maxRetries = 0
	}
	retryDelay := time.Duration(cfg.RetryDelaySeconds) * time.Second
	if retryDelay <= 0 {
		retryDelay = 2 * time.Second
	}

	return &Client{
		logger:      logger.With(slog.String("component", "gemini_client")),
		models:      models,
		model:       model,
		temperature: float32(cfg.Temperature),
		maxRetries:  maxRetries,
		retryDelay:  retryDelay,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Complete implements generation.LLMClient.
func (c *Client) Complete(ctx context.Context, prompt generation.Prompt) (string, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt.User}}},
	}

	temperature := c.temperature
	cfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if prompt.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: prompt.System}}}
	}
	if prompt.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		c.logger.DebugContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", c.maxRetries+1,
			"model", c.model)

		text, err := c.generateOnce(ctx, contents, cfg)
		if err == nil {
			return text, nil
		}

		c.logger.WarnContext(ctx, "Gemini API call failed", "attempt", attemptNum, "error", err)

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			return "", err
		}
		if ctx.Err() != nil || attempt >= c.maxRetries {
			return "", err
		}

		delay := c.backoff(attempt)
		c.logger.InfoContext(ctx, "retrying Gemini API call after delay",
			"attempt", attemptNum,
			"delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w (last error: %v)", ctx.Err(), err)
		}
	}
}

func (c *Client) generateOnce(
	ctx context.Context,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, contents, cfg)
	switch {
	case err != nil:
		return "", fmt.Errorf("gemini generate content: %w", err)
	case resp == nil || len(resp.Candidates) == 0:
		return "", fmt.Errorf("%w: no candidates in response", generation.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, resp.Candidates[0].FinishReason)
	case resp.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		c.logger.WarnContext(ctx, "Gemini returned an empty answer",
			"model", c.model,
			"finish_reason", resp.Candidates[0].FinishReason)
	}
	return sb.String(), nil
}

// backoff returns baseDelay * 2^attempt scaled by a jitter factor in [0.5, 1.0).
func (c *Client) backoff(attempt int) time.Duration {
	c.rngMu.Lock()
	jitter := 0.5 + c.rng.Float64()*0.5
	c.rngMu.Unlock()

	return time.Duration(float64(c.retryDelay) * math.Pow(2, float64(attempt)) * jitter)
}
