package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yachaflex/yachaflex-api/internal/config"
	"github.com/yachaflex/yachaflex-api/internal/generation"
	"github.com/yachaflex/yachaflex-api/internal/platform/paramstore"
)

const (
	// DefaultBaseURL is the Groq OpenAI-compatible API root.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is used when llm.model_name is empty.
	DefaultModel = "llama-3.1-8b-instant"

	defaultMaxTokens = 3000
	defaultTimeout   = 60 * time.Second
	keyLookupTimeout = 10 * time.Second
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatRequest is the minimal request shape for the Chat Completions endpoint.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// chatResponse is the minimal response shape returned by the Chat Completions endpoint.
type chatResponse struct {
	Choices []struct {
		Index        int         `json:"index"`
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// HTTPStatusError captures non-2xx upstream responses.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("openai: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// HTTPStatusCode returns the upstream status code.
func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client is a focused OpenAI-compatible client for chat completions.
type Client struct {
	logger      *slog.Logger
	baseURL     string
	httpClient  *http.Client
	model       string
	temperature float64
	maxTokens   int

	staticKey string
	getter    paramstore.Getter
	keyParam  string

	keyMu  sync.Mutex
	apiKey string
}

var _ generation.LLMClient = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAPIKey sets the bearer token directly.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.staticKey = strings.TrimSpace(key)
	}
}

// WithKeyParameter makes the client fetch its bearer token from the parameter
// store on first use. A directly configured key takes precedence.
func WithKeyParameter(getter paramstore.Getter, name string) Option {
	return func(c *Client) {
		c.getter = getter
		c.keyParam = strings.TrimSpace(name)
	}
}

// NewClient creates a client from the LLM configuration.
func NewClient(logger *slog.Logger, cfg config.LLMConfig, opts ...Option) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	model := cfg.ModelName
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	c := &Client{
		logger:      logger.With(slog.String("component", "openai_client")),
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{Timeout: timeout},
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
	}
	if cfg.BaseURL != "" {
		c.baseURL = cfg.BaseURL
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.staticKey == "" && (c.getter == nil || c.keyParam == "") {
		return nil, fmt.Errorf("%w: API key or key parameter is required", generation.ErrInvalidConfig)
	}
	return c, nil
}

// resolveAPIKey returns the static key, or fetches it from the parameter
// store. Only a successful lookup is cached; a failed one is retried on the
// next call. The lookup outlives a cancelled request context.
func (c *Client) resolveAPIKey(ctx context.Context) (string, error) {
	if c.staticKey != "" {
		return c.staticKey, nil
	}

	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	if c.apiKey != "" {
		return c.apiKey, nil
	}

	lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), keyLookupTimeout)
	defer cancel()

	key, err := paramstore.ResolveToken(lookupCtx, c.getter, c.keyParam)
	if err != nil {
		return "", fmt.Errorf("openai: resolve API key: %w", err)
	}
	c.apiKey = key
	return key, nil
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: defaultTimeout}
}

func chatURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	return base + "/v1/chat/completions"
}

// Complete implements generation.LLMClient.
func (c *Client) Complete(ctx context.Context, prompt generation.Prompt) (string, error) {
	apiKey, err := c.resolveAPIKey(ctx)
	if err != nil {
		return "", err
	}

	messages := make([]chatMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: prompt.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt.User})

	payload := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if prompt.JSON {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	url := chatURL(c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	start := time.Now()
	raw, err := c.doJSONRequest(req, url)
	if err != nil {
		c.logger.WarnContext(ctx, "chat completion failed",
			slog.String("model", c.model),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai: request failed: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: openai: decode response: %v", generation.ErrInvalidResponse, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai: no choices in response", generation.ErrInvalidResponse)
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		c.logger.WarnContext(ctx, "chat completion returned empty content",
			slog.String("model", c.model),
			slog.String("finish_reason", resp.Choices[0].FinishReason))
	}

	c.logger.DebugContext(ctx, "chat completion received",
		slog.String("model", c.model),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("response_length", len(content)))
	return content, nil
}

func (c *Client) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}
