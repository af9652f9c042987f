package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yachaflex/yachaflex-api/internal/config"
	"github.com/yachaflex/yachaflex-api/internal/generation"
	"github.com/yachaflex/yachaflex-api/internal/platform/gemini"
	"github.com/yachaflex/yachaflex-api/internal/platform/openai"
	"github.com/yachaflex/yachaflex-api/internal/platform/paramstore"
)

// parameterSource yields the parameter store used to resolve API keys.
type parameterSource func() (paramstore.Getter, error)

// newLLMClient creates the language model client for cfg.Provider. A key set
// directly in the config wins over llm.api_key_parameter.
func newLLMClient(
	ctx context.Context,
	cfg config.LLMConfig,
	params parameterSource,
	logger *slog.Logger,
) (generation.LLMClient, error) {
	switch cfg.Provider {
	case config.ProviderGroq:
		var opts []openai.Option
		if key := cfg.APIKey(); key != "" {
			opts = append(opts, openai.WithAPIKey(key))
		} else {
			getter, err := params()
			if err != nil {
				return nil, err
			}
			// The key is fetched lazily on the first completion.
			opts = append(opts, openai.WithKeyParameter(getter, cfg.APIKeyParameter))
		}
		client, err := openai.NewClient(logger, cfg, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Groq client: %w", err)
		}
		return client, nil

	case config.ProviderGemini:
		key := cfg.APIKey()
		if key == "" {
			getter, err := params()
			if err != nil {
				return nil, err
			}
			key, err = paramstore.ResolveToken(ctx, getter, cfg.APIKeyParameter)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve Gemini API key: %w", err)
			}
		}
		client, err := gemini.NewClient(ctx, logger, cfg, key)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		return client, nil

	default:
		return nil, fmt.Errorf("%w: unsupported llm provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}
