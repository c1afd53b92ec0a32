package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
)

// Provider constants for LLM provider selection.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds LLM client configuration.
type Config struct {
	Provider string // "gemini" or "openai"
	APIKey   string // Required: API key for the provider
	BaseURL  string // Optional: custom API endpoint
	Model    string // Model name (e.g., "gemini-1.5-flash-latest", "gpt-4o-mini")
}

// Client generates text from a single prompt. All analyzer prompts are
// one-shot: the prompt carries everything, the reply is plain prose.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// New creates a Client for the configured provider.
// Defaults to Gemini if no provider is specified.
func New(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	provider := cfg.Provider
	if provider == "" {
		provider = ProviderGemini
	}

	switch provider {
	case ProviderGemini:
		return newGeminiClient(cfg)
	case ProviderOpenAI:
		return newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

const maxAttempts = 3

// withRetry runs call up to maxAttempts times with exponential backoff
// (1s, 2s) between attempts.
func withRetry(ctx context.Context, call func() (string, error)) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out, err := call()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !IsRetryable(ctx, err) || attempt == maxAttempts {
			break
		}

		backoff := time.Duration(1<<(attempt-1)) * time.Second
		slog.WarnContext(ctx, "llm call failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	return "", lastErr
}

// IsRetryable reports whether an LLM error is worth retrying.
// Context cancellation and client-side API errors are terminal; rate
// limits, server errors and network failures are retried.
func IsRetryable(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.DebugContext(ctx, "llm error not retryable: context cancelled or deadline exceeded")
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 429:
			slog.WarnContext(ctx, "llm rate limited, will retry",
				"status_code", apiErr.StatusCode)
			return true
		case apiErr.StatusCode >= 500:
			slog.WarnContext(ctx, "llm server error, will retry",
				"status_code", apiErr.StatusCode)
			return true
		default:
			slog.ErrorContext(ctx, "llm client error, not retryable",
				"status_code", apiErr.StatusCode,
				"error_type", apiErr.Type,
				"error_code", apiErr.Code)
			return false
		}
	}

	// Network errors and provider errors without a mapped status are
	// generally transient
	slog.WarnContext(ctx, "llm transient error, will retry", "error", err)
	return true
}
