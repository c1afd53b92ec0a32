package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

type geminiClient struct {
	client *genai.Client
	model  string
}

// newGeminiClient creates a Client backed by the Google Gemini API.
func newGeminiClient(cfg Config) (Client, error) {
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash-latest"
	}

	clientCfg := &genai.ClientConfig{
		APIKey: cfg.APIKey,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &geminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	return withRetry(ctx, func() (string, error) {
		contents := []*genai.Content{
			genai.NewContentFromText(prompt, genai.RoleUser),
		}

		start := time.Now()
		resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
		if err != nil {
			return "", fmt.Errorf("gemini generate: %w", err)
		}

		text := resp.Text()
		if text == "" {
			return "", fmt.Errorf("gemini returned an empty response")
		}

		slog.DebugContext(ctx, "llm generation completed",
			"model", c.model,
			"duration_ms", time.Since(start).Milliseconds(),
			"prompt_len", len(prompt),
			"response_len", len(text))

		return text, nil
	})
}

func (c *geminiClient) Model() string {
	return c.model
}
