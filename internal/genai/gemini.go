package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiCompleter serves the Gemini API.
type geminiCompleter struct {
	client      *genai.Client
	model       string
	temperature float64
	maxTokens   int
}

func newGeminiCompleter(ctx context.Context, apiKey, model string, temperature float64, maxTokens int) (*geminiCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: api key is required", ProviderGemini)
	}
	if model == "" {
		return nil, fmt.Errorf("%s: model is required", ProviderGemini)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiCompleter{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Complete sends the preamble as the system instruction and userText
// verbatim as the content.
func (c *geminiCompleter) Complete(ctx context.Context, preamble, userText string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(preamble, genai.RoleUser),
		Temperature:       genai.Ptr(float32(c.temperature)),
	}
	if c.maxTokens > 0 {
		config.MaxOutputTokens = int32(c.maxTokens) //nolint:gosec // small configured value
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userText), config)
	duration := time.Since(start)
	if err != nil {
		slog.WarnContext(ctx, "generate content failed",
			"provider", ProviderGemini,
			"model", c.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", wrapError(err, ProviderGemini, c.model)
	}

	if resp == nil {
		return "", wrapError(errEmptyCompletion, ProviderGemini, c.model)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", wrapError(errEmptyCompletion, ProviderGemini, c.model)
	}

	if resp.UsageMetadata != nil {
		slog.DebugContext(ctx, "generate content completed",
			"provider", ProviderGemini,
			"model", c.model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"duration_ms", duration.Milliseconds())
	}
	return text, nil
}

func (c *geminiCompleter) Provider() Provider { return ProviderGemini }

func (c *geminiCompleter) Model() string { return c.model }

// Close is a no-op; genai.Client needs no cleanup.
func (c *geminiCompleter) Close() error { return nil }
