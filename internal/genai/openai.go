package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// errEmptyCompletion is returned when a provider answers with no text.
var errEmptyCompletion = errors.New("empty completion")

// openaiCompleter serves any OpenAI-compatible provider (OpenAI, Groq,
// Cerebras) through a custom base URL.
type openaiCompleter struct {
	client      openai.Client
	provider    Provider
	model       string
	temperature float64
	maxTokens   int
}

func newOpenAICompleter(provider Provider, apiKey, model string, temperature float64, maxTokens int, opts ...option.RequestOption) (*openaiCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: api key is required", provider)
	}
	baseURL, ok := ProviderEndpoint[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported OpenAI-compatible provider: %s", provider)
	}
	if model == "" {
		return nil, fmt.Errorf("%s: model is required", provider)
	}

	// The SDK retries on its own; the gateway owns retries.
	base := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	return &openaiCompleter{
		client:      openai.NewClient(append(base, opts...)...),
		provider:    provider,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Complete sends the preamble as the system message and userText verbatim
// as the user message.
func (c *openaiCompleter) Complete(ctx context.Context, preamble, userText string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(preamble),
			openai.UserMessage(userText),
		},
		Temperature: openai.Float(c.temperature),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)
	if err != nil {
		slog.WarnContext(ctx, "chat completion failed",
			"provider", c.provider,
			"model", c.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", wrapError(err, c.provider, c.model)
	}

	if len(resp.Choices) == 0 {
		return "", wrapError(errEmptyCompletion, c.provider, c.model)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", wrapError(errEmptyCompletion, c.provider, c.model)
	}

	slog.DebugContext(ctx, "chat completion completed",
		"provider", c.provider,
		"model", c.model,
		"input_tokens", resp.Usage.PromptTokens,
		"output_tokens", resp.Usage.CompletionTokens,
		"duration_ms", duration.Milliseconds())
	return text, nil
}

func (c *openaiCompleter) Provider() Provider { return c.provider }

func (c *openaiCompleter) Model() string { return c.model }

// Close is a no-op; the openai-go client holds no resources.
func (c *openaiCompleter) Close() error { return nil }
