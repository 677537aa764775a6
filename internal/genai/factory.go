package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// NewFromConfig builds the gateway chain: every model of every configured
// provider, in provider order. A gateway with no provider is valid and
// always fails with a GatewayError.
func NewFromConfig(ctx context.Context, cfg Config, recorder Recorder) (*Gateway, error) {
	var chain []Completer
	var errs []error

	for _, p := range cfg.ConfiguredProviders() {
		pc := cfg.Get(p)
		models := pc.Models
		if len(models) == 0 {
			models = defaultModels(p)
		}
		for _, m := range models {
			c, err := newCompleter(ctx, p, pc.APIKey, m, cfg)
			if err != nil {
				slog.WarnContext(ctx, "failed to create completer", "provider", p, "model", m, "error", err)
				errs = append(errs, err)
				continue
			}
			chain = append(chain, c)
		}
	}

	if len(chain) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("no usable completion provider: %w", errors.Join(errs...))
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryConfig()
	}
	return NewGateway(chain, cfg.Retry, recorder), nil
}

func newCompleter(ctx context.Context, p Provider, apiKey, model string, cfg Config) (Completer, error) {
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	switch {
	case p == ProviderGemini:
		return newGeminiCompleter(ctx, apiKey, model, temperature, maxTokens)
	case p.IsOpenAICompatible():
		return newOpenAICompleter(p, apiKey, model, temperature, maxTokens)
	default:
		return nil, fmt.Errorf("unknown provider: %s", p)
	}
}

func defaultModels(p Provider) []string {
	switch p {
	case ProviderOpenAI:
		return DefaultOpenAIModels
	case ProviderGemini:
		return DefaultGeminiModels
	case ProviderGroq:
		return DefaultGroqModels
	case ProviderCerebras:
		return DefaultCerebrasModels
	default:
		return nil
	}
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  DefaultMaxRetryAttempts,
		InitialDelay: DefaultInitialRetryDelay,
		MaxDelay:     DefaultMaxRetryDelay,
	}
}
