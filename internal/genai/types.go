// Package genai is the completion gateway: a stateless text-in/text-out
// client over several LLM providers.
//
// Providers:
//   - OpenAI, Groq, Cerebras: github.com/openai/openai-go/v3 (OpenAI-compatible API)
//   - Gemini: google.golang.org/genai
//
// Fallback layers:
//  1. Retry: the same model is retried with exponential backoff
//  2. Model chain: next model in the provider's model list
//  3. Provider chain: next provider in the configured order
package genai

import (
	"context"
	"time"
)

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderOpenAI is the OpenAI API.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is Google's Gemini API (not OpenAI-compatible).
	ProviderGemini Provider = "gemini"
	// ProviderGroq is Groq's OpenAI-compatible API.
	ProviderGroq Provider = "groq"
	// ProviderCerebras is Cerebras's OpenAI-compatible API.
	ProviderCerebras Provider = "cerebras"
)

// ProviderEndpoint is the base URL of each OpenAI-compatible provider.
var ProviderEndpoint = map[Provider]string{
	ProviderOpenAI:   "https://api.openai.com/v1/",
	ProviderGroq:     "https://api.groq.com/openai/v1/",
	ProviderCerebras: "https://api.cerebras.ai/v1/",
}

// IsOpenAICompatible returns true if the provider uses the OpenAI API shape.
func (p Provider) IsOpenAICompatible() bool {
	_, ok := ProviderEndpoint[p]
	return ok
}

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// Completer answers a user message under a system preamble. Implementations
// are bound to one provider and model.
type Completer interface {
	Complete(ctx context.Context, preamble, userText string) (string, error)
	Provider() Provider
	Model() string
	Close() error
}

// Recorder receives gateway metrics. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordGateway(provider, status string, duration float64)
	RecordGatewayFallback(from, to string)
}

// RetryConfig defines retry behavior for a single model.
// Uses AWS-recommended Full Jitter exponential backoff.
type RetryConfig struct {
	// MaxAttempts includes the initial attempt.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// ProviderConfig holds one provider's key and model chain.
type ProviderConfig struct {
	APIKey string
	// Models is tried in order; the first is primary.
	Models []string
}

// Config holds configuration for all providers.
type Config struct {
	// Providers is the fallback order. Providers without a key are skipped.
	Providers []Provider

	OpenAI   ProviderConfig
	Gemini   ProviderConfig
	Groq     ProviderConfig
	Cerebras ProviderConfig

	Retry RetryConfig

	Temperature float64
	MaxTokens   int
}

// Default model chains.
var (
	DefaultOpenAIModels   = []string{"gpt-4o", "gpt-4o-mini"}
	DefaultGeminiModels   = []string{"gemini-2.5-flash", "gemini-2.5-flash-lite"}
	DefaultGroqModels     = []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"}
	DefaultCerebrasModels = []string{"llama-3.3-70b", "llama-3.1-8b"}

	DefaultProviders = []Provider{ProviderOpenAI, ProviderGemini, ProviderGroq, ProviderCerebras}
)

// Defaults.
const (
	DefaultMaxRetryAttempts  = 2
	DefaultInitialRetryDelay = 500 * time.Millisecond
	DefaultMaxRetryDelay     = 3 * time.Second

	// DefaultTemperature keeps HR answers conservative.
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 800
)

// Get returns the configuration for a provider, or nil if unknown.
func (c *Config) Get(p Provider) *ProviderConfig {
	switch p {
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGemini:
		return &c.Gemini
	case ProviderGroq:
		return &c.Groq
	case ProviderCerebras:
		return &c.Cerebras
	default:
		return nil
	}
}

// HasProvider returns true if the provider has an API key.
func (c *Config) HasProvider(p Provider) bool {
	pc := c.Get(p)
	return pc != nil && pc.APIKey != ""
}

// HasAnyProvider returns true if at least one listed provider has a key.
func (c *Config) HasAnyProvider() bool {
	return len(c.ConfiguredProviders()) > 0
}

// ConfiguredProviders returns the providers with API keys, in c.Providers
// order and without duplicates.
func (c *Config) ConfiguredProviders() []Provider {
	seen := make(map[Provider]bool, len(c.Providers))
	result := make([]Provider, 0, len(c.Providers))
	for _, p := range c.Providers {
		if seen[p] || !c.HasProvider(p) {
			continue
		}
		seen[p] = true
		result = append(result, p)
	}
	return result
}
