// Package config provides application configuration management.
// It loads settings from environment variables (optionally via a .env file)
// and provides defaults for the server, data sources, completion gateway and
// observability integrations.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	ServerName      string

	// Data Configuration
	DataDir         string // Directory holding the SQLite database
	RecordsPath     string // Employee CSV imported at start (empty = use DB as-is)
	CredentialsPath string // code,pin CSV imported at start
	PolicyPath      string // Policy document (.txt/.md or .html/.htm)
	KeywordsPath    string // Keyword catalog override (empty = embedded default)
	CompanyName     string // Company named in the assistant persona

	// Query Configuration
	QueryTimeout          time.Duration
	GatewayTimeout        time.Duration
	FallbackPolicyContext bool // Attach ranked policy excerpts to fallback prompts

	// Completion Gateway
	LLM LLMConfig

	// Rate limit for completion calls, per employee
	LLMRateBurst     float64
	LLMRefillPerHour float64
	LLMDailyLimit    int

	// R2 Object Store (data paths become object keys)
	R2 R2Config

	// Sentry
	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string
	SentrySampleRate  float64

	// Better Stack log shipping
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics Basic Auth (empty = no auth)
}

// LLMConfig holds completion provider settings as read from the environment.
type LLMConfig struct {
	Providers      []string
	OpenAIAPIKey   string
	GeminiAPIKey   string
	GroqAPIKey     string
	CerebrasAPIKey string
	OpenAIModels   []string
	GeminiModels   []string
	GroqModels     []string
	CerebrasModels []string
}

// R2Config holds Cloudflare R2 credentials.
type R2Config struct {
	Enabled         bool
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
}

var knownProviders = map[string]bool{
	"openai":   true,
	"gemini":   true,
	"groq":     true,
	"cerebras": true,
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),
		ServerName:      getEnv(EnvServerName, hostname()),

		DataDir:         getEnv(EnvDataDir, getDefaultDataDir()),
		RecordsPath:     getEnv(EnvRecordsPath, ""),
		CredentialsPath: getEnv(EnvCredentialsPath, ""),
		PolicyPath:      getEnv(EnvPolicyPath, ""),
		KeywordsPath:    getEnv(EnvKeywordsPath, ""),
		CompanyName:     getEnv(EnvCompanyName, DefaultCompanyName),

		QueryTimeout:          getDurationEnv(EnvQueryTimeout, QueryProcessing),
		GatewayTimeout:        getDurationEnv(EnvGatewayTimeout, GatewayCall),
		FallbackPolicyContext: getBoolEnv(EnvFallbackPolicyContext, false),

		LLM: LLMConfig{
			Providers:      getListEnv(EnvLLMProviders, []string{"openai", "gemini", "groq", "cerebras"}),
			OpenAIAPIKey:   getEnv(EnvOpenAIAPIKey, ""),
			GeminiAPIKey:   getEnv(EnvGeminiAPIKey, ""),
			GroqAPIKey:     getEnv(EnvGroqAPIKey, ""),
			CerebrasAPIKey: getEnv(EnvCerebrasAPIKey, ""),
			OpenAIModels:   getListEnv(EnvOpenAIModels, nil),
			GeminiModels:   getListEnv(EnvGeminiModels, nil),
			GroqModels:     getListEnv(EnvGroqModels, nil),
			CerebrasModels: getListEnv(EnvCerebrasModels, nil),
		},

		LLMRateBurst:     getFloatEnv(EnvLLMRateBurst, 20),
		LLMRefillPerHour: getFloatEnv(EnvLLMRateRefill, 10),
		LLMDailyLimit:    getIntEnv(EnvLLMRateDaily, 100),

		R2: R2Config{
			Enabled:         getBoolEnv(EnvR2Enabled, false),
			AccountID:       getEnv(EnvR2AccountID, ""),
			AccessKeyID:     getEnv(EnvR2AccessKeyID, ""),
			SecretAccessKey: getEnv(EnvR2SecretAccessKey, ""),
			BucketName:      getEnv(EnvR2BucketName, ""),
		},

		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentryRelease:     getEnv(EnvSentryRelease, ""),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	} else if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a valid TCP port, got %q", c.Port))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("DATA_DIR is required"))
	}
	if c.QueryTimeout <= 0 {
		errs = append(errs, fmt.Errorf("QUERY_TIMEOUT must be positive, got %v", c.QueryTimeout))
	}
	if c.GatewayTimeout <= 0 {
		errs = append(errs, fmt.Errorf("GATEWAY_TIMEOUT must be positive, got %v", c.GatewayTimeout))
	} else if c.QueryTimeout > 0 && c.GatewayTimeout > c.QueryTimeout {
		errs = append(errs, fmt.Errorf("GATEWAY_TIMEOUT (%v) must not exceed QUERY_TIMEOUT (%v)", c.GatewayTimeout, c.QueryTimeout))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.ShutdownTimeout))
	}
	for _, p := range c.LLM.Providers {
		if !knownProviders[p] {
			errs = append(errs, fmt.Errorf("LLM_PROVIDERS: unknown provider %q", p))
		}
	}
	if c.LLMRateBurst <= 0 {
		errs = append(errs, fmt.Errorf("LLM_RATE_BURST must be positive, got %v", c.LLMRateBurst))
	}
	if c.LLMRefillPerHour < 0 {
		errs = append(errs, fmt.Errorf("LLM_RATE_REFILL cannot be negative, got %v", c.LLMRefillPerHour))
	}
	if c.LLMDailyLimit < 0 {
		errs = append(errs, fmt.Errorf("LLM_RATE_DAILY cannot be negative, got %d", c.LLMDailyLimit))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("SENTRY_SAMPLE_RATE must be within [0,1], got %v", c.SentrySampleRate))
	}
	if c.R2.Enabled {
		if c.R2.AccountID == "" || c.R2.AccessKeyID == "" || c.R2.SecretAccessKey == "" || c.R2.BucketName == "" {
			errs = append(errs, errors.New("R2_ENABLED requires R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY and R2_BUCKET_NAME"))
		}
	}

	return errors.Join(errs...)
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "askhr.db")
}

// HasLLMProvider returns true if at least one listed provider has an API key.
func (c *Config) HasLLMProvider() bool {
	for _, p := range c.LLM.Providers {
		if c.LLM.APIKey(p) != "" {
			return true
		}
	}
	return false
}

// APIKey returns the key configured for a provider name.
func (l LLMConfig) APIKey(provider string) string {
	switch provider {
	case "openai":
		return l.OpenAIAPIKey
	case "gemini":
		return l.GeminiAPIKey
	case "groq":
		return l.GroqAPIKey
	case "cerebras":
		return l.CerebrasAPIKey
	}
	return ""
}

// Models returns the configured model override for a provider name (nil = defaults).
func (l LLMConfig) Models(provider string) []string {
	switch provider {
	case "openai":
		return l.OpenAIModels
	case "gemini":
		return l.GeminiModels
	case "groq":
		return l.GroqModels
	case "cerebras":
		return l.CerebrasModels
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated variable, dropping blanks and lower-casing.
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "askhr"
}
