// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "ASKHR_PORT"
	EnvLogLevel        = "ASKHR_LOG_LEVEL"
	EnvShutdownTimeout = "ASKHR_SHUTDOWN_TIMEOUT"
	EnvServerName      = "ASKHR_SERVER_NAME"

	// Data
	EnvDataDir         = "ASKHR_DATA_DIR"
	EnvRecordsPath     = "ASKHR_RECORDS_PATH"
	EnvCredentialsPath = "ASKHR_CREDENTIALS_PATH"
	EnvPolicyPath      = "ASKHR_POLICY_PATH"
	EnvKeywordsPath    = "ASKHR_KEYWORDS_PATH"
	EnvCompanyName     = "ASKHR_COMPANY_NAME"

	// Query
	EnvQueryTimeout          = "ASKHR_QUERY_TIMEOUT"
	EnvGatewayTimeout        = "ASKHR_GATEWAY_TIMEOUT"
	EnvFallbackPolicyContext = "ASKHR_FALLBACK_POLICY_CONTEXT"

	// Rate Limits (completion gateway, per employee)
	EnvLLMRateBurst  = "ASKHR_LLM_RATE_BURST"
	EnvLLMRateRefill = "ASKHR_LLM_RATE_REFILL"
	EnvLLMRateDaily  = "ASKHR_LLM_RATE_DAILY"

	// Completion Gateway
	EnvLLMProviders   = "ASKHR_LLM_PROVIDERS"
	EnvOpenAIAPIKey   = "ASKHR_OPENAI_API_KEY"
	EnvGeminiAPIKey   = "ASKHR_GEMINI_API_KEY"
	EnvGroqAPIKey     = "ASKHR_GROQ_API_KEY"
	EnvCerebrasAPIKey = "ASKHR_CEREBRAS_API_KEY"
	EnvOpenAIModels   = "ASKHR_OPENAI_MODELS"
	EnvGeminiModels   = "ASKHR_GEMINI_MODELS"
	EnvGroqModels     = "ASKHR_GROQ_MODELS"
	EnvCerebrasModels = "ASKHR_CEREBRAS_MODELS"

	// R2 Object Store
	EnvR2Enabled         = "ASKHR_R2_ENABLED"
	EnvR2AccountID       = "ASKHR_R2_ACCOUNT_ID"
	EnvR2AccessKeyID     = "ASKHR_R2_ACCESS_KEY_ID"
	EnvR2SecretAccessKey = "ASKHR_R2_SECRET_ACCESS_KEY"
	EnvR2BucketName      = "ASKHR_R2_BUCKET_NAME"

	// Sentry Feature
	EnvSentryDSN         = "ASKHR_SENTRY_DSN"
	EnvSentryEnvironment = "ASKHR_SENTRY_ENVIRONMENT"
	EnvSentryRelease     = "ASKHR_SENTRY_RELEASE"
	EnvSentrySampleRate  = "ASKHR_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "ASKHR_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "ASKHR_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsUsername = "ASKHR_METRICS_USERNAME"
	EnvMetricsPassword = "ASKHR_METRICS_PASSWORD"
)
