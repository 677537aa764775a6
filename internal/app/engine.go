package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/garyellow/askhr-go/internal/bot"
	"github.com/garyellow/askhr-go/internal/config"
	"github.com/garyellow/askhr-go/internal/dispatch"
	domerrors "github.com/garyellow/askhr-go/internal/errors"
	"github.com/garyellow/askhr-go/internal/genai"
	"github.com/garyellow/askhr-go/internal/hr"
	"github.com/garyellow/askhr-go/internal/intent"
	"github.com/garyellow/askhr-go/internal/logger"
	"github.com/garyellow/askhr-go/internal/metrics"
	"github.com/garyellow/askhr-go/internal/objstore"
	"github.com/garyellow/askhr-go/internal/rag"
	"github.com/garyellow/askhr-go/internal/ratelimit"
	"github.com/garyellow/askhr-go/internal/source"
	"github.com/garyellow/askhr-go/internal/storage"
)

// Engine is the assembled query pipeline over one snapshot of the data.
// The server and the CLI both build one.
type Engine struct {
	Catalog    *intent.Catalog
	Directory  *hr.Directory
	Corpus     *hr.Corpus
	Matcher    *intent.Matcher
	Index      *rag.PolicyIndex // nil unless fallback policy context is on
	Gateway    *genai.Gateway   // nil without a usable provider
	Limiter    *ratelimit.KeyedLimiter
	Dispatcher *dispatch.Dispatcher
	Processor  *bot.Processor

	// Warnings are the row problems found while importing records.
	Warnings []source.Warning
}

// EngineDeps are the shared resources an Engine is built on.
type EngineDeps struct {
	DB     *storage.DB
	Logger *logger.Logger
	// Metrics may be nil (CLI use).
	Metrics *metrics.Metrics
}

// NewFetcher returns the object store client when R2 is enabled, otherwise
// the local file system.
func NewFetcher(ctx context.Context, cfg *config.Config) (source.Fetcher, error) {
	if !cfg.R2.Enabled {
		return source.Files{}, nil
	}
	client, err := objstore.New(ctx, objstore.Config{
		Endpoint:    objstore.Endpoint(cfg.R2.AccountID),
		AccessKeyID: cfg.R2.AccessKeyID,
		SecretKey:   cfg.R2.SecretAccessKey,
		BucketName:  cfg.R2.BucketName,
	})
	if err != nil {
		return nil, fmt.Errorf("object store: %w", err)
	}
	return client, nil
}

// ImportData loads the configured files and replaces the stored employee
// records and credentials with them. The parsed dataset is returned so the
// caller can use the policy sections, which are kept in memory only.
func ImportData(ctx context.Context, cfg *config.Config, db *storage.DB, titles []string, log *logger.Logger) (*source.Dataset, error) {
	if cfg.RecordsPath == "" && cfg.CredentialsPath == "" && cfg.PolicyPath == "" {
		return &source.Dataset{}, nil
	}

	fetcher, err := NewFetcher(ctx, cfg)
	if err != nil {
		return nil, err
	}

	loadCtx, cancel := context.WithTimeout(ctx, config.DataLoad)
	defer cancel()

	ds, err := source.Load(loadCtx, fetcher, source.Options{
		RecordsPath:     cfg.RecordsPath,
		CredentialsPath: cfg.CredentialsPath,
		PolicyPath:      cfg.PolicyPath,
		PolicyTitles:    titles,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}

	if ds.Records != nil {
		if err := db.ReplaceEmployees(ctx, ds.Records.Columns, ds.Records.Records); err != nil {
			return nil, domerrors.Op{Module: "storage", Name: "import_records"}.
				Wrap(err, "could not save employee records to the database")
		}
	}
	if ds.Credentials != nil {
		if err := db.ReplaceCredentials(ctx, ds.Credentials); err != nil {
			return nil, domerrors.Op{Module: "storage", Name: "import_credentials"}.
				Wrap(err, "could not save credentials to the database")
		}
	}
	return ds, nil
}

// NewEngine imports the configured data and assembles the pipeline.
func NewEngine(ctx context.Context, cfg *config.Config, deps EngineDeps) (*Engine, error) {
	log := deps.Logger

	catalog, err := intent.LoadCatalog(cfg.KeywordsPath)
	if err != nil {
		return nil, err
	}

	ds, err := ImportData(ctx, cfg, deps.DB, catalog.SectionTitles(), log)
	if err != nil {
		return nil, err
	}

	columns, records, err := deps.DB.LoadEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	dir, err := hr.NewDirectory(records, columns)
	if err != nil {
		return nil, fmt.Errorf("employee directory: %w", err)
	}
	corpus, err := hr.NewCorpus(ds.Policy)
	if err != nil {
		return nil, fmt.Errorf("policy corpus: %w", err)
	}
	if dir.Len() == 0 {
		log.Warn("No employee records loaded; lookups and statistics will be empty")
	}
	if corpus.Len() == 0 {
		log.Warn("No policy document loaded; policy questions will not match")
	}

	e := &Engine{
		Catalog:   catalog,
		Directory: dir,
		Corpus:    corpus,
	}
	if ds.Records != nil {
		e.Warnings = ds.Records.Warnings
	}

	e.Matcher = intent.NewMatcher(catalog, intent.Context{
		Columns:      dir.Columns(),
		PolicyTitles: corpus.Titles(),
		People:       dir.People(),
		Entities:     dir.Entities(),
	})
	if unmapped := e.Matcher.UnmappedSections(); len(unmapped) > 0 {
		log.WithField("sections", unmapped).Warn("Policy sections without catalog keywords")
	}

	if cfg.FallbackPolicyContext {
		if e.Index, err = rag.NewPolicyIndex(corpus.Sections(), log); err != nil {
			log.WithError(err).Warn("Policy index unavailable; fallback answers get no policy context")
			e.Index = nil
		}
	}

	if cfg.HasLLMProvider() {
		var recorder genai.Recorder
		if deps.Metrics != nil {
			recorder = deps.Metrics
		}
		if e.Gateway, err = genai.NewFromConfig(ctx, BuildGatewayConfig(cfg), recorder); err != nil {
			log.WithError(err).Warn("Completion gateway initialization failed")
			e.Gateway = nil
		} else {
			log.WithField("providers", e.Gateway.Providers()).Info("Completion gateway enabled")
		}
	}

	var reporter ratelimit.Reporter
	if deps.Metrics != nil {
		reporter = deps.Metrics
	}
	e.Limiter = ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:          "llm",
		Burst:         cfg.LLMRateBurst,
		RefillRate:    cfg.LLMRefillPerHour / 3600.0, // Convert hourly to per-second
		DailyLimit:    cfg.LLMDailyLimit,
		CleanupPeriod: config.RateLimiterCleanupInterval,
		Reporter:      reporter,
	})

	dcfg := dispatch.Config{
		Directory:      dir,
		Corpus:         corpus,
		Limiter:        e.Limiter,
		CompanyName:    cfg.CompanyName,
		GatewayTimeout: cfg.GatewayTimeout,
		Logger:         log,
	}
	if e.Gateway != nil {
		dcfg.Gateway = e.Gateway
	}
	if e.Index != nil {
		dcfg.Ranker = e.Index
	}
	e.Dispatcher = dispatch.New(dcfg)

	e.Processor = bot.NewProcessor(bot.ProcessorConfig{
		Classifier:   e.Matcher,
		Answerer:     e.Dispatcher,
		Logger:       log,
		Metrics:      deps.Metrics,
		QueryTimeout: cfg.QueryTimeout,
	})

	log.WithField("employees", dir.Len()).
		WithField("columns", len(dir.Columns())).
		WithField("sections", corpus.Len()).
		WithField("policy_context", e.Index != nil).
		WithField("gateway", e.Gateway.Enabled()).
		Info("Query engine ready")
	return e, nil
}

// Close releases the gateway clients and stops the limiter.
func (e *Engine) Close() error {
	var errs []error
	if e.Gateway != nil {
		if err := e.Gateway.Close(); err != nil {
			errs = append(errs, fmt.Errorf("gateway: %w", err))
		}
	}
	if e.Limiter != nil {
		e.Limiter.Stop()
	}
	return errors.Join(errs...)
}

// BuildGatewayConfig maps the environment settings onto the gateway
// configuration. Unknown provider names were rejected by config validation.
func BuildGatewayConfig(cfg *config.Config) genai.Config {
	gc := genai.Config{
		OpenAI:   genai.ProviderConfig{APIKey: cfg.LLM.OpenAIAPIKey, Models: cfg.LLM.OpenAIModels},
		Gemini:   genai.ProviderConfig{APIKey: cfg.LLM.GeminiAPIKey, Models: cfg.LLM.GeminiModels},
		Groq:     genai.ProviderConfig{APIKey: cfg.LLM.GroqAPIKey, Models: cfg.LLM.GroqModels},
		Cerebras: genai.ProviderConfig{APIKey: cfg.LLM.CerebrasAPIKey, Models: cfg.LLM.CerebrasModels},
		Retry:    genai.DefaultRetryConfig(),
	}
	for _, p := range cfg.LLM.Providers {
		gc.Providers = append(gc.Providers, genai.Provider(p))
	}
	if len(gc.Providers) == 0 {
		gc.Providers = genai.DefaultProviders
	}
	return gc
}
