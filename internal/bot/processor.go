// Package bot turns a raw employee question into a Response: it validates
// the text, classifies it, dispatches it and records what happened.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/garyellow/askhr-go/internal/config"
	"github.com/garyellow/askhr-go/internal/ctxutil"
	"github.com/garyellow/askhr-go/internal/dispatch"
	"github.com/garyellow/askhr-go/internal/intent"
	"github.com/garyellow/askhr-go/internal/logger"
	"github.com/garyellow/askhr-go/internal/metrics"
	"github.com/garyellow/askhr-go/internal/sentry"
)

// Classifier maps a query to an intent. *intent.Matcher satisfies it.
type Classifier interface {
	Match(raw, languageHint string) intent.Match
}

// Answerer answers a classified query. *dispatch.Dispatcher satisfies it.
type Answerer interface {
	Dispatch(ctx context.Context, m intent.Match, session dispatch.Session) dispatch.Response
}

// Processor is the single entry point shared by the HTTP API and the CLI.
type Processor struct {
	classifier   Classifier
	answerer     Answerer
	logger       *logger.Logger
	metrics      *metrics.Metrics
	queryTimeout time.Duration
}

// ProcessorConfig holds configuration for creating a new Processor.
type ProcessorConfig struct {
	Classifier Classifier
	Answerer   Answerer
	Logger     *logger.Logger
	// Metrics may be nil (CLI use).
	Metrics *metrics.Metrics
	// QueryTimeout bounds one query; zero disables the deadline.
	QueryTimeout time.Duration
}

// NewProcessor creates a new query processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	return &Processor{
		classifier:   cfg.Classifier,
		answerer:     cfg.Answerer,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		queryTimeout: cfg.QueryTimeout,
	}
}

// Ask answers one query for the given session. It never fails: every
// problem, a panic in classification included, is reported as a not_found
// Response.
func (p *Processor) Ask(ctx context.Context, query string, session dispatch.Session) (resp dispatch.Response) {
	start := time.Now()
	lang := intent.LangEnglish
	if session.Language == intent.LangArabic {
		lang = intent.LangArabic
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithField("panic", fmt.Sprint(r)).
				ErrorContext(ctx, "Recovered panic while answering query")
			sentry.CapturePanic(ctx, r, "bot.ask")
			resp = p.finish(start, intent.KindGeneral, dispatch.NewNotFound(query, lang, dispatch.ReasonInternal))
		}
	}()

	text := normalizeWhitespace(query)
	lang = intent.DetectLanguage(text, session.Language)

	if text == "" {
		return p.finish(start, intent.KindGeneral, dispatch.NewNotFound(query, lang, dispatch.ReasonEmptyQuery))
	}
	if n := utf8.RuneCountInString(text); n > config.MaxQueryRunes {
		p.logger.WithField("query_runes", n).Warn("Query too long")
		return p.finish(start, intent.KindGeneral,
			dispatch.NewNotFound(query, lang, dispatch.ReasonQueryTooLong, config.MaxQueryRunes))
	}

	ctx = ctxutil.WithEmployeeCode(ctx, session.EmployeeCode)
	ctx = ctxutil.WithLanguage(ctx, lang)

	processCtx := ctxutil.PreserveTracing(ctx)
	if p.queryTimeout > 0 {
		var cancel context.CancelFunc
		processCtx, cancel = context.WithTimeout(processCtx, p.queryTimeout)
		defer cancel()
	}

	match := p.classifier.Match(text, session.Language)
	p.logger.WithField("intent", string(match.Kind)).
		WithField("stage", match.Stage).
		WithField("language", match.Language).
		Debug("Query classified")

	resp = p.answerer.Dispatch(processCtx, match, session)
	return p.finish(start, match.Kind, resp)
}

func (p *Processor) finish(start time.Time, kind intent.Kind, resp dispatch.Response) dispatch.Response {
	duration := time.Since(start)
	if p.metrics != nil {
		p.metrics.RecordQuery(string(kind), duration.Seconds())
		p.metrics.RecordResponse(string(resp.Kind))
	}

	log := p.logger.WithField("intent", string(kind)).
		WithField("response", string(resp.Kind)).
		WithField("duration_ms", duration.Milliseconds())
	if resp.NotFound != nil {
		log = log.WithField("reason", string(resp.NotFound.Reason))
	}
	log.Info("Query answered")
	return resp
}

// normalizeWhitespace trims the query and collapses whitespace runs,
// including newlines, to single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
