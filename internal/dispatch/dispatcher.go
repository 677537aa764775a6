package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/garyellow/askhr-go/internal/analytics"
	"github.com/garyellow/askhr-go/internal/config"
	domerrors "github.com/garyellow/askhr-go/internal/errors"
	"github.com/garyellow/askhr-go/internal/genai"
	"github.com/garyellow/askhr-go/internal/hr"
	"github.com/garyellow/askhr-go/internal/intent"
	"github.com/garyellow/askhr-go/internal/logger"
	"github.com/garyellow/askhr-go/internal/rag"
	"github.com/garyellow/askhr-go/internal/sentry"
)

// pieMaxCategories is the largest flat table drawn as a pie.
const pieMaxCategories = 6

// PublicColumns are shown when one employee looks up another. Compensation,
// leave and social-security fields are only ever returned to their owner.
var PublicColumns = []string{
	hr.ColCode, hr.ColFullName, hr.ColEntity, hr.ColJobTitle,
	hr.ColGrade, hr.ColBand, hr.ColNationality, hr.ColJoiningDate,
}

// Gateway answers general questions. *genai.Gateway satisfies it.
type Gateway interface {
	Enabled() bool
	Complete(ctx context.Context, preamble, userText string) (string, error)
}

// PolicyRanker ranks policy sections against a query. *rag.PolicyIndex
// satisfies it.
type PolicyRanker interface {
	Search(query string, topN int) ([]rag.Hit, error)
}

// Limiter admits gateway calls per employee. *ratelimit.KeyedLimiter
// satisfies it.
type Limiter interface {
	Allow(key string) bool
}

// Session identifies the caller of one query.
type Session struct {
	EmployeeCode string
	Language     string
}

// Config wires a Dispatcher. Directory and Corpus are required; everything
// else is optional.
type Config struct {
	Directory *hr.Directory
	Corpus    *hr.Corpus
	Gateway   Gateway
	// Ranker attaches policy excerpts to fallback preambles when set.
	Ranker         PolicyRanker
	Limiter        Limiter
	CompanyName    string
	GatewayTimeout time.Duration
	Logger         *logger.Logger
}

// Dispatcher answers classified queries against the shared, read-only data.
// It is safe for concurrent use.
type Dispatcher struct {
	dir            *hr.Directory
	corpus         *hr.Corpus
	engine         *analytics.Engine
	gateway        Gateway
	ranker         PolicyRanker
	limiter        Limiter
	company        string
	gatewayTimeout time.Duration
	logger         *logger.Logger
}

// New creates a Dispatcher.
func New(cfg Config) *Dispatcher {
	log := cfg.Logger
	if log == nil {
		log = logger.New("error")
	}
	return &Dispatcher{
		dir:            cfg.Directory,
		corpus:         cfg.Corpus,
		engine:         analytics.NewEngine(cfg.Directory),
		gateway:        cfg.Gateway,
		ranker:         cfg.Ranker,
		limiter:        cfg.Limiter,
		company:        cfg.CompanyName,
		gatewayTimeout: cfg.GatewayTimeout,
		logger:         log.WithModule("dispatch"),
	}
}

// Dispatch answers m for session.
func (d *Dispatcher) Dispatch(ctx context.Context, m intent.Match, session Session) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithField("intent", m.Kind).
				WithField("panic", fmt.Sprint(r)).
				ErrorContext(ctx, "Recovered panic in dispatcher")
			sentry.CapturePanic(ctx, r, "dispatch."+string(m.Kind))
			resp = d.notFound(m, ReasonInternal)
		}
	}()

	switch m.Kind {
	case intent.KindFixedAnswer:
		return d.base(m, KindFixedAnswer, func(r *Response) {
			r.FixedAnswer = &FixedAnswer{ID: m.FixedAnswerID, Text: m.FixedAnswer}
		})
	case intent.KindEmployeeLookup:
		return d.employeeLookup(m)
	case intent.KindSelfService:
		return d.selfService(m, session)
	case intent.KindPolicySection:
		return d.policySection(m)
	case intent.KindPolicyList:
		return d.policyList(m)
	case intent.KindAggregation:
		return d.aggregate(m)
	case intent.KindHeadcount:
		return d.headcount(m)
	default:
		return d.general(ctx, m, session)
	}
}

func (d *Dispatcher) base(m intent.Match, kind Kind, fill func(*Response)) Response {
	r := Response{Kind: kind, Intent: m.Kind, Query: m.Query, Language: m.Language}
	fill(&r)
	return r
}

func (d *Dispatcher) notFound(m intent.Match, reason Reason, args ...any) Response {
	return d.base(m, KindNotFound, func(r *Response) {
		r.NotFound = &NotFound{Reason: reason, Message: Message(reason, m.Language, args...)}
	})
}

// selfService projects the caller's own record. The matched employee, if
// any, is irrelevant here.
func (d *Dispatcher) selfService(m intent.Match, session Session) Response {
	rec, ok := d.dir.Lookup(session.EmployeeCode)
	if !ok {
		return d.notFound(m, ReasonNoRecord)
	}
	return d.base(m, KindFieldValue, func(r *Response) {
		r.FieldValue = &FieldValue{
			EmployeeCode: rec.Code,
			EmployeeName: rec.FullName,
			Category:     m.Category,
			Fields:       rec.Project(m.Columns),
		}
	})
}

func (d *Dispatcher) employeeLookup(m intent.Match) Response {
	rec, ok := d.dir.Lookup(m.EmployeeCode)
	if !ok || len(analytics.Filter([]hr.Record{rec}, m.Entity)) == 0 {
		return d.notFound(m, ReasonNoRecord)
	}

	var columns []string
	for _, c := range PublicColumns {
		if _, ok := d.dir.HasColumn(c); ok {
			columns = append(columns, c)
		}
	}
	return d.base(m, KindFieldValue, func(r *Response) {
		r.FieldValue = &FieldValue{
			EmployeeCode: rec.Code,
			EmployeeName: rec.FullName,
			Fields:       rec.Project(columns),
		}
	})
}

func (d *Dispatcher) policySection(m intent.Match) Response {
	s, ok := d.corpus.Section(m.SectionTitle)
	if !ok {
		return d.notFound(m, ReasonNoMatch)
	}
	return d.base(m, KindPolicyText, func(r *Response) {
		r.Policy = &PolicyText{Title: s.Title, Ordinal: s.Ordinal, Body: s.Body}
	})
}

// policyList lists numbered sections only; front matter is left out.
func (d *Dispatcher) policyList(m intent.Match) Response {
	numbered := d.corpus.Numbered()
	list := &SectionList{Sections: make([]SectionPreview, 0, len(numbered))}
	for _, s := range numbered {
		list.Sections = append(list.Sections, SectionPreview{
			Title:   s.Title,
			Ordinal: s.Ordinal,
			Preview: Truncate(s.Body, config.MaxSectionPreviewRunes),
		})
	}
	return d.base(m, KindSectionList, func(r *Response) { r.Sections = list })
}

func (d *Dispatcher) aggregate(m intent.Match) Response {
	records := analytics.Filter(d.dir.Records(), m.Entity)
	res, err := d.engine.Aggregate(records, m.Column, analytics.Options{
		Bins:     analytics.DefaultBins(m.Column),
		Top:      m.Top,
		ByEntity: m.ByEntity,
		Entity:   m.Entity,
	})
	if err != nil {
		var cfgErr *domerrors.ConfigurationError
		if errors.As(err, &cfgErr) {
			d.logger.WithField("column", cfgErr.Column).Warn("Aggregation on unavailable column")
			return d.notFound(m, ReasonUnknownColumn, cfgErr.Column, strings.Join(cfgErr.Available, ", "))
		}
		d.logger.WithError(err).Error("Aggregation failed")
		return d.notFound(m, ReasonInternal)
	}

	return d.base(m, KindAggregationTable, func(r *Response) {
		r.Table = &AggregationTable{Result: res, Chart: chartFor(res)}
	})
}

// headcount reports the size of the scoped record set. An unknown entity
// is a zero count.
func (d *Dispatcher) headcount(m intent.Match) Response {
	n := analytics.Headcount(analytics.Filter(d.dir.Records(), m.Entity))
	label := m.Entity
	if label == "" {
		label = "Total"
	}
	return d.base(m, KindAggregationTable, func(r *Response) {
		r.Table = &AggregationTable{
			Result: analytics.Result{
				Entity:   m.Entity,
				Counts:   []analytics.Count{{Label: label, Count: n}},
				Total:    n,
				Distinct: 1,
			},
			Chart:     ChartNone,
			Headcount: true,
		}
	})
}

// general forwards the raw query to the completion gateway. Any failure
// degrades to the apology message.
func (d *Dispatcher) general(ctx context.Context, m intent.Match, session Session) Response {
	if d.gateway == nil || !d.gateway.Enabled() {
		return d.notFound(m, ReasonGatewayUnavailable)
	}
	if d.limiter != nil && !d.limiter.Allow(session.EmployeeCode) {
		d.logger.WithField("employee_code", session.EmployeeCode).Warn("Gateway rate limit exceeded")
		return d.notFound(m, ReasonRateLimited)
	}

	preamble := genai.BuildPreamble(d.company, m.Language, d.policyExcerpts(m.Query))

	callCtx := ctx
	if d.gatewayTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, d.gatewayTimeout)
		defer cancel()
	}

	start := time.Now()
	text, err := d.gateway.Complete(callCtx, preamble, m.Query)
	if err != nil {
		d.logger.WithError(err).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			WarnContext(ctx, "Completion gateway failed")
		if !errors.Is(err, context.Canceled) {
			sentry.CaptureException(ctx, err, "dispatch.general")
		}
		return d.notFound(m, ReasonGatewayUnavailable)
	}
	if strings.TrimSpace(text) == "" {
		return d.notFound(m, ReasonGatewayUnavailable)
	}

	return d.base(m, KindGeneralAnswer, func(r *Response) {
		r.Answer = &GeneralAnswer{Text: text}
	})
}

// policyExcerpts returns the top-ranked sections for query, each capped.
// Ranking failures only drop the excerpts.
func (d *Dispatcher) policyExcerpts(query string) []genai.PolicyExcerpt {
	if d.ranker == nil {
		return nil
	}
	hits, err := d.ranker.Search(query, config.MaxPolicyContextSections)
	if err != nil {
		d.logger.WithError(err).Warn("Policy ranking failed")
		return nil
	}
	excerpts := make([]genai.PolicyExcerpt, 0, len(hits))
	for _, h := range hits {
		excerpts = append(excerpts, genai.PolicyExcerpt{
			Title: h.Section.Title,
			Text:  Truncate(h.Section.Body, config.MaxPolicyContextRunes),
		})
	}
	return excerpts
}

func chartFor(res analytics.Result) ChartHint {
	switch {
	case res.CrossTab != nil:
		return ChartStackedBar
	case res.Binned:
		return ChartHistogram
	case len(res.Counts) == 0:
		return ChartNone
	case len(res.Counts) <= pieMaxCategories:
		return ChartPie
	default:
		return ChartBar
	}
}

// Truncate collapses whitespace and cuts s to at most n runes, marking a
// cut with an ellipsis.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
