// Package dispatch turns a classified query into a Response. Every failure
// mode (missing column, unknown employee, gateway error, panic) resolves to a
// well-formed Response; nothing is returned as an error.
package dispatch

import (
	"github.com/garyellow/askhr-go/internal/analytics"
	"github.com/garyellow/askhr-go/internal/hr"
	"github.com/garyellow/askhr-go/internal/intent"
)

// Kind tags the Response variant.
type Kind string

// Response kinds.
const (
	KindFixedAnswer      Kind = "fixed_answer"
	KindFieldValue       Kind = "field_value"
	KindAggregationTable Kind = "aggregation_table"
	KindPolicyText       Kind = "policy_text"
	KindSectionList      Kind = "section_list"
	KindGeneralAnswer    Kind = "general_answer"
	KindNotFound         Kind = "not_found"
)

// Reason explains a NotFound response.
type Reason string

// NotFound reasons.
const (
	ReasonNoRecord           Reason = "no_record"
	ReasonUnknownColumn      Reason = "unknown_column"
	ReasonGatewayUnavailable Reason = "gateway_unavailable"
	ReasonRateLimited        Reason = "rate_limited"
	ReasonNoMatch            Reason = "no_match"
	ReasonEmptyQuery         Reason = "empty_query"
	ReasonQueryTooLong       Reason = "query_too_long"
	ReasonInternal           Reason = "internal_error"
)

// ChartHint suggests how a table is best drawn.
type ChartHint string

// Chart hints.
const (
	ChartNone       ChartHint = "none"
	ChartBar        ChartHint = "bar"
	ChartPie        ChartHint = "pie"
	ChartHistogram  ChartHint = "histogram"
	ChartStackedBar ChartHint = "stacked_bar"
)

// Response is a tagged union: Kind says which payload pointer is set.
type Response struct {
	Kind     Kind        `json:"kind"`
	Intent   intent.Kind `json:"intent"`
	Query    string      `json:"query"`
	Language string      `json:"language"`

	FixedAnswer *FixedAnswer      `json:"fixed_answer,omitempty"`
	FieldValue  *FieldValue       `json:"field_value,omitempty"`
	Table       *AggregationTable `json:"table,omitempty"`
	Policy      *PolicyText       `json:"policy,omitempty"`
	Sections    *SectionList      `json:"sections,omitempty"`
	Answer      *GeneralAnswer    `json:"answer,omitempty"`
	NotFound    *NotFound         `json:"not_found,omitempty"`
}

// FixedAnswer is a canned reply.
type FixedAnswer struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// FieldValue is a projection of one employee record.
type FieldValue struct {
	EmployeeCode string     `json:"employee_code"`
	EmployeeName string     `json:"employee_name,omitempty"`
	Category     string     `json:"category,omitempty"`
	Fields       []hr.Field `json:"fields"`
}

// AggregationTable is a frequency table. Headcount tables have a single
// row and no source column.
type AggregationTable struct {
	analytics.Result
	Chart     ChartHint `json:"chart"`
	Headcount bool      `json:"headcount,omitempty"`
}

// PolicyText is one policy section, body verbatim.
type PolicyText struct {
	Title   string `json:"title"`
	Ordinal int    `json:"ordinal"`
	Body    string `json:"body"`
}

// SectionPreview is one entry of a section listing.
type SectionPreview struct {
	Title   string `json:"title"`
	Ordinal int    `json:"ordinal"`
	Preview string `json:"preview"`
}

// SectionList enumerates the numbered policy sections.
type SectionList struct {
	Sections []SectionPreview `json:"sections"`
}

// GeneralAnswer is the completion text, verbatim.
type GeneralAnswer struct {
	Text string `json:"text"`
}

// NotFound carries a user-facing message and the reason behind it.
type NotFound struct {
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

// Text returns a plain-text rendering for simple clients. Tables render as
// one "label: count" line per row.
func (r Response) Text() string {
	switch r.Kind {
	case KindFixedAnswer:
		return r.FixedAnswer.Text
	case KindGeneralAnswer:
		return r.Answer.Text
	case KindNotFound:
		return r.NotFound.Message
	case KindPolicyText:
		return r.Policy.Title + "\n\n" + r.Policy.Body
	}
	return renderText(r)
}
