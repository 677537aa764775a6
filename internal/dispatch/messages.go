package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/garyellow/askhr-go/internal/intent"
)

var messages = map[Reason][2]string{ // en, ar
	ReasonNoRecord: {
		"I couldn't find an employee record for that request.",
		"لم أتمكن من العثور على سجل موظف لهذا الطلب.",
	},
	ReasonUnknownColumn: {
		"The column %q is not available in the employee data. Available columns: %s.",
		"العمود %q غير متوفر في بيانات الموظفين. الأعمدة المتاحة: %s.",
	},
	ReasonGatewayUnavailable: {
		"Sorry, I can't answer that right now. Please try again later or contact the HR team.",
		"عذراً، لا أستطيع الإجابة على ذلك الآن. يرجى المحاولة لاحقاً أو التواصل مع فريق الموارد البشرية.",
	},
	ReasonRateLimited: {
		"You've reached the limit for open questions. Please try again later or contact the HR team.",
		"لقد وصلت إلى الحد المسموح للأسئلة العامة. يرجى المحاولة لاحقاً أو التواصل مع فريق الموارد البشرية.",
	},
	ReasonNoMatch: {
		"I couldn't find that. Please rephrase your question.",
		"لم أجد ذلك. يرجى إعادة صياغة سؤالك.",
	},
	ReasonEmptyQuery: {
		"Please type a question.",
		"يرجى كتابة سؤال.",
	},
	ReasonQueryTooLong: {
		"Your question is too long. Please keep it under %d characters.",
		"سؤالك طويل جداً. يرجى ألا يتجاوز %d حرفاً.",
	},
	ReasonInternal: {
		"Something went wrong while answering. Please try again.",
		"حدث خطأ أثناء الإجابة. يرجى المحاولة مرة أخرى.",
	},
}

// Message returns the user-facing text for reason in lang, formatted with
// args when the message takes any.
func Message(reason Reason, lang string, args ...any) string {
	pair, ok := messages[reason]
	if !ok {
		pair = messages[ReasonInternal]
	}
	msg := pair[0]
	if lang == intent.LangArabic {
		msg = pair[1]
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// NewNotFound builds a NotFound response for a query that never reached the
// matcher (empty or over-long input).
func NewNotFound(query, lang string, reason Reason, args ...any) Response {
	return Response{
		Kind:     KindNotFound,
		Intent:   intent.KindGeneral,
		Query:    query,
		Language: lang,
		NotFound: &NotFound{Reason: reason, Message: Message(reason, lang, args...)},
	}
}

func renderText(r Response) string {
	var b strings.Builder
	switch r.Kind {
	case KindFieldValue:
		for _, f := range r.FieldValue.Fields {
			b.WriteString(f.Name + ": " + f.Value + "\n")
		}
	case KindAggregationTable:
		t := r.Table
		if t.CrossTab != nil {
			b.WriteString("Entity\t" + strings.Join(t.CrossTab.Categories, "\t") + "\n")
			for i, ent := range t.CrossTab.Entities {
				b.WriteString(ent)
				for _, n := range t.CrossTab.Cells[i] {
					b.WriteString("\t" + strconv.Itoa(n))
				}
				b.WriteString("\n")
			}
			break
		}
		for _, c := range t.Counts {
			b.WriteString(c.Label + ": " + strconv.Itoa(c.Count) + "\n")
		}
	case KindSectionList:
		for _, s := range r.Sections.Sections {
			b.WriteString(s.Title + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
