// Package intent classifies free-text HR queries. A Matcher runs an ordered
// chain of stages over the normalised query; the first stage that produces
// a match decides the intent, and no scoring happens across stages.
package intent

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/garyellow/askhr-go/internal/hr"
)

// Kind identifies the handler that answers a query.
type Kind string

// Intent kinds.
const (
	KindFixedAnswer    Kind = "fixed_answer"
	KindEmployeeLookup Kind = "employee_lookup"
	KindSelfService    Kind = "self_service"
	KindPolicySection  Kind = "policy_section"
	KindPolicyList     Kind = "policy_list"
	KindAggregation    Kind = "aggregation"
	KindHeadcount      Kind = "headcount"
	KindGeneral        Kind = "general"
)

// Stage priorities (lower = checked first).
const (
	PriorityFixedAnswer = 1
	PriorityEmployee    = 2
	PrioritySelfService = 3
	PriorityPolicy      = 4
	PriorityAggregation = 5
)

// Match is the classification of one query. Only the fields relevant to
// Kind are set.
type Match struct {
	Kind     Kind   `json:"intent"`
	Stage    string `json:"stage,omitempty"`
	Query    string `json:"query"`
	Language string `json:"language"`

	// Entity scope for lookups and aggregations.
	Entity string `json:"entity,omitempty"`

	FixedAnswerID string `json:"fixed_answer_id,omitempty"`
	FixedAnswer   string `json:"-"`

	EmployeeCode string `json:"employee_code,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`

	Category string   `json:"category,omitempty"`
	Columns  []string `json:"columns,omitempty"`

	SectionTitle string `json:"section_title,omitempty"`

	Column   string `json:"column,omitempty"`
	ByEntity bool   `json:"by_entity,omitempty"`
	Top      int    `json:"top,omitempty"`
}

// Context is what the matcher knows about the loaded data. It is fixed at
// build time because the data is immutable after load.
type Context struct {
	// Columns available in the record source.
	Columns []string
	// PolicyTitles in document order.
	PolicyTitles []string
	// People whose full names can be looked up directly.
	People []hr.Person
	// Entities present in the record source.
	Entities []string
}

// stage is one predicate in the precedence chain. match returns false when
// the stage does not apply to the query.
type stage struct {
	name     string
	priority int
	match    func(q *query) (Match, bool)
}

// query is a query prepared for the stages.
type query struct {
	normalized string
}

type fixedAnswer struct {
	id      string
	answer  string
	phrases []string
}

type selfService struct {
	category string
	columns  []string
	phrases  []string
}

type policySection struct {
	title   string
	phrases []string
}

type person struct {
	code       string
	name       string
	normalized string
}

type column struct {
	name     string
	variants []string
}

type columnWord struct {
	column  string
	phrases []string
}

// Matcher classifies queries. It is safe for concurrent use.
type Matcher struct {
	stages []stage
	scope  *ScopeExtractor

	fixed       []fixedAnswer
	people      []person
	selfService []selfService
	sections    []policySection
	generic     []string
	columns     []column
	columnWords []columnWord
	triggers    []string
	headcount   []string
	crossTab    []string

	unmappedSections []string
}

var topPattern = regexp.MustCompile(`(?:^|\s)(?:top|اعلى)\s+(\d{1,3})(?:\s|$)`)

// NewMatcher compiles a catalog against the loaded data.
func NewMatcher(catalog *Catalog, ctx Context) *Matcher {
	m := &Matcher{
		scope:     NewScopeExtractor(ctx.Entities, catalog.Scope.Ignore.All(), catalog.Scope.Aliases),
		generic:   catalog.Policy.Generic.All(),
		triggers:  catalog.Aggregation.Triggers.All(),
		headcount: catalog.Aggregation.Headcount.All(),
		crossTab:  catalog.Aggregation.CrossTab.All(),
	}

	for _, f := range catalog.FixedAnswers {
		m.fixed = append(m.fixed, fixedAnswer{
			id:      f.ID,
			answer:  strings.TrimSpace(f.Answer),
			phrases: f.Phrases.All(),
		})
	}

	for _, p := range ctx.People {
		n := Normalize(p.Name)
		if n == "" {
			continue
		}
		m.people = append(m.people, person{code: p.Code, name: p.Name, normalized: n})
	}
	slices.SortStableFunc(m.people, func(a, b person) int {
		return utf8.RuneCountInString(b.normalized) - utf8.RuneCountInString(a.normalized)
	})

	for _, s := range catalog.SelfService {
		m.selfService = append(m.selfService, selfService{
			category: s.Category,
			columns:  slices.Clone(s.Columns),
			phrases:  s.Phrases.All(),
		})
	}

	m.compileSections(catalog, ctx.PolicyTitles)
	m.compileColumns(ctx.Columns)

	for _, cw := range catalog.Aggregation.ColumnWords {
		name := cw.Column
		if canonical, ok := hr.CanonicalColumn(name); ok {
			name = canonical
		}
		m.columnWords = append(m.columnWords, columnWord{column: name, phrases: cw.Phrases.All()})
	}

	m.stages = []stage{
		{name: "fixed_answer", priority: PriorityFixedAnswer, match: m.matchFixedAnswer},
		{name: "employee_name", priority: PriorityEmployee, match: m.matchEmployee},
		{name: "self_service", priority: PrioritySelfService, match: m.matchSelfService},
		{name: "policy", priority: PriorityPolicy, match: m.matchPolicy},
		{name: "aggregation", priority: PriorityAggregation, match: m.matchAggregation},
	}
	slices.SortStableFunc(m.stages, func(a, b stage) int {
		return a.priority - b.priority
	})
	return m
}

// compileSections builds section matchers in document order. Catalog entries
// whose title is not in the corpus are dropped; corpus titles without an
// entry still match on their own title.
func (m *Matcher) compileSections(catalog *Catalog, titles []string) {
	byKey := make(map[string]SectionKeywords, len(catalog.Policy.Sections))
	for _, s := range catalog.Policy.Sections {
		byKey[SectionKey(s.Title)] = s
	}

	for _, title := range titles {
		key := SectionKey(title)
		var phrases []string
		if s, ok := byKey[key]; ok {
			phrases = s.Phrases.All()
		} else {
			m.unmappedSections = append(m.unmappedSections, title)
		}
		if utf8.RuneCountInString(key) >= 4 && !slices.Contains(phrases, key) {
			phrases = append(phrases, key)
		}
		if len(phrases) > 0 {
			m.sections = append(m.sections, policySection{title: title, phrases: phrases})
		}
	}
}

// compileColumns prepares column-name matching: the name itself plus its
// form with a trailing "s" added or stripped. Longer names are tried first
// so "Net Total" wins over a shorter overlapping column.
func (m *Matcher) compileColumns(columns []string) {
	for _, c := range columns {
		n := Normalize(c)
		if n == "" {
			continue
		}
		variants := []string{n}
		if stripped, ok := strings.CutSuffix(n, "s"); ok {
			if stripped != "" {
				variants = append(variants, stripped)
			}
		} else {
			variants = append(variants, n+"s")
		}
		m.columns = append(m.columns, column{name: c, variants: variants})
	}
	slices.SortStableFunc(m.columns, func(a, b column) int {
		return len(b.variants[0]) - len(a.variants[0])
	})
}

// Stages returns the precedence chain in evaluation order.
func (m *Matcher) Stages() []string {
	names := make([]string, len(m.stages))
	for i, s := range m.stages {
		names[i] = s.name
	}
	return names
}

// UnmappedSections lists corpus titles that have no catalog keywords.
func (m *Matcher) UnmappedSections() []string {
	return slices.Clone(m.unmappedSections)
}

// Match classifies a query. languageHint may be empty. A query that no
// stage claims falls back to KindGeneral.
func (m *Matcher) Match(raw, languageHint string) Match {
	q := &query{normalized: Normalize(raw)}
	lang := DetectLanguage(raw, languageHint)

	for _, st := range m.stages {
		if q.normalized == "" {
			break
		}
		if match, ok := st.match(q); ok {
			match.Stage = st.name
			match.Query = raw
			match.Language = lang
			return match
		}
	}
	return Match{Kind: KindGeneral, Query: raw, Language: lang}
}

func (m *Matcher) matchFixedAnswer(q *query) (Match, bool) {
	for _, f := range m.fixed {
		if containsAny(q.normalized, f.phrases) {
			return Match{Kind: KindFixedAnswer, FixedAnswerID: f.id, FixedAnswer: f.answer}, true
		}
	}
	return Match{}, false
}

func (m *Matcher) matchEmployee(q *query) (Match, bool) {
	for _, p := range m.people {
		if containsWord(q.normalized, p.normalized) {
			return Match{
				Kind:         KindEmployeeLookup,
				EmployeeCode: p.code,
				EmployeeName: p.name,
				Entity:       m.scope.Extract(q.normalized),
			}, true
		}
	}
	return Match{}, false
}

func (m *Matcher) matchSelfService(q *query) (Match, bool) {
	for _, s := range m.selfService {
		if anyPhrase(q.normalized, s.phrases) {
			return Match{Kind: KindSelfService, Category: s.category, Columns: slices.Clone(s.columns)}, true
		}
	}
	return Match{}, false
}

// matchPolicy checks specific section keywords before the generic policy
// words.
func (m *Matcher) matchPolicy(q *query) (Match, bool) {
	for _, s := range m.sections {
		if anyPhrase(q.normalized, s.phrases) {
			return Match{Kind: KindPolicySection, SectionTitle: s.title}, true
		}
	}
	if anyPhrase(q.normalized, m.generic) {
		return Match{Kind: KindPolicyList}, true
	}
	return Match{}, false
}

func (m *Matcher) matchAggregation(q *query) (Match, bool) {
	// "age by entity" names Entity only as the cross-tab dimension, so the
	// column is looked up with the cross-tab phrases removed first.
	crossTab := anyPhrase(q.normalized, m.crossTab)
	text := q.normalized
	if crossTab {
		text = removePhrases(text, m.crossTab)
	}

	col := m.columnByName(text)
	triggered := anyPhrase(q.normalized, m.triggers)
	if col == "" && triggered {
		col = m.columnByWord(text)
	}
	if col == "" && crossTab {
		col = m.columnByName(q.normalized)
	}

	if col == "" {
		if anyPhrase(q.normalized, m.headcount) {
			return Match{Kind: KindHeadcount, Entity: m.scope.Extract(q.normalized)}, true
		}
		return Match{}, false
	}

	match := Match{
		Kind:   KindAggregation,
		Column: col,
		Entity: m.scope.Extract(q.normalized),
		Top:    parseTop(q.normalized),
	}
	if col != hr.ColEntity && crossTab {
		match.ByEntity = true
	}
	return match, true
}

// columnByName finds an available column named in the query.
func (m *Matcher) columnByName(normalized string) string {
	for _, c := range m.columns {
		for _, v := range c.variants {
			if containsWordPrefix(normalized, v) {
				return c.name
			}
		}
	}
	return ""
}

// columnByWord maps a contextual word ("nationalities", "old") to the
// column it stands for. The column may be missing from the schema; the
// aggregation then reports it as unavailable.
func (m *Matcher) columnByWord(normalized string) string {
	for _, cw := range m.columnWords {
		if anyPhrase(normalized, cw.phrases) {
			return cw.column
		}
	}
	return ""
}

func parseTop(normalized string) int {
	m := topPattern.FindStringSubmatch(normalized)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// removePhrases blanks out every occurrence of the given phrases.
func removePhrases(normalized string, phrases []string) string {
	for _, p := range phrases {
		normalized = strings.ReplaceAll(normalized, p, " ")
	}
	return strings.Join(strings.Fields(normalized), " ")
}

// containsAny is plain substring containment, used for literal triggers.
func containsAny(normalized string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(normalized, p) {
			return true
		}
	}
	return false
}

// anyPhrase matches keyword phrases. Latin phrases must start at a word
// boundary so "wage" does not fire inside "average"; Arabic phrases match
// anywhere because articles and conjunctions attach to the word.
func anyPhrase(normalized string, phrases []string) bool {
	for _, p := range phrases {
		if hasArabic(p) {
			if strings.Contains(normalized, p) {
				return true
			}
			continue
		}
		if containsWordPrefix(normalized, p) {
			return true
		}
	}
	return false
}
