package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyellow/askhr-go/internal/hr"
)

var testTitles = []string{
	"CEO Message",
	"1. Introduction",
	"2. Conflicts of Interest",
	"3. Gifts and Hospitality",
	"4. Confidentiality",
	"5. Whistleblowing Procedure",
}

func newTestMatcher(t *testing.T, columns []string) *Matcher {
	t.Helper()
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	return NewMatcher(catalog, Context{
		Columns:      columns,
		PolicyTitles: testTitles,
		People: []hr.Person{
			{Code: "E001", Name: "Ali Hassan"},
			{Code: "E004", Name: "Sara"},
			{Code: "E002", Name: "Sara Al-Mutairi"},
			{Code: "E003", Name: "Omar"},
		},
		Entities: []string{"Tawfeer", "Prologistics", "Capital Partners"},
	})
}

func TestMatcher_StageOrder(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	assert.Equal(t, []string{"fixed_answer", "employee_name", "self_service", "policy", "aggregation"}, m.Stages())
}

func TestMatcher_FixedAnswerWinsOverEverything(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	queries := []string{
		"Meet the team",
		"I want to meet the team and see my salary",
		"Ali Hassan said I should meet the team",
		"meet the team: how many nationalities in Tawfeer?",
		"what is the gifts policy? also, meet the HR team",
	}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			t.Parallel()
			got := m.Match(q, "")
			assert.Equal(t, KindFixedAnswer, got.Kind)
			assert.Equal(t, "meet_the_team", got.FixedAnswerID)
			assert.NotEmpty(t, got.FixedAnswer)
			assert.Equal(t, "fixed_answer", got.Stage)
		})
	}
}

func TestMatcher_EmployeeName(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	tests := []struct {
		name     string
		query    string
		wantKind Kind
		wantCode string
	}{
		{"full name", "Show me Ali Hassan's details", KindEmployeeLookup, "E001"},
		{"case and punctuation", "ALI HASSAN?", KindEmployeeLookup, "E001"},
		{"longest name first", "what's the grade of sara al-mutairi", KindEmployeeLookup, "E002"},
		{"shorter name still matches", "who is Sara", KindEmployeeLookup, "E004"},
		{"name inside another word", "tell me about romaric", KindGeneral, ""},
		{"name wins over column", "Omar gender", KindEmployeeLookup, "E003"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := m.Match(tt.query, "")
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantCode, got.EmployeeCode)
		})
	}
}

func TestMatcher_SelfService(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	tests := []struct {
		query    string
		category string
	}{
		{"what is my annual leave balance", "leave"},
		{"How much is my salary?", "salary"},
		{"كم راتبي", "salary"},
		{"When did I join the company?", "joining_date"},
		{"what is my social security number", "social_security"},
		{"show my profile", "profile"},
		{"what is the policy on my annual leave", "leave"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			got := m.Match(tt.query, "")
			require.Equal(t, KindSelfService, got.Kind)
			assert.Equal(t, tt.category, got.Category)
			assert.NotEmpty(t, got.Columns)
		})
	}

	got := m.Match("what is my annual leave balance", "")
	assert.Equal(t, []string{hr.ColAnnualLeaves}, got.Columns)
}

func TestMatcher_KeywordsIgnoreWordFragments(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	// The generic policy word "code" must not fire inside "encoded".
	got := m.Match("encoded grades", "")
	assert.Equal(t, KindAggregation, got.Kind)
	assert.Equal(t, hr.ColGrade, got.Column)
}

func TestMatcher_Policy(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	tests := []struct {
		query   string
		kind    Kind
		section string
	}{
		{"what does the code say about gifts", KindPolicySection, "3. Gifts and Hospitality"},
		{"conflict of interest policy", KindPolicySection, "2. Conflicts of Interest"},
		{"Show the CEO message", KindPolicySection, "CEO Message"},
		{"ما هي سياسة الهدايا", KindPolicySection, "3. Gifts and Hospitality"},
		{"explain the whistleblowing procedure", KindPolicySection, "5. Whistleblowing Procedure"},
		{"tell me the rules", KindPolicyList, ""},
		{"what is the bribery policy", KindPolicyList, ""},
		{"ما هي السياسات", KindPolicyList, ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			got := m.Match(tt.query, "")
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.section, got.SectionTitle)
		})
	}
}

func TestMatcher_UnmappedSections(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	assert.Equal(t, []string{"5. Whistleblowing Procedure"}, m.UnmappedSections())
}

func TestMatcher_ColumnNameSelectsAggregation(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	tests := []struct {
		query  string
		column string
	}{
		{"breakdown of nationality", hr.ColNationality},
		{"gender", hr.ColGender},
		{"genders", hr.ColGender},
		{"list grades", hr.ColGrade},
		{"bands please", hr.ColBand},
		{"job title split", hr.ColJobTitle},
		{"JOB TITLES", hr.ColJobTitle},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			got := m.Match(tt.query, "")
			require.Equal(t, KindAggregation, got.Kind)
			assert.Equal(t, tt.column, got.Column)
		})
	}
}

func TestMatcher_ColumnVariantStripsPlural(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, []string{"Code", "Regions"})

	got := m.Match("employees per region", "")
	require.Equal(t, KindAggregation, got.Kind)
	assert.Equal(t, "Regions", got.Column)
}

func TestMatcher_NationalitiesInTawfeer(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	got := m.Match("how many nationalities in Tawfeer", "")
	assert.Equal(t, KindAggregation, got.Kind)
	assert.Equal(t, hr.ColNationality, got.Column)
	assert.Equal(t, "Tawfeer", got.Entity)
	assert.Equal(t, LangEnglish, got.Language)
	assert.False(t, got.ByEntity)
}

func TestMatcher_AggregationParameters(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	t.Run("cross tab", func(t *testing.T) {
		t.Parallel()
		got := m.Match("compare gender per company", "")
		assert.Equal(t, KindAggregation, got.Kind)
		assert.Equal(t, hr.ColGender, got.Column)
		assert.True(t, got.ByEntity)
	})

	t.Run("top n", func(t *testing.T) {
		t.Parallel()
		got := m.Match("top 5 nationalities by count", "")
		assert.Equal(t, KindAggregation, got.Kind)
		assert.Equal(t, hr.ColNationality, got.Column)
		assert.Equal(t, 5, got.Top)
	})

	t.Run("contextual word with scope", func(t *testing.T) {
		t.Parallel()
		got := m.Match("how many employees in prologistics are male", "")
		assert.Equal(t, KindAggregation, got.Kind)
		assert.Equal(t, hr.ColGender, got.Column)
		assert.Equal(t, "Prologistics", got.Entity)
	})

	t.Run("contextual word needs a trigger", func(t *testing.T) {
		t.Parallel()
		got := m.Match("are we young", "")
		assert.Equal(t, KindGeneral, got.Kind)
	})
}

func TestMatcher_CrossTabDimensionIsNotTheColumn(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	tests := []struct {
		query  string
		column string
	}{
		{"age by entity", hr.ColAge},
		{"grade breakdown by entity", hr.ColGrade},
		{"band per entity", hr.ColBand},
		{"gender by entity", hr.ColGender},
		{"age distribution across entities", hr.ColAge},
		{"how many employees per company are male", hr.ColGender},
		{"توزيع الجنس حسب الشركه", hr.ColGender},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			got := m.Match(tt.query, "")
			require.Equal(t, KindAggregation, got.Kind)
			assert.Equal(t, tt.column, got.Column)
			assert.True(t, got.ByEntity)
		})
	}

	t.Run("entity alone stays flat", func(t *testing.T) {
		t.Parallel()
		got := m.Match("breakdown by entity", "")
		require.Equal(t, KindAggregation, got.Kind)
		assert.Equal(t, hr.ColEntity, got.Column)
		assert.False(t, got.ByEntity)
	})
}

func TestMatcher_HowOldCarriesItsOwnTrigger(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	got := m.Match("how old are employees in Tawfeer", "")
	require.Equal(t, KindAggregation, got.Kind)
	assert.Equal(t, hr.ColAge, got.Column)
	assert.Equal(t, "Tawfeer", got.Entity)

	got = m.Match("كم عمر الموظفين", "")
	require.Equal(t, KindAggregation, got.Kind)
	assert.Equal(t, hr.ColAge, got.Column)
}

func TestMatcher_ArabicEntityAlias(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	got := m.Match("كم عدد الموظفين في توفير", "")
	assert.Equal(t, KindHeadcount, got.Kind)
	assert.Equal(t, "Tawfeer", got.Entity)
}

func TestMatcher_ColumnWordMissingFromSchema(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, []string{hr.ColCode, hr.ColFullName, hr.ColEntity})

	got := m.Match("show the age distribution", "")
	assert.Equal(t, KindAggregation, got.Kind)
	assert.Equal(t, hr.ColAge, got.Column)
}

func TestMatcher_Headcount(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	tests := []struct {
		query  string
		entity string
	}{
		{"how many employees in total", ""},
		{"headcount", ""},
		{"how many employees in Tawfeer", "Tawfeer"},
		{"how many employees in Narnia", "Narnia"},
		{"كم عدد الموظفين", ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			got := m.Match(tt.query, "")
			assert.Equal(t, KindHeadcount, got.Kind)
			assert.Equal(t, tt.entity, got.Entity)
		})
	}
}

func TestMatcher_GeneralFallback(t *testing.T) {
	t.Parallel()
	m := newTestMatcher(t, hr.KnownColumns)

	for _, q := range []string{"what is the capital of France", "   ", "!!!"} {
		got := m.Match(q, "ar")
		assert.Equal(t, KindGeneral, got.Kind, q)
		assert.Equal(t, q, got.Query)
		assert.Equal(t, LangArabic, got.Language)
		assert.Empty(t, got.Stage)
	}
}
