package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeExtractor_Extract(t *testing.T) {
	t.Parallel()

	s := NewScopeExtractor(
		[]string{"Tawfeer", "Capital Partners", "Capital Partners Group", "ProLogistics"},
		[]string{"total", "all"},
		[]EntityAlias{
			{Entity: "tawfeer", Names: []string{"توفير"}},
			{Entity: "Narnia Holdings", Names: []string{"نارنيا"}},
		},
	)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"known entity keeps its spelling", "how many staff in prologistics", "ProLogistics"},
		{"longest known entity wins", "headcount in capital partners group", "Capital Partners Group"},
		{"known entity followed by words", "gender in tawfeer please", "Tawfeer"},
		{"arabic marker", "عدد الموظفين في tawfeer", "Tawfeer"},
		{"unknown entity is title-cased", "how many staff in the south region", "The South Region"},
		{"unknown arabic entity", "كم عدد الموظفين في الرياض", "الرياض"},
		{"arabic alias resolves to record spelling", "كم عدد الموظفين في توفير", "Tawfeer"},
		{"alias for an entity without records", "عدد الموظفين في نارنيا", "Narnia Holdings"},
		{"ignored phrase", "how many in total", ""},
		{"ignored prefix", "count in all companies", ""},
		{"needs a separate word", "within reach", ""},
		{"no marker", "how many nationalities", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, s.Extract(Normalize(tt.query)))
		})
	}
}
