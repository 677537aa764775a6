package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"case and punctuation", "Hello,  World!", "hello world"},
		{"latin accents", "Café Résumé", "cafe resume"},
		{"harakat and hamza", "أَهْلاً", "اهلا"},
		{"taa marbuta", "سياسة", "سياسه"},
		{"alef maqsura", "على", "علي"},
		{"tatweel", "سـلام", "سلام"},
		{"arabic-indic digits", "١٢٣", "123"},
		{"kept punctuation", "3.1 R&D e-mail what's", "3.1 r&d e-mail what's"},
		{"whitespace", "\t a \n b ", "a b"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestContainsWord(t *testing.T) {
	t.Parallel()

	assert.True(t, containsWord("ask omar now", "omar"))
	assert.True(t, containsWord("omar", "omar"))
	assert.True(t, containsWord("omar's file", "omar"))
	assert.False(t, containsWord("romaric", "omar"))
	assert.False(t, containsWord("omari", "omar"))
	// A later occurrence can still satisfy the boundary.
	assert.True(t, containsWord("romar omar", "omar"))
	assert.False(t, containsWord("anything", ""))

	assert.True(t, containsWordPrefix("how many nationalities", "nationalit"))
	assert.False(t, containsWordPrefix("encoded", "code"))
}

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LangEnglish, DetectLanguage("what is my salary", ""))
	assert.Equal(t, LangArabic, DetectLanguage("كم راتبي", ""))
	assert.Equal(t, LangArabic, DetectLanguage("what is my salary", "AR"))
	assert.Equal(t, LangEnglish, DetectLanguage("كم راتبي", "en"))
	assert.Equal(t, LangEnglish, DetectLanguage("bonjour", "fr"))
}
