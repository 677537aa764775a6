package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text and drops combining marks: Latin accents
// ("é" → "e") and Arabic harakat.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var arabicFold = strings.NewReplacer(
	"أ", "ا", "إ", "ا", "آ", "ا", "ٱ", "ا",
	"ة", "ه",
	"ى", "ي",
	"ـ", "", // tatweel
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// keptPunct survives normalisation because it appears inside phrases and
// section numbers ("e-mail", "3.1", "r&d", "what's").
const keptPunct = "-.&'"

// Normalize prepares text for phrase matching: lower-case, accents and
// harakat removed, Arabic letter variants folded, punctuation turned into
// spaces and whitespace collapsed. Queries and phrases go through the same
// function so matching is case- and diacritic-insensitive.
func Normalize(s string) string {
	s = strings.ToLower(s)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = arabicFold.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), (unicode.IsPunct(r) || unicode.IsSymbol(r)) && !strings.ContainsRune(keptPunct, r):
			if !space {
				b.WriteByte(' ')
				space = true
			}
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return strings.TrimSpace(b.String())
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// containsWord reports whether needle occurs in haystack with no letter or
// digit directly before or after it.
func containsWord(haystack, needle string) bool {
	return indexWord(haystack, needle, true) >= 0
}

// containsWordPrefix is containsWord without the trailing boundary, so stems
// like "nationalit" match "nationalities".
func containsWordPrefix(haystack, needle string) bool {
	return indexWord(haystack, needle, false) >= 0
}

func indexWord(haystack, needle string, trailing bool) int {
	if needle == "" {
		return -1
	}
	for offset := 0; offset <= len(haystack)-len(needle); {
		i := strings.Index(haystack[offset:], needle)
		if i < 0 {
			return -1
		}
		start := offset + i
		end := start + len(needle)
		if boundaryBefore(haystack, start) && (!trailing || boundaryAfter(haystack, end)) {
			return start
		}
		_, size := utf8.DecodeRuneInString(haystack[start:])
		offset = start + size
	}
	return -1
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

// hasArabic reports whether s contains Arabic script.
func hasArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}

// DetectLanguage returns the hint when it is a supported language, otherwise
// "ar" for Arabic script and "en" for everything else.
func DetectLanguage(query, hint string) string {
	switch h := strings.ToLower(strings.TrimSpace(hint)); h {
	case LangEnglish, LangArabic:
		return h
	}
	if hasArabic(query) {
		return LangArabic
	}
	return LangEnglish
}

// Supported languages.
const (
	LangEnglish = "en"
	LangArabic  = "ar"
)
