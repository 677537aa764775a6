package intent

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// scopePattern captures the words after "in"/"في" up to the next character
// that is neither a letter nor a space.
var scopePattern = regexp.MustCompile(`(?:^|\s)(?:in|في)\s+([\p{L}][\p{L} ]*)`)

// scopeMarkers precede an entity name in both languages.
var scopeMarkers = []string{"in ", "في "}

type entityName struct {
	canonical  string
	normalized string
}

// ScopeExtractor finds the "in <entity>" scope of a query. Known entity names
// are preferred; otherwise the captured words are title-cased and returned
// as-is, so an unknown name scopes to an empty record set.
type ScopeExtractor struct {
	entities []entityName
	ignore   []string
}

// NewScopeExtractor prepares an extractor for the given entity names. An
// alias resolves to the known entity with the same normalised name, or to
// the alias entity as written when no record carries it.
func NewScopeExtractor(entities []string, ignore []string, aliases []EntityAlias) *ScopeExtractor {
	s := &ScopeExtractor{}
	known := make(map[string]string, len(entities))
	for _, e := range entities {
		n := Normalize(e)
		if n == "" {
			continue
		}
		known[n] = e
		s.entities = append(s.entities, entityName{canonical: e, normalized: n})
	}
	for _, a := range aliases {
		canonical := strings.TrimSpace(a.Entity)
		if e, ok := known[Normalize(canonical)]; ok {
			canonical = e
		}
		if canonical == "" {
			continue
		}
		for _, name := range a.Names {
			if n := Normalize(name); n != "" {
				s.entities = append(s.entities, entityName{canonical: canonical, normalized: n})
			}
		}
	}
	// "Capital Partners Group" must win over "Capital Partners".
	slices.SortStableFunc(s.entities, func(a, b entityName) int {
		return utf8.RuneCountInString(b.normalized) - utf8.RuneCountInString(a.normalized)
	})
	for _, i := range ignore {
		if n := Normalize(i); n != "" {
			s.ignore = append(s.ignore, n)
		}
	}
	return s
}

// Extract returns the entity scope of a normalised query, or "" when the
// query names none.
func (s *ScopeExtractor) Extract(normalized string) string {
	for _, e := range s.entities {
		for _, marker := range scopeMarkers {
			if containsWord(normalized, marker+e.normalized) {
				return e.canonical
			}
		}
	}

	m := scopePattern.FindStringSubmatch(normalized)
	if m == nil {
		return ""
	}
	captured := strings.TrimSpace(m[1])
	if captured == "" || s.ignored(captured) {
		return ""
	}
	// Casers carry state, so each call builds its own.
	return cases.Title(language.Und).String(captured)
}

func (s *ScopeExtractor) ignored(captured string) bool {
	for _, i := range s.ignore {
		if captured == i || strings.HasPrefix(captured, i+" ") {
			return true
		}
	}
	return false
}
