package intent

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultCatalogYAML []byte

// Phrases maps a language code to its trigger phrases.
type Phrases map[string][]string

// All returns every phrase across languages, normalised and deduplicated,
// in a stable order (languages sorted, phrases in file order).
func (p Phrases) All() []string {
	langs := make([]string, 0, len(p))
	for lang := range p {
		langs = append(langs, lang)
	}
	slices.Sort(langs)

	seen := make(map[string]bool)
	var out []string
	for _, lang := range langs {
		for _, phrase := range p[lang] {
			n := Normalize(phrase)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// FixedAnswer maps literal triggers to a canned response.
type FixedAnswer struct {
	ID      string  `yaml:"id"`
	Phrases Phrases `yaml:"phrases"`
	Answer  string  `yaml:"answer"`
}

// SelfServiceCategory is a field category of the caller's own record.
type SelfServiceCategory struct {
	Category string   `yaml:"category"`
	Phrases  Phrases  `yaml:"phrases"`
	Columns  []string `yaml:"columns"`
}

// SectionKeywords maps a policy section title to its trigger phrases.
type SectionKeywords struct {
	Title   string  `yaml:"title"`
	Phrases Phrases `yaml:"phrases"`
}

// PolicyKeywords holds per-section and generic policy words.
type PolicyKeywords struct {
	Sections []SectionKeywords `yaml:"sections"`
	Generic  Phrases           `yaml:"generic"`
}

// ColumnWords maps contextual words to a dataset column.
type ColumnWords struct {
	Column  string  `yaml:"column"`
	Phrases Phrases `yaml:"phrases"`
}

// AggregationKeywords holds the dataset-aggregation vocabulary.
type AggregationKeywords struct {
	Triggers    Phrases       `yaml:"triggers"`
	Headcount   Phrases       `yaml:"headcount"`
	ColumnWords []ColumnWords `yaml:"column_words"`
	CrossTab    Phrases       `yaml:"cross_tab"`
}

// ScopeKeywords tunes entity-scope extraction.
type ScopeKeywords struct {
	// Ignore lists captured "in <x>" phrases that never name an entity.
	Ignore  Phrases       `yaml:"ignore"`
	Aliases []EntityAlias `yaml:"aliases"`
}

// EntityAlias lists other names an entity is asked about by.
type EntityAlias struct {
	Entity string   `yaml:"entity"`
	Names  []string `yaml:"names"`
}

// Catalog is the versioned keyword mapping consulted by the matcher.
type Catalog struct {
	Version      int                   `yaml:"version"`
	FixedAnswers []FixedAnswer         `yaml:"fixed_answers"`
	SelfService  []SelfServiceCategory `yaml:"self_service"`
	Policy       PolicyKeywords        `yaml:"policy"`
	Aggregation  AggregationKeywords   `yaml:"aggregation"`
	Scope        ScopeKeywords         `yaml:"scope"`
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// LoadCatalog reads a catalog file, or the embedded default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read keyword catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse keyword catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every entry has an identity and at least one phrase.
func (c *Catalog) Validate() error {
	var errs []error
	if c.Version <= 0 {
		errs = append(errs, errors.New("catalog: version must be positive"))
	}

	ids := make(map[string]bool)
	for i, f := range c.FixedAnswers {
		switch {
		case f.ID == "":
			errs = append(errs, fmt.Errorf("catalog: fixed_answers[%d]: id is required", i))
		case ids[f.ID]:
			errs = append(errs, fmt.Errorf("catalog: fixed answer %q defined twice", f.ID))
		}
		ids[f.ID] = true
		if strings.TrimSpace(f.Answer) == "" {
			errs = append(errs, fmt.Errorf("catalog: fixed answer %q has no answer", f.ID))
		}
		if len(f.Phrases.All()) == 0 {
			errs = append(errs, fmt.Errorf("catalog: fixed answer %q has no phrases", f.ID))
		}
	}

	categories := make(map[string]bool)
	for i, s := range c.SelfService {
		switch {
		case s.Category == "":
			errs = append(errs, fmt.Errorf("catalog: self_service[%d]: category is required", i))
		case categories[s.Category]:
			errs = append(errs, fmt.Errorf("catalog: self-service category %q defined twice", s.Category))
		}
		categories[s.Category] = true
		if len(s.Columns) == 0 {
			errs = append(errs, fmt.Errorf("catalog: self-service category %q projects no columns", s.Category))
		}
		if len(s.Phrases.All()) == 0 {
			errs = append(errs, fmt.Errorf("catalog: self-service category %q has no phrases", s.Category))
		}
	}

	titles := make(map[string]bool)
	for i, s := range c.Policy.Sections {
		key := SectionKey(s.Title)
		switch {
		case key == "":
			errs = append(errs, fmt.Errorf("catalog: policy.sections[%d]: title is required", i))
		case titles[key]:
			errs = append(errs, fmt.Errorf("catalog: policy section %q defined twice", s.Title))
		}
		titles[key] = true
	}

	for i, cw := range c.Aggregation.ColumnWords {
		if strings.TrimSpace(cw.Column) == "" {
			errs = append(errs, fmt.Errorf("catalog: aggregation.column_words[%d]: column is required", i))
		}
	}

	for i, a := range c.Scope.Aliases {
		if strings.TrimSpace(a.Entity) == "" {
			errs = append(errs, fmt.Errorf("catalog: scope.aliases[%d]: entity is required", i))
		}
		if len(a.Names) == 0 {
			errs = append(errs, fmt.Errorf("catalog: scope alias for %q has no names", a.Entity))
		}
	}

	return errors.Join(errs...)
}

var leadingNumber = regexp.MustCompile(`^\d+(?:\.\d+)*\.?\s*`)

// SectionKey normalises a section title and strips its numbering, so
// "3. Conflicts of Interest" and "conflicts of interest" share a key.
func SectionKey(title string) string {
	return strings.TrimSpace(leadingNumber.ReplaceAllString(Normalize(title), ""))
}

// SectionTitles returns the policy section titles the catalog has keywords
// for, in catalog order.
func (c *Catalog) SectionTitles() []string {
	titles := make([]string, 0, len(c.Policy.Sections))
	for _, s := range c.Policy.Sections {
		titles = append(titles, s.Title)
	}
	return titles
}
