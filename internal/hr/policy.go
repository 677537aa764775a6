package hr

import (
	"fmt"
	"strings"
	"unicode"

	domerrors "github.com/garyellow/askhr-go/internal/errors"
)

// PolicySection is one titled part of the policy document.
type PolicySection struct {
	Title   string `json:"title"`
	Ordinal int    `json:"ordinal"`
	Body    string `json:"body"`
}

// IsNumbered reports whether the title begins with a digit ("3. Conflicts of
// Interest"). Front matter such as "CEO Message" is not numbered.
func (s PolicySection) IsNumbered() bool {
	for _, r := range s.Title {
		return unicode.IsDigit(r)
	}
	return false
}

// Corpus is the ordered, immutable set of policy sections.
type Corpus struct {
	sections []PolicySection
	byTitle  map[string]int
}

// NewCorpus keeps source order and assigns ordinals from 1. Titles must be
// non-empty and unique (case-insensitive); bodies may be empty.
func NewCorpus(sections []PolicySection) (*Corpus, error) {
	c := &Corpus{
		sections: make([]PolicySection, 0, len(sections)),
		byTitle:  make(map[string]int, len(sections)),
	}
	for _, s := range sections {
		s.Title = strings.TrimSpace(s.Title)
		if s.Title == "" {
			return nil, fmt.Errorf("%w: policy section %d has no title", domerrors.ErrInvalidInput, len(c.sections)+1)
		}
		key := strings.ToLower(s.Title)
		if _, dup := c.byTitle[key]; dup {
			return nil, fmt.Errorf("%w: policy section %q", domerrors.ErrDuplicateKey, s.Title)
		}
		s.Ordinal = len(c.sections) + 1
		c.byTitle[key] = len(c.sections)
		c.sections = append(c.sections, s)
	}
	return c, nil
}

// Sections returns every section in document order.
func (c *Corpus) Sections() []PolicySection {
	out := make([]PolicySection, len(c.sections))
	copy(out, c.sections)
	return out
}

// Section returns the section with the given title (case-insensitive).
func (c *Corpus) Section(title string) (PolicySection, bool) {
	i, ok := c.byTitle[strings.ToLower(strings.TrimSpace(title))]
	if !ok {
		return PolicySection{}, false
	}
	return c.sections[i], true
}

// Titles returns all titles in document order.
func (c *Corpus) Titles() []string {
	out := make([]string, len(c.sections))
	for i, s := range c.sections {
		out[i] = s.Title
	}
	return out
}

// Numbered returns the sections whose title begins with a numeral.
func (c *Corpus) Numbered() []PolicySection {
	var out []PolicySection
	for _, s := range c.sections {
		if s.IsNumbered() {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of sections.
func (c *Corpus) Len() int {
	return len(c.sections)
}
