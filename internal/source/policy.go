package source

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/garyellow/askhr-go/internal/hr"
	"github.com/garyellow/askhr-go/internal/intent"
)

// maxHeadingRunes bounds heuristic headings; longer lines are body text.
const maxHeadingRunes = 100

var numberedHeading = regexp.MustCompile(`^\d+(?:\.\d+)*\.?\s+\S`)

// sectionBuilder accumulates sections in document order. Text before the
// first heading is dropped; a repeated heading continues the earlier
// section.
type sectionBuilder struct {
	sections []hr.PolicySection
	index    map[string]int
	current  int
}

func newSectionBuilder() *sectionBuilder {
	return &sectionBuilder{index: make(map[string]int), current: -1}
}

func (b *sectionBuilder) heading(title string) {
	title = strings.TrimSpace(title)
	key := strings.ToLower(title)
	if i, ok := b.index[key]; ok {
		b.current = i
		return
	}
	b.index[key] = len(b.sections)
	b.current = len(b.sections)
	b.sections = append(b.sections, hr.PolicySection{Title: title})
}

func (b *sectionBuilder) text(line string) {
	if b.current < 0 {
		return
	}
	s := &b.sections[b.current]
	if s.Body == "" {
		s.Body = line
		return
	}
	s.Body += "\n" + line
}

func (b *sectionBuilder) result() []hr.PolicySection {
	for i := range b.sections {
		b.sections[i].Body = strings.TrimSpace(b.sections[i].Body)
	}
	return b.sections
}

// headingMatcher decides which lines open a section. With known titles only
// those titles (numbering and case ignored) are headings; without them a
// Markdown heading, a numbered line or an all-capitals line is.
type headingMatcher struct {
	known map[string]bool
}

func newHeadingMatcher(titles []string) headingMatcher {
	m := headingMatcher{}
	if len(titles) > 0 {
		m.known = make(map[string]bool, len(titles))
		for _, t := range titles {
			m.known[intent.SectionKey(t)] = true
		}
	}
	return m
}

func (m headingMatcher) match(line string) (string, bool) {
	if md, ok := markdownHeading(line); ok {
		line = md
		if m.known == nil {
			return line, true
		}
	}
	if m.known != nil {
		return line, m.known[intent.SectionKey(line)]
	}
	if utf8.RuneCountInString(line) > maxHeadingRunes {
		return "", false
	}
	return line, numberedHeading.MatchString(line) || isUpperLine(line)
}

func markdownHeading(line string) (string, bool) {
	if !strings.HasPrefix(line, "#") {
		return "", false
	}
	title := strings.TrimSpace(strings.TrimLeft(line, "#"))
	return title, title != ""
}

// isUpperLine reports whether line has at least two letters and no
// lower-case ones.
func isUpperLine(line string) bool {
	letters := 0
	for _, r := range line {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			letters++
		}
	}
	return letters >= 2
}

// ParsePolicyText splits a plain-text or Markdown policy document into
// sections. titles is the known title list; it may be empty.
func ParsePolicyText(data []byte, titles []string) ([]hr.PolicySection, error) {
	decoded, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	b := newSectionBuilder()
	headings := newHeadingMatcher(titles)
	scanner := bufio.NewScanner(bytes.NewReader(decoded))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			b.text("")
			continue
		}
		if title, ok := headings.match(line); ok {
			b.heading(title)
			continue
		}
		b.text(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read policy text: %w", err)
	}
	return collapseBlankLines(b.result()), nil
}

// ParsePolicyHTML splits an HTML policy document on h1-h3 headings. When
// titles are given, other headings are treated as body text.
func ParsePolicyHTML(data []byte, titles []string) ([]hr.PolicySection, error) {
	decoded, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	b := newSectionBuilder()
	headings := newHeadingMatcher(titles)
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" && s.Find("p").Length() > 0 {
			return // its paragraphs are visited on their own
		}
		switch goquery.NodeName(s) {
		case "h1", "h2", "h3":
			if headings.known == nil || headings.known[intent.SectionKey(text)] {
				b.heading(text)
				return
			}
		}
		b.text(text)
		b.text("")
	})
	return collapseBlankLines(b.result()), nil
}

func collapseBlankLines(sections []hr.PolicySection) []hr.PolicySection {
	for i := range sections {
		lines := strings.Split(sections[i].Body, "\n")
		out := lines[:0]
		blank := false
		for _, l := range lines {
			if l == "" {
				if blank {
					continue
				}
				blank = true
			} else {
				blank = false
			}
			out = append(out, l)
		}
		sections[i].Body = strings.Join(out, "\n")
	}
	return sections
}
