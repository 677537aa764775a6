// Package rag ranks policy sections against free text with BM25. The
// ranked excerpts ground general answers in the company's own policy.
package rag

import (
	"fmt"
	"slices"
	"strings"

	bm25 "github.com/iwilltry42/bm25-go/bm25"

	"github.com/garyellow/askhr-go/internal/hr"
	"github.com/garyellow/askhr-go/internal/intent"
	"github.com/garyellow/askhr-go/internal/logger"
)

// Standard BM25 parameters.
const (
	k1 = 1.5
	b  = 0.75
)

// Hit is a ranked policy section.
type Hit struct {
	Section hr.PolicySection
	Score   float64 // BM25 score, higher is better
	Rank    int     // 1-indexed
}

// PolicyIndex is an immutable BM25 index over policy sections. It is safe
// for concurrent use.
type PolicyIndex struct {
	okapi    *bm25.BM25Okapi
	sections []hr.PolicySection
}

// NewPolicyIndex indexes every section with a non-empty body. The title is
// indexed along with the body.
func NewPolicyIndex(sections []hr.PolicySection, log *logger.Logger) (*PolicyIndex, error) {
	idx := &PolicyIndex{}

	var corpus []string
	for _, s := range sections {
		if strings.TrimSpace(s.Body) == "" {
			continue
		}
		idx.sections = append(idx.sections, s)
		corpus = append(corpus, s.Title+"\n"+s.Body)
	}
	if len(corpus) == 0 {
		return idx, nil
	}

	okapi, err := bm25.NewBM25Okapi(corpus, Tokenize, k1, b, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create BM25 index: %w", err)
	}
	idx.okapi = okapi

	if log != nil {
		log.WithField("docs", len(corpus)).Info("Policy BM25 index initialized")
	}
	return idx, nil
}

// Count returns the number of indexed sections.
func (idx *PolicyIndex) Count() int {
	if idx == nil {
		return 0
	}
	return len(idx.sections)
}

// Search returns up to topN sections with a positive score, best first.
func (idx *PolicyIndex) Search(query string, topN int) ([]Hit, error) {
	if idx == nil || idx.okapi == nil {
		return nil, nil
	}
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	scores, err := idx.okapi.GetScores(tokens)
	if err != nil {
		return nil, fmt.Errorf("BM25 scoring failed: %w", err)
	}

	var hits []Hit
	for i, score := range scores {
		if score > 0 && i < len(idx.sections) {
			hits = append(hits, Hit{Section: idx.sections[i], Score: score})
		}
	}
	// Ties keep document order.
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	if topN > 0 && len(hits) > topN {
		hits = hits[:topN]
	}
	for i := range hits {
		hits[i].Rank = i + 1
	}
	return hits, nil
}

// stopwords are frequent English function words that carry no topic.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "can": true, "do": true, "does": true, "for": true,
	"from": true, "how": true, "i": true, "if": true, "in": true, "is": true,
	"it": true, "me": true, "my": true, "of": true, "on": true, "or": true,
	"should": true, "the": true, "to": true, "we": true, "what": true,
	"when": true, "which": true, "who": true, "with": true, "you": true,
	"your": true, "our": true, "this": true, "that": true, "there": true,
}

// Tokenize normalises text the same way the intent matcher does (case,
// diacritics, Arabic letter forms) and splits it into terms.
func Tokenize(text string) []string {
	fields := strings.Fields(intent.Normalize(text))
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "-.&'")
		if f == "" || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
