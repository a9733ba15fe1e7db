package services

import (
	"math"
	"sort"

	"opsdash/internal/models"
)

// CorpusTerm is one term weighted against the whole issue corpus.
type CorpusTerm struct {
	Term     string  `json:"term"`
	DocCount int     `json:"doc_count"`
	Score    float64 `json:"score"`
}

// CorpusExtractor ranks terms by TF-IDF across the issue set, for the
// dashboard's "what is the backlog about" view. Document frequency uses
// the same tokenizer as every other heuristic.
type CorpusExtractor struct {
	docs     int
	termFreq map[string]int // total occurrences across the corpus
	docFreq  map[string]int // documents containing the term
}

// NewCorpusExtractor indexes the given issues.
func NewCorpusExtractor(issues []models.Issue) *CorpusExtractor {
	ce := &CorpusExtractor{
		docs:     len(issues),
		termFreq: make(map[string]int),
		docFreq:  make(map[string]int),
	}
	for _, issue := range issues {
		for token := range TokenSet(issue.Title + " " + issue.Description) {
			ce.docFreq[token]++
		}
		for _, token := range TopKeywords(issue.Title+" "+issue.Description, 0) {
			ce.termFreq[token]++
		}
	}
	return ce
}

// TopTerms returns the limit highest-scoring corpus terms. Terms are
// collected in sorted order first so the ranking is deterministic.
func (ce *CorpusExtractor) TopTerms(limit int) []CorpusTerm {
	if ce.docs == 0 {
		return nil
	}

	terms := make([]string, 0, len(ce.docFreq))
	for term := range ce.docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	results := make([]CorpusTerm, 0, len(terms))
	for _, term := range terms {
		df := ce.docFreq[term]
		tf := float64(ce.termFreq[term])
		idf := math.Log(float64(ce.docs)/float64(df)) + 1
		results = append(results, CorpusTerm{
			Term:     term,
			DocCount: df,
			Score:    tf * idf,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
