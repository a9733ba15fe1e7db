package services

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"opsdash/internal/models"

	"github.com/jdkato/prose/v2"
)

// KeywordResult is one keyword from the deep (POS-aware) extraction
// path, with its frequency and weighted importance.
type KeywordResult struct {
	Word      string  `json:"word"`
	Frequency int     `json:"frequency"`
	Score     float64 `json:"score"`
	PosTag    string  `json:"pos_tag"`
}

// DeepKeywordExtractor runs NLP-backed keyword analysis for a single
// issue: POS-tagged tokens, named entities, domain-term boosts and
// technical patterns (versions, error codes, URLs). This is the slow,
// rich path behind the per-issue keywords endpoint; the engine's own
// keyword field comes from the plain frequency tokenizer.
type DeepKeywordExtractor struct {
	domainBoosts map[string]float64
	minLength    int
}

// NewDeepKeywordExtractor creates an extractor tuned to the tracker
// domain.
func NewDeepKeywordExtractor() *DeepKeywordExtractor {
	return &DeepKeywordExtractor{
		domainBoosts: map[string]float64{
			"error": 2.0, "exception": 2.0, "crash": 2.5, "timeout": 2.0,
			"timezone": 2.5, "geofence": 2.5, "export": 2.0, "schedule": 2.0,
			"notification": 2.0, "sync": 2.0, "login": 2.0, "security": 2.2,
			"performance": 1.8, "payment": 2.2, "offline": 1.8,
		},
		minLength: 3,
	}
}

// Extract analyzes the issue's title and description, title weighted
// double.
func (e *DeepKeywordExtractor) Extract(issue *models.Issue, limit int) ([]KeywordResult, error) {
	text := strings.Repeat(issue.Title+" ", 2) + issue.Description

	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}

	wordFreq := make(map[string]*KeywordResult)

	for _, tok := range doc.Tokens() {
		word := strings.ToLower(tok.Text)
		if e.skip(word, tok.Tag) {
			continue
		}
		score := posScore(tok.Tag)
		if existing, ok := wordFreq[word]; ok {
			existing.Frequency++
			existing.Score += score
		} else {
			wordFreq[word] = &KeywordResult{Word: word, Frequency: 1, Score: score, PosTag: tok.Tag}
		}
	}

	// Named entities get a flat boost.
	for _, ent := range doc.Entities() {
		word := strings.ToLower(ent.Text)
		if len(word) < e.minLength || Stopwords[word] {
			continue
		}
		if existing, ok := wordFreq[word]; ok {
			existing.Score += 2.0
		} else {
			wordFreq[word] = &KeywordResult{Word: word, Frequency: 1, Score: 2.0, PosTag: "NE_" + ent.Label}
		}
	}

	// Technical patterns the POS tagger mangles.
	for _, kw := range extractTechnicalPatterns(issue.Title + " " + issue.Description) {
		if existing, ok := wordFreq[kw.Word]; ok {
			existing.Score += kw.Score
		} else {
			k := kw
			wordFreq[kw.Word] = &k
		}
	}

	var keywords []KeywordResult
	for _, result := range wordFreq {
		if boost, ok := e.domainBoosts[result.Word]; ok {
			result.Score *= boost
			result.PosTag += "_DOMAIN"
		}
		result.Score = result.Score * float64(result.Frequency)
		keywords = append(keywords, *result)
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		if keywords[i].Score != keywords[j].Score {
			return keywords[i].Score > keywords[j].Score
		}
		return keywords[i].Word < keywords[j].Word
	})

	if limit > 0 && len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords, nil
}

func (e *DeepKeywordExtractor) skip(word, posTag string) bool {
	if len(word) < e.minLength || Stopwords[word] {
		return true
	}
	if isDigits(word) || isPunctuation(word) {
		return true
	}
	switch posTag {
	case "DT", "IN", "TO", "CC", "PRP", "PRP$", "WP", "WDT":
		return true
	}
	return false
}

func posScore(posTag string) float64 {
	switch posTag {
	case "NNP", "NNPS":
		return 2.0
	case "NN", "NNS":
		return 1.5
	case "JJ", "JJR", "JJS":
		return 1.3
	case "VB", "VBD", "VBG", "VBN", "VBP", "VBZ":
		return 1.2
	case "RB", "RBR", "RBS":
		return 0.8
	default:
		return 1.0
	}
}

var technicalPatterns = map[string]*regexp.Regexp{
	"version":    regexp.MustCompile(`v?\d+\.\d+(\.\d+)?`),
	"error_code": regexp.MustCompile(`[a-z]+\d{3,}`),
	"url":        regexp.MustCompile(`https?://[^\s]+`),
}

func extractTechnicalPatterns(text string) []KeywordResult {
	text = strings.ToLower(text)
	var results []KeywordResult
	for category, pattern := range technicalPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			results = append(results, KeywordResult{
				Word:      match,
				Frequency: 1,
				Score:     2.0,
				PosTag:    "TECHNICAL_" + strings.ToUpper(category),
			})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Word < results[j].Word })
	return results
}

func isPunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return len(s) > 0
}
