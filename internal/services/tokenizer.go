package services

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var tokenSplit = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenize extracts the de-duplicated meaningful tokens from free text,
// in first-encountered order. Tokens shorter than three characters,
// pure digits and stopwords are dropped.
func Tokenize(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range tokenSplit.Split(strings.ToLower(text), -1) {
		if !keepToken(tok) || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// TokenSet is Tokenize as a membership set.
func TokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Tokenize(text) {
		set[tok] = true
	}
	return set
}

// TopKeywords returns the top-n tokens of the text ranked by raw
// frequency, ties broken by first-encountered order.
func TopKeywords(text string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, tok := range tokenSplit.Split(strings.ToLower(text), -1) {
		if !keepToken(tok) {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if n > 0 && len(order) > n {
		order = order[:n]
	}
	return order
}

func keepToken(tok string) bool {
	if len(tok) < 3 || Stopwords[tok] {
		return false
	}
	return !isDigits(tok)
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
