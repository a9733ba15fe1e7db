package services

import (
	"sort"

	"opsdash/internal/models"
)

const (
	trendEmergingMinNew    = 3
	trendEmergingMinGrowth = 2
	trendEmergingMinRatio  = 1.5
	trendStableMinNew      = 4
	trendStableMaxDelta    = 2
	trendTopN              = 8
)

// TrendTerm is one keyword with its per-window document frequencies.
type TrendTerm struct {
	Term     string `json:"term"`
	OldCount int    `json:"old_count"`
	NewCount int    `json:"new_count"`
}

// TrendReport separates rising themes from persistent ones.
type TrendReport struct {
	Emerging []TrendTerm `json:"emerging"`
	Stable   []TrendTerm `json:"stable"`
}

// AnalyzeTrends compares keyword frequency between the older and newer
// halves of the dated issues. The split is by index after a
// chronological sort, not by elapsed time, and each window counts a
// term at most once per issue (document frequency).
func AnalyzeTrends(issues []models.Issue) TrendReport {
	var dated []models.Issue
	for _, issue := range issues {
		if issue.Date != nil {
			dated = append(dated, issue)
		}
	}
	if len(dated) < 2 {
		return TrendReport{}
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Date.Before(*dated[j].Date)
	})

	mid := len(dated) / 2
	oldFreq := windowFrequency(dated[:mid])
	newFreq := windowFrequency(dated[mid:])

	// Collect candidate terms in a deterministic order before ranking.
	terms := make([]string, 0, len(newFreq))
	for term := range newFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	var report TrendReport
	for _, term := range terms {
		newCount := newFreq[term]
		oldCount := oldFreq[term]

		// Zero old count defaults the ratio to the new count itself, so
		// a brand-new term qualifies whenever its growth does.
		ratio := float64(newCount)
		if oldCount > 0 {
			ratio = float64(newCount) / float64(oldCount)
		}

		if newCount >= trendEmergingMinNew &&
			newCount-oldCount >= trendEmergingMinGrowth &&
			ratio >= trendEmergingMinRatio {
			report.Emerging = append(report.Emerging, TrendTerm{term, oldCount, newCount})
		}

		if newCount >= trendStableMinNew && absInt(newCount-oldCount) <= trendStableMaxDelta {
			report.Stable = append(report.Stable, TrendTerm{term, oldCount, newCount})
		}
	}

	report.Emerging = topTrendTerms(report.Emerging)
	report.Stable = topTrendTerms(report.Stable)
	return report
}

func windowFrequency(issues []models.Issue) map[string]int {
	freq := make(map[string]int)
	for _, issue := range issues {
		for token := range TokenSet(issue.Title + " " + issue.Description) {
			freq[token]++
		}
	}
	return freq
}

func topTrendTerms(terms []TrendTerm) []TrendTerm {
	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].NewCount > terms[j].NewCount
	})
	if len(terms) > trendTopN {
		terms = terms[:trendTopN]
	}
	return terms
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
