package services

import (
	"sort"
	"strings"

	"opsdash/internal/models"
)

// Categorize assigns the single best-fit topic label for an issue's
// lowercased title+description. Rules are evaluated in fixed order and
// the first match wins; order is significant.
func Categorize(text string) string {
	text = strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, term := range rule.Terms {
			if strings.Contains(text, term) {
				return rule.Label
			}
		}
	}
	return CategoryFallback
}

// Bucket is one thematic dashboard cluster. Issues holds at most seven
// representative members in input order; MatchCount is the full tally.
type Bucket struct {
	Name       string         `json:"name"`
	MatchCount int            `json:"match_count"`
	Issues     []models.Issue `json:"issues"`
}

// ClusterBuckets groups issues into the fixed thematic buckets for the
// dashboard. An issue may appear in several buckets; buckets with no
// matches are omitted.
func ClusterBuckets(issues []models.Issue) []Bucket {
	var out []Bucket
	for _, rule := range bucketRules {
		bucket := Bucket{Name: rule.Name}
		for _, issue := range issues {
			text := issue.Text()
			matched := false
			for _, term := range rule.Terms {
				if strings.Contains(text, term) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
			bucket.MatchCount++
			if len(bucket.Issues) < bucketDisplayCap {
				bucket.Issues = append(bucket.Issues, issue)
			}
		}
		if bucket.MatchCount > 0 {
			out = append(out, bucket)
		}
	}
	return out
}

// LabelScore is one hit-counted label from the ranked multi-label
// scheme.
type LabelScore struct {
	Label string `json:"label"`
	Hits  int    `json:"hits"`
}

// AggregateLabels sums per-issue label hits over the whole dataset for
// the clusters view, ordered by total hits.
func AggregateLabels(issues []models.Issue) []LabelScore {
	totals := make(map[string]int)
	for i := range issues {
		for _, score := range RankedLabels(issues[i].Title + " " + issues[i].Description) {
			totals[score.Label] += score.Hits
		}
	}
	var out []LabelScore
	for _, rule := range labelRules {
		if hits := totals[rule.Label]; hits > 0 {
			out = append(out, LabelScore{Label: rule.Label, Hits: hits})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Hits > out[j].Hits
	})
	return out
}

// RankedLabels counts keyword hits per analytics label and returns all
// labels with at least one hit, most hits first. This is distinct from
// Categorize: an issue gets exactly one category but any number of
// labels, and the two vocabularies serve different views.
func RankedLabels(text string) []LabelScore {
	text = strings.ToLower(text)
	var out []LabelScore
	for _, rule := range labelRules {
		hits := 0
		for _, term := range rule.Terms {
			if strings.Contains(text, term) {
				hits++
			}
		}
		if hits > 0 {
			out = append(out, LabelScore{Label: rule.Label, Hits: hits})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Hits > out[j].Hits
	})
	return out
}
