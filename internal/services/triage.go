package services

import (
	"fmt"
	"sort"
	"strings"

	"opsdash/internal/models"
)

const triageCap = 15

// TriageItem is one flagged open issue with the reasons it was flagged
// and its review-ranking score.
type TriageItem struct {
	Issue   models.Issue `json:"issue"`
	Score   float64      `json:"score"`
	Reasons []string     `json:"reasons"`
}

// BuildTriageQueue flags open issues whose metadata looks inconsistent
// with their computed risk and ranks them for human review. The result
// is capped to the top fifteen.
func BuildTriageQueue(issues []models.Issue) []TriageItem {
	var queue []TriageItem

	for _, issue := range issues {
		if issue.IsClosed {
			continue
		}

		var reasons []string

		if (issue.PriorityNorm == "medium" || strings.TrimSpace(issue.Priority) == "") && issue.RiskScore >= 7 {
			reasons = append(reasons, "risk high but priority medium/unspecified")
		}

		if (issue.TypeNorm == "Bug" || strings.TrimSpace(issue.Type) == "") &&
			strings.Contains(issue.Text(), triageRegressionMarker) {
			reasons = append(reasons, "possible regression after release")
		}

		if issue.Age() > 21 && issue.RiskScore >= 5 {
			reasons = append(reasons, fmt.Sprintf("aged %dd and still open", issue.Age()))
		}

		if missing := missingFields(&issue); len(missing) > 0 {
			reasons = append(reasons, "missing: "+strings.Join(missing, ", "))
		}

		if len(reasons) == 0 {
			continue
		}

		age := issue.Age()
		if age < 0 {
			age = 0
		}
		queue = append(queue, TriageItem{
			Issue:   issue,
			Score:   issue.RiskScore + float64(age)/7 + float64(len(reasons)),
			Reasons: reasons,
		})
	}

	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].Score > queue[j].Score
	})
	if len(queue) > triageCap {
		queue = queue[:triageCap]
	}
	return queue
}

func missingFields(issue *models.Issue) []string {
	var missing []string
	if strings.TrimSpace(issue.Priority) == "" {
		missing = append(missing, "priority")
	}
	if strings.TrimSpace(issue.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(issue.Module) == "" || issue.ModuleNorm == "Unspecified" {
		missing = append(missing, "module")
	}
	return missing
}
