package services

import (
	"math"
	"strings"

	"opsdash/internal/models"
)

// RiskAssessment is the output of a risk strategy. Total is on the
// strategy's own scale; the sub-dimensions are small integers.
type RiskAssessment struct {
	Total       float64  `json:"total"`
	Severity    int      `json:"severity"`
	Impact      int      `json:"impact"`
	Urgency     int      `json:"urgency"`
	Technical   int      `json:"technical,omitempty"`
	Business    int      `json:"business,omitempty"`
	Operational int      `json:"operational,omitempty"`
	Time        int      `json:"time,omitempty"`
	Reasons     []string `json:"reasons,omitempty"`
}

// RiskStrategy scores one issue. Implementations must be pure: the
// same issue always yields the same assessment, with no state carried
// across calls. The two strategies are deliberately kept separate: the
// dashboard depends on the bounded 1-10 scale, the analytics views on
// the unbounded weighted one.
type RiskStrategy interface {
	Name() string
	Score(issue *models.Issue) RiskAssessment
}

// BoundedRiskStrategy is the dashboard scorer: a priority base adjusted
// by type, module exposure, age, status and keyword bonuses, clamped
// into [1,10] with one decimal.
type BoundedRiskStrategy struct{}

func NewBoundedRiskStrategy() *BoundedRiskStrategy {
	return &BoundedRiskStrategy{}
}

func (s *BoundedRiskStrategy) Name() string { return "bounded" }

func (s *BoundedRiskStrategy) Score(issue *models.Issue) RiskAssessment {
	total := priorityBase(issue.PriorityNorm)

	switch issue.TypeNorm {
	case "Bug":
		total += 2
	case "Enhancement":
		total -= 1
	}

	total += moduleWeights[issue.ModuleNorm]

	if !issue.IsClosed {
		switch age := issue.Age(); {
		case age > 60:
			total += 1.5
		case age > 30:
			total += 1
		case age > 14:
			total += 0.5
		}
	}

	status := strings.ToLower(issue.StatusNorm)
	if strings.Contains(status, "on hold") {
		total += 0.5
	}
	if strings.Contains(status, "under development") {
		total += 0.5
	}
	if strings.Contains(status, "on stage") || strings.Contains(status, "tested on staging") {
		total += 0.5
	}

	// Each distinct bonus phrase present adds one point. Additive and
	// uncapped: the clamp below is the only ceiling.
	text := issue.Text()
	for _, phrase := range bonusKeywords {
		if strings.Contains(text, phrase) {
			total++
		}
	}

	total = round1(clamp(total, 1, 10))

	return RiskAssessment{
		Total:    total,
		Severity: bandOf(total, 8, 5),
		Impact:   impactBand(issue, total),
		Urgency:  urgencyBand(issue.PriorityNorm),
	}
}

func priorityBase(priorityNorm string) float64 {
	switch priorityNorm {
	case "urgent":
		return 9
	case "high":
		return 7
	case "medium":
		return 5
	case "low":
		return 2
	default:
		return 4
	}
}

func bandOf(total float64, hi, mid float64) int {
	switch {
	case total >= hi:
		return 3
	case total >= mid:
		return 2
	default:
		return 1
	}
}

func impactBand(issue *models.Issue, total float64) int {
	w := moduleWeights[issue.ModuleNorm]
	switch {
	case w >= 1.5 && total >= 7:
		return 3
	case w > 0:
		return 2
	default:
		return 1
	}
}

func urgencyBand(priorityNorm string) int {
	switch priorityNorm {
	case "urgent":
		return 3
	case "high":
		return 2
	default:
		return 1
	}
}

// WeightedRiskStrategy is the analytics scorer: seven dimensions
// starting at 1, bumped by keyword categories and recency, aligned
// across dimensions, then combined into a weighted total on a 0-24
// scale.
type WeightedRiskStrategy struct{}

func NewWeightedRiskStrategy() *WeightedRiskStrategy {
	return &WeightedRiskStrategy{}
}

func (s *WeightedRiskStrategy) Name() string { return "weighted" }

const dimensionCap = 6

func (s *WeightedRiskStrategy) Score(issue *models.Issue) RiskAssessment {
	severity, impact, urgency := 1, 1, 1
	technical, business, operational, timeDim := 1, 1, 1, 1
	var reasons []string
	seen := make(map[string]bool)

	addReason := func(r string) {
		if !seen[r] {
			seen[r] = true
			reasons = append(reasons, r)
		}
	}

	text := issue.Text()
	for _, rule := range dimensionRules {
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
		severity = bump(severity, rule.Severity)
		impact = bump(impact, rule.Impact)
		urgency = bump(urgency, rule.Urgency)
		technical = bump(technical, rule.Technical)
		business = bump(business, rule.Business)
		operational = bump(operational, rule.Operational)
		timeDim = bump(timeDim, rule.Time)
		addReason(rule.Reason)
	}

	switch age := issue.Age(); {
	case age >= 0 && age <= 7:
		urgency = bump(urgency, 2)
		timeDim = bump(timeDim, 1)
		addReason("reported within the last week")
	case age > 90:
		urgency = decay(urgency, 1)
		timeDim = decay(timeDim, 1)
		addReason("aged over 90 days")
	}

	if issue.IsClosed {
		urgency = decay(urgency, 2)
		timeDim = decay(timeDim, 2)
		operational = decay(operational, 1)
		addReason("already closed")
	}

	// Cross-dimension alignment: a technically severe issue cannot be
	// rated technically trivial, and so on.
	technical = maxInt(technical, severity)
	business = maxInt(business, impact)
	operational = maxInt(operational, (severity+impact)/2)
	timeDim = maxInt(timeDim, urgency)

	total := float64(severity)*0.9 +
		float64(impact)*1.0 +
		float64(urgency)*0.8 +
		float64(technical)*0.8 +
		float64(business)*0.9 +
		float64(operational)*0.7 +
		float64(timeDim)*0.7
	total = math.Round(clamp(total, 0, 24))

	return RiskAssessment{
		Total:       total,
		Severity:    severity,
		Impact:      impact,
		Urgency:     urgency,
		Technical:   technical,
		Business:    business,
		Operational: operational,
		Time:        timeDim,
		Reasons:     reasons,
	}
}

func bump(dim, by int) int {
	if by == 0 {
		return dim
	}
	dim += by
	if dim > dimensionCap {
		return dimensionCap
	}
	return dim
}

func decay(dim, by int) int {
	dim -= by
	if dim < 1 {
		return 1
	}
	return dim
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
