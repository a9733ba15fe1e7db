package services

import (
	"strings"

	"opsdash/internal/models"
)

// highRiskThreshold marks an issue as high-risk for event scoring and
// slot planning.
const highRiskThreshold = 7.0

// ComputeEventRisk scores a scheduled event against the current open
// issues. Unlike the issue score there is no ceiling: an event touching
// many hot modules can legitimately exceed 10.
func ComputeEventRisk(event *models.Event, openIssues []models.Issue) float64 {
	total := envWeight(event.Env) + typeWeight(event.Type) + impactWeight(event.ImpactType)

	related := relatedIssues(event.ModuleList(), openIssues)
	for _, issue := range related {
		if issue.RiskScore >= highRiskThreshold {
			total += 0.7
		} else {
			total += 0.35
		}
	}

	if event.IssueID != "" {
		for _, issue := range openIssues {
			if issue.ID == event.IssueID && issue.RiskScore >= highRiskThreshold {
				total += 1.5
				break
			}
		}
	}

	return round1(total)
}

func envWeight(env models.Environment) float64 {
	switch env {
	case models.Prod:
		return 3
	case models.Staging:
		return 2
	default:
		return 1
	}
}

func typeWeight(t models.EventType) float64 {
	switch t {
	case models.Deployment:
		return 3
	case models.Release, models.Maintenance:
		return 2
	default:
		return 1
	}
}

func impactWeight(i models.ImpactType) float64 {
	switch i {
	case models.HighRiskChange:
		return 3
	case models.CustomerVisible:
		return 2
	case models.InternalOnly:
		return 1
	default:
		return 0
	}
}

// relatedIssues returns the open issues whose normalized module appears
// in the event's module list, compared case-insensitively.
func relatedIssues(eventModules []string, openIssues []models.Issue) []models.Issue {
	if len(eventModules) == 0 {
		return nil
	}
	want := make(map[string]bool, len(eventModules))
	for _, m := range eventModules {
		want[m] = true
	}
	var out []models.Issue
	for _, issue := range openIssues {
		if want[strings.ToLower(issue.ModuleNorm)] {
			out = append(out, issue)
		}
	}
	return out
}

// Collision pairs two events sharing an environment whose intervals
// overlap inclusively.
type Collision struct {
	EventA string `json:"event_a"`
	EventB string `json:"event_b"`
}

// DetectCollisions checks every pair of events. An event's end defaults
// to its start when absent.
func DetectCollisions(events []models.Event) []Collision {
	var out []Collision
	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			if EventsCollide(&events[i], &events[j]) {
				out = append(out, Collision{EventA: events[i].ID, EventB: events[j].ID})
			}
		}
	}
	return out
}

// EventsCollide reports whether two events share an environment and
// overlap in time, endpoints included.
func EventsCollide(a, b *models.Event) bool {
	if a.Env != b.Env {
		return false
	}
	return !a.Start.After(b.EffectiveEnd()) && !b.Start.After(a.EffectiveEnd())
}
