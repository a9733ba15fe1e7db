package services

import (
	"sort"
	"strings"
	"time"

	"opsdash/internal/models"
)

// slotStartHours are the four candidate start-of-slot hours per day.
var slotStartHours = []int{6, 10, 15, 22}

const slotDuration = time.Hour

// PlanContext describes the release being scheduled.
type PlanContext struct {
	Env             models.Environment `json:"env"`
	ReleaseType     string             `json:"release_type"` // major, feature, patch
	AffectedModules []string           `json:"affected_modules"`
	Description     string             `json:"description"`
	HorizonDays     int                `json:"horizon_days"`
	MaxSlotsPerDay  int                `json:"max_slots_per_day"`
}

// Slot is one scored candidate window. Lower score means safer.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Score float64   `json:"score"`
}

// SuggestSlots generates the candidate slots over the horizon, scores
// each against the open-issue risk picture and the existing calendar,
// and greedily picks up to MaxSlotsPerDay per day in score order,
// safest first.
func SuggestSlots(ctx PlanContext, openIssues []models.Issue, events []models.Event, now time.Time) []Slot {
	if ctx.HorizonDays <= 0 {
		ctx.HorizonDays = 7
	}
	if ctx.MaxSlotsPerDay <= 0 {
		ctx.MaxSlotsPerDay = 2
	}

	moduleRisk := modulePenalty(ctx.AffectedModules, openIssues)
	textRisk := descriptionPenalty(ctx.Description)

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var candidates []Slot
	for d := 0; d < ctx.HorizonDays; d++ {
		for _, hour := range slotStartHours {
			start := day.AddDate(0, 0, d).Add(time.Duration(hour) * time.Hour)
			candidates = append(candidates, Slot{
				Start: start,
				End:   start.Add(slotDuration),
				Score: round1(slotScore(ctx, start, events) + moduleRisk + textRisk),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score < candidates[j].Score
	})

	// Greedy selection: best scores first, capped per calendar day.
	perDay := make(map[string]int)
	limit := ctx.MaxSlotsPerDay * ctx.HorizonDays
	var out []Slot
	for _, slot := range candidates {
		key := slot.Start.Format("2006-01-02")
		if perDay[key] >= ctx.MaxSlotsPerDay {
			continue
		}
		perDay[key]++
		out = append(out, slot)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func slotScore(ctx PlanContext, start time.Time, events []models.Event) float64 {
	score := plannerEnvBase(ctx.Env) + releaseTypePenalty(ctx.ReleaseType)

	hour := start.Hour()
	if (hour >= 11 && hour <= 15) || (hour >= 18 && hour <= 22) {
		score += 3 // lunch/dinner rush
	}
	if wd := start.Weekday(); wd == time.Friday || wd == time.Saturday {
		score += 1
	}

	// Existing same-env events within a +-2h window of the slot.
	windowStart := start.Add(-2 * time.Hour)
	windowEnd := start.Add(slotDuration).Add(2 * time.Hour)
	for i := range events {
		if events[i].Env != ctx.Env {
			continue
		}
		if !events[i].Start.After(windowEnd) && !windowStart.After(events[i].EffectiveEnd()) {
			score += 1.5
		}
	}
	return score
}

func plannerEnvBase(env models.Environment) float64 {
	switch env {
	case models.Prod:
		return 4
	case models.Staging:
		return 2.5
	default:
		return 1.5
	}
}

func releaseTypePenalty(releaseType string) float64 {
	switch strings.ToLower(strings.TrimSpace(releaseType)) {
	case "major":
		return 3
	case "patch":
		return 1
	default:
		return 2 // feature, and anything unrecognized
	}
}

// modulePenalty is environment-agnostic: open issues in the affected
// modules raise the risk of shipping anywhere.
func modulePenalty(affected []string, openIssues []models.Issue) float64 {
	want := make(map[string]bool, len(affected))
	for _, m := range affected {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			want[m] = true
		}
	}
	if len(want) == 0 {
		return 0
	}
	penalty := 0.0
	for _, issue := range openIssues {
		if !want[strings.ToLower(issue.ModuleNorm)] {
			continue
		}
		if issue.RiskScore >= highRiskThreshold {
			penalty += 0.6
		} else {
			penalty += 0.3
		}
	}
	return penalty
}

func descriptionPenalty(description string) float64 {
	tokens := TokenSet(description)
	for _, term := range plannerRiskyTerms {
		if tokens[term] {
			return 1
		}
	}
	return 0
}
