package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"opsdash/internal/models"
)

// Query is the parsed form of one line of the filter language. Zero
// values mean "no constraint". All constraints are AND-combined.
type Query struct {
	Module   string
	Status   string
	Priority string
	Type     string
	ID       string

	Missing []string // priority, status, module, type

	MinRisk     *float64
	MinSeverity *int
	MinImpact   *int
	MinUrgency  *int

	LastDays    *int // issue date within last N days of now
	AgeOverDays *int // issue age strictly greater than N days

	Sort  string // risk (default), date, priority
	Terms []string
}

var dayValue = regexp.MustCompile(`^(\d+)d$`)

// ParseQuery tokenizes a query line on whitespace. Tokens it cannot
// interpret fall back to free-text terms; the parser never errors.
func ParseQuery(line string) Query {
	q := Query{Sort: "risk"}

	for _, token := range strings.Fields(line) {
		if parseFilterToken(&q, token) {
			continue
		}
		q.Terms = append(q.Terms, strings.ToLower(token))
	}
	return q
}

func parseFilterToken(q *Query, token string) bool {
	// >= before > so "risk>=8" is not read as "risk>" with value "=8".
	if idx := strings.Index(token, ">="); idx > 0 {
		return parseMinimum(q, token[:idx], token[idx+2:])
	}
	if idx := strings.Index(token, ">"); idx > 0 {
		key, val := token[:idx], token[idx+1:]
		if strings.ToLower(key) != "age" {
			return false
		}
		if m := dayValue.FindStringSubmatch(val); m != nil {
			n, _ := strconv.Atoi(m[1])
			q.AgeOverDays = &n
			return true
		}
		return false
	}
	idx := strings.Index(token, ":")
	if idx <= 0 {
		return false
	}
	key, val := strings.ToLower(token[:idx]), token[idx+1:]
	if val == "" {
		return false
	}

	switch key {
	case "module":
		q.Module = strings.ToLower(val)
	case "status":
		q.Status = strings.ToLower(val)
	case "priority":
		q.Priority = strings.ToLower(val)
	case "type":
		q.Type = strings.ToLower(val)
	case "id":
		q.ID = strings.ToLower(val)
	case "missing":
		switch strings.ToLower(val) {
		case "priority", "status", "module", "type":
			q.Missing = append(q.Missing, strings.ToLower(val))
		default:
			return false
		}
	case "last":
		m := dayValue.FindStringSubmatch(val)
		if m == nil {
			return false
		}
		n, _ := strconv.Atoi(m[1])
		q.LastDays = &n
	case "sort":
		switch strings.ToLower(val) {
		case "risk", "date", "priority":
			q.Sort = strings.ToLower(val)
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func parseMinimum(q *Query, key, val string) bool {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return false
	}
	n := int(f)
	switch strings.ToLower(key) {
	case "risk":
		q.MinRisk = &f
	case "severity":
		q.MinSeverity = &n
	case "impact":
		q.MinImpact = &n
	case "urgency":
		q.MinUrgency = &n
	default:
		return false
	}
	return true
}

// Run filters and sorts the issue set. now anchors the relative date
// filters so the whole operation stays a pure function of its inputs.
func (q Query) Run(issues []models.Issue, now time.Time) []models.Issue {
	var out []models.Issue
	for _, issue := range issues {
		if q.matches(&issue, now) {
			out = append(out, issue)
		}
	}
	q.sortIssues(out)
	return out
}

func (q Query) matches(issue *models.Issue, now time.Time) bool {
	if q.Module != "" && !strings.Contains(strings.ToLower(issue.ModuleNorm), q.Module) &&
		!strings.Contains(strings.ToLower(issue.Module), q.Module) {
		return false
	}
	if q.Status != "" && !strings.Contains(strings.ToLower(issue.StatusNorm), q.Status) &&
		!strings.Contains(strings.ToLower(issue.Status), q.Status) {
		return false
	}
	if q.Priority != "" && !strings.Contains(issue.PriorityNorm, q.Priority) {
		return false
	}
	if q.Type != "" && !strings.Contains(strings.ToLower(issue.TypeNorm), q.Type) {
		return false
	}
	if q.ID != "" && !strings.Contains(strings.ToLower(issue.ID), q.ID) {
		return false
	}

	for _, field := range q.Missing {
		if !fieldMissing(issue, field) {
			return false
		}
	}

	if q.MinRisk != nil && issue.RiskScore < *q.MinRisk {
		return false
	}
	if q.MinSeverity != nil && issue.Severity < *q.MinSeverity {
		return false
	}
	if q.MinImpact != nil && issue.Impact < *q.MinImpact {
		return false
	}
	if q.MinUrgency != nil && issue.Urgency < *q.MinUrgency {
		return false
	}

	if q.LastDays != nil {
		if issue.Date == nil || issue.Date.Before(now.AddDate(0, 0, -*q.LastDays)) {
			return false
		}
	}
	if q.AgeOverDays != nil && issue.Age() <= *q.AgeOverDays {
		return false
	}

	if len(q.Terms) > 0 {
		blob := issue.SearchBlob()
		for _, term := range q.Terms {
			if !strings.Contains(blob, term) {
				return false
			}
		}
	}
	return true
}

func fieldMissing(issue *models.Issue, field string) bool {
	switch field {
	case "priority":
		return strings.TrimSpace(issue.Priority) == ""
	case "status":
		return strings.TrimSpace(issue.Status) == ""
	case "type":
		return strings.TrimSpace(issue.Type) == ""
	case "module":
		return strings.TrimSpace(issue.Module) == "" || issue.ModuleNorm == "Unspecified"
	default:
		return false
	}
}

var priorityRank = map[string]int{"urgent": 4, "high": 3, "medium": 2, "low": 1}

func (q Query) sortIssues(issues []models.Issue) {
	switch q.Sort {
	case "date":
		sort.SliceStable(issues, func(i, j int) bool {
			di, dj := issues[i].Date, issues[j].Date
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return di.After(*dj)
		})
	case "priority":
		sort.SliceStable(issues, func(i, j int) bool {
			return priorityRank[issues[i].PriorityNorm] > priorityRank[issues[j].PriorityNorm]
		})
	default:
		sort.SliceStable(issues, func(i, j int) bool {
			return issues[i].RiskScore > issues[j].RiskScore
		})
	}
}
