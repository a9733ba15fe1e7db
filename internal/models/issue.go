package models

import (
	"strings"
	"time"
)

// RawRow is a single record from the tracker feed, keyed by
// lowercased, trimmed header name.
type RawRow map[string]string

// Issue is one normalized tracker row with all derived metadata
// (keywords, category, risk) attached by the recompute pipeline.
type Issue struct {
	ID       string `json:"id"`
	Module   string `json:"module"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	Type     string `json:"type"`

	ModuleNorm   string `json:"module_norm"`
	PriorityNorm string `json:"priority_norm"`
	StatusNorm   string `json:"status_norm"`
	TypeNorm     string `json:"type_norm"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Log         string `json:"log"`

	Date    *time.Time `json:"date,omitempty"`
	AgeDays *int       `json:"age_days,omitempty"`

	Links    []string `json:"links"`
	Keywords []string `json:"keywords"`
	Category string   `json:"category"`

	RiskScore float64 `json:"risk_score"`
	Severity  int     `json:"severity"`
	Impact    int     `json:"impact"`
	Urgency   int     `json:"urgency"`

	IsClosed bool `json:"is_closed"`
}

// Text returns the lowercased title+description, the input for all
// keyword-based heuristics.
func (i *Issue) Text() string {
	return strings.ToLower(i.Title + " " + i.Description)
}

// SearchBlob concatenates the fields matched by free-text query terms.
func (i *Issue) SearchBlob() string {
	return strings.ToLower(i.ID + " " + i.Module + " " + i.Title + " " + i.Description + " " + i.Log)
}

// Age returns the issue age in days, or -1 when the row had no
// parseable date.
func (i *Issue) Age() int {
	if i.AgeDays == nil {
		return -1
	}
	return *i.AgeDays
}
