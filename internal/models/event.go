package models

import (
	"fmt"
	"strings"
	"time"
)

type EventType int

const (
	Deployment EventType = iota
	Maintenance
	Release
	OtherEvent
)

func (t EventType) String() string {
	switch t {
	case Deployment:
		return "Deployment"
	case Maintenance:
		return "Maintenance"
	case Release:
		return "Release"
	default:
		return "Other"
	}
}

// MarshalJSON converts EventType to JSON string
func (t EventType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON converts JSON string to EventType
func (t *EventType) UnmarshalJSON(data []byte) error {
	*t = ParseEventType(unquote(data))
	return nil
}

// ParseEventType maps a free-form label to an EventType, defaulting
// to Other for anything unrecognized.
func ParseEventType(s string) EventType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deployment", "deploy":
		return Deployment
	case "maintenance":
		return Maintenance
	case "release":
		return Release
	default:
		return OtherEvent
	}
}

type Environment int

const (
	Prod Environment = iota
	Staging
	Dev
	OtherEnv
)

func (e Environment) String() string {
	switch e {
	case Prod:
		return "Prod"
	case Staging:
		return "Staging"
	case Dev:
		return "Dev"
	default:
		return "Other"
	}
}

// MarshalJSON converts Environment to JSON string
func (e Environment) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.String() + `"`), nil
}

// UnmarshalJSON converts JSON string to Environment
func (e *Environment) UnmarshalJSON(data []byte) error {
	*e = ParseEnvironment(unquote(data))
	return nil
}

// ParseEnvironment maps a free-form label to an Environment,
// defaulting to Other.
func ParseEnvironment(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prod", "production":
		return Prod
	case "staging", "stage":
		return Staging
	case "dev", "development":
		return Dev
	default:
		return OtherEnv
	}
}

type ImpactType int

const (
	NoDowntime ImpactType = iota
	InternalOnly
	CustomerVisible
	HighRiskChange
)

func (i ImpactType) String() string {
	switch i {
	case InternalOnly:
		return "Internal only"
	case CustomerVisible:
		return "Customer visible"
	case HighRiskChange:
		return "High risk change"
	default:
		return "No downtime expected"
	}
}

// MarshalJSON converts ImpactType to JSON string
func (i ImpactType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + i.String() + `"`), nil
}

// UnmarshalJSON converts JSON string to ImpactType
func (i *ImpactType) UnmarshalJSON(data []byte) error {
	*i = ParseImpactType(unquote(data))
	return nil
}

// ParseImpactType maps a free-form label to an ImpactType, defaulting
// to NoDowntime.
func ParseImpactType(s string) ImpactType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "internal only", "internal":
		return InternalOnly
	case "customer visible", "customer":
		return CustomerVisible
	case "high risk change", "high risk", "high-risk":
		return HighRiskChange
	default:
		return NoDowntime
	}
}

func unquote(data []byte) string {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	return str
}

// Event is a scheduled operational activity on the ops calendar.
// Start is required; End defaults to Start for duration purposes.
type Event struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Type        EventType   `json:"type"`
	Env         Environment `json:"env"`
	Status      string      `json:"status"`
	Owner       string      `json:"owner"`
	Description string      `json:"description"`
	Modules     string      `json:"modules"` // comma-separated affected module names
	ImpactType  ImpactType  `json:"impact_type"`
	IssueID     string      `json:"issue_id,omitempty"`
	Start       time.Time   `json:"start"`
	End         *time.Time  `json:"end,omitempty"`
	AllDay      bool        `json:"all_day"`
	RiskScore   float64     `json:"risk_score"`
}

// EffectiveEnd returns End when set, otherwise Start.
func (e *Event) EffectiveEnd() time.Time {
	if e.End != nil {
		return *e.End
	}
	return e.Start
}

// ModuleList splits the comma-separated Modules field into trimmed,
// lowercased names, dropping empties.
func (e *Event) ModuleList() []string {
	var out []string
	for _, m := range strings.Split(e.Modules, ",") {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

// ValidationError reports a rejected user-submitted form. It is the
// only error the core raises on bad data; feed rows never error.
type ValidationError struct {
	Field  string
	Reason string
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", v.Field, v.Reason)
}

// Validate checks the user-supplied required fields.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return &ValidationError{Field: "title", Reason: "title is required"}
	}
	if e.Start.IsZero() {
		return &ValidationError{Field: "start", Reason: "start time is required"}
	}
	return nil
}
