package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"opsdash/internal/models"
)

// fieldAliases maps each canonical field to the header names accepted
// for it, compared case-insensitively.
var fieldAliases = map[string][]string{
	"id":          {"id", "issue id", "ticket id", "ticket", "ref"},
	"module":      {"module", "component", "area", "feature"},
	"priority":    {"priority", "prio", "severity"},
	"status":      {"status", "state"},
	"type":        {"type", "issue type", "kind"},
	"title":       {"title", "summary", "subject", "issue"},
	"description": {"description", "details", "desc"},
	"log":         {"log", "notes", "comments", "comment"},
	"date":        {"date", "created", "created at", "reported", "reported on"},
	"link":        {"link", "links", "url", "urls"},
}

// dateLayouts tried in order before the D-M-Y reinterpretation kicks in.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Normalizer turns raw feed rows into typed issues. Malformed fields
// degrade to defaults or null, never to an error: the feed is a shared
// spreadsheet and partially free text.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeRow maps one raw row to an Issue. The second return value is
// false when the row has no usable id and must be dropped.
// Derived age is computed relative to now so the whole pipeline stays a
// pure function of (rows, now).
func (n *Normalizer) NormalizeRow(row models.RawRow, now time.Time) (models.Issue, bool) {
	id := strings.TrimSpace(lookupField(row, "id"))
	if id == "" {
		return models.Issue{}, false
	}

	issue := models.Issue{
		ID:          id,
		Module:      strings.TrimSpace(lookupField(row, "module")),
		Priority:    strings.TrimSpace(lookupField(row, "priority")),
		Status:      strings.TrimSpace(lookupField(row, "status")),
		Type:        strings.TrimSpace(lookupField(row, "type")),
		Title:       strings.TrimSpace(lookupField(row, "title")),
		Description: strings.TrimSpace(lookupField(row, "description")),
		Log:         strings.TrimSpace(lookupField(row, "log")),
		Links:       splitLinks(lookupField(row, "link")),
	}

	issue.ModuleNorm = NormalizeModule(issue.Module)
	issue.PriorityNorm = NormalizePriority(issue.Priority)
	issue.StatusNorm = NormalizeStatus(issue.Status)
	issue.TypeNorm = NormalizeType(issue.Type)
	issue.IsClosed = isClosedStatus(issue.StatusNorm)

	if d := ParseFeedDate(lookupField(row, "date")); d != nil {
		issue.Date = d
		age := int(now.Sub(*d).Hours() / 24)
		issue.AgeDays = &age
	}

	return issue, true
}

// lookupField finds the first alias of the canonical field present in
// the row, comparing keys case-insensitively.
func lookupField(row models.RawRow, field string) string {
	for _, alias := range fieldAliases[field] {
		for key, val := range row {
			if strings.EqualFold(strings.TrimSpace(key), alias) && strings.TrimSpace(val) != "" {
				return val
			}
		}
	}
	return ""
}

// NormalizeModule resolves the raw module field to a canonical name.
// First matching substring rule wins; a row mentioning both "checklist"
// and "mobile" therefore resolves to Checklist.
func NormalizeModule(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "Unspecified"
	}
	for _, rule := range moduleRules {
		if strings.Contains(s, rule.Match) {
			return rule.Label
		}
	}
	return capitalize(strings.TrimSpace(raw))
}

// NormalizePriority resolves the raw priority by lowercase prefix;
// anything unrecognized (including empty) defaults to medium.
func NormalizePriority(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(s, "urg"):
		return "urgent"
	case strings.HasPrefix(s, "hi"):
		return "high"
	case strings.HasPrefix(s, "med"):
		return "medium"
	case strings.HasPrefix(s, "low"):
		return "low"
	default:
		return "medium"
	}
}

// NormalizeStatus resolves the raw status to a canonical phrase by
// substring match, else passes the trimmed raw value through.
func NormalizeStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, phrase := range statusPhrases {
		if strings.Contains(s, phrase) {
			return phrase
		}
	}
	return strings.TrimSpace(raw)
}

// NormalizeType resolves the raw type field; empty defaults to Bug.
// "new futur" is a recurring typo in the feed and maps to New Feature.
func NormalizeType(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "Bug"
	}
	switch {
	case strings.Contains(s, "bug"):
		return "Bug"
	case strings.Contains(s, "enhancement"):
		return "Enhancement"
	case strings.Contains(s, "new feature"), strings.Contains(s, "new futur"):
		return "New Feature"
	default:
		return capitalize(strings.TrimSpace(raw))
	}
}

func isClosedStatus(statusNorm string) bool {
	s := strings.ToLower(statusNorm)
	for _, marker := range closedMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// ParseFeedDate parses a spreadsheet date. Standard layouts are tried
// first; failing those, a D-M-Y or D/M/Y pattern (2- or 4-digit year,
// 2-digit years assumed 2000s) is reinterpreted. Unparseable dates are
// null, not errors.
func ParseFeedDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return parseDayFirst(s)
}

func parseDayFirst(s string) *time.Time {
	sep := "-"
	if strings.Count(s, "/") == 2 {
		sep = "/"
	} else if strings.Count(s, "-") != 2 {
		return nil
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return nil
	}
	day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	yearPart := strings.TrimSpace(parts[2])
	year, err3 := strconv.Atoi(yearPart)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	if len(yearPart) <= 2 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	iso := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return nil
	}
	return &t
}

func splitLinks(raw string) []string {
	var out []string
	for _, l := range strings.Split(raw, ",") {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
