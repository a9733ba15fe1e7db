package services

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"opsdash/internal/models"
)

// exportHeader fixes the column order of exported issue records; it is
// the insertion order of the first record's fields.
var exportHeader = []string{
	"id", "module", "priority", "status", "type",
	"title", "description", "date", "age_days",
	"category", "risk_score", "severity", "impact", "urgency",
	"keywords", "closed",
}

// ExportCSV writes the issues as flat CSV records.
func ExportCSV(w io.Writer, issues []models.Issue) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for i := range issues {
		if err := cw.Write(exportRecord(&issues[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportRecord(issue *models.Issue) []string {
	date, age := "", ""
	if issue.Date != nil {
		date = issue.Date.Format("2006-01-02")
	}
	if issue.AgeDays != nil {
		age = strconv.Itoa(*issue.AgeDays)
	}
	return []string{
		issue.ID,
		issue.ModuleNorm,
		issue.PriorityNorm,
		issue.StatusNorm,
		issue.TypeNorm,
		issue.Title,
		issue.Description,
		date,
		age,
		issue.Category,
		strconv.FormatFloat(issue.RiskScore, 'f', 1, 64),
		strconv.Itoa(issue.Severity),
		strconv.Itoa(issue.Impact),
		strconv.Itoa(issue.Urgency),
		strings.Join(issue.Keywords, " "),
		strconv.FormatBool(issue.IsClosed),
	}
}
