package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/internal/models"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAnalyzeTrends(t *testing.T) {
	t.Run("emerging and stable themes split by window", func(t *testing.T) {
		issues := []models.Issue{
			// older half: timezone everywhere, no geofence
			{ID: "o1", Title: "timezone confusion in journal", Date: datePtr(2026, 5, 1)},
			{ID: "o2", Title: "timezone label truncated", Date: datePtr(2026, 5, 2)},
			{ID: "o3", Title: "timezone offset drifts", Date: datePtr(2026, 5, 3)},
			{ID: "o4", Title: "timezone picker empty", Date: datePtr(2026, 5, 4)},
			// newer half: geofence shows up three times
			{ID: "n1", Title: "timezone geofence missed checkin", Date: datePtr(2026, 8, 1)},
			{ID: "n2", Title: "timezone geofence delay warehouse", Date: datePtr(2026, 8, 2)},
			{ID: "n3", Title: "timezone geofence broken site", Date: datePtr(2026, 8, 3)},
			{ID: "n4", Title: "timezone export slow", Date: datePtr(2026, 8, 4)},
		}

		report := AnalyzeTrends(issues)

		require.Len(t, report.Emerging, 1)
		assert.Equal(t, TrendTerm{Term: "geofence", OldCount: 0, NewCount: 3}, report.Emerging[0])

		require.Len(t, report.Stable, 1)
		assert.Equal(t, TrendTerm{Term: "timezone", OldCount: 4, NewCount: 4}, report.Stable[0])
	})

	t.Run("term counted once per issue, not per occurrence", func(t *testing.T) {
		issues := []models.Issue{
			{ID: "o1", Title: "quiet day", Date: datePtr(2026, 5, 1)},
			{ID: "o2", Title: "quiet day", Date: datePtr(2026, 5, 2)},
			{ID: "n1", Title: "geofence geofence geofence", Date: datePtr(2026, 8, 1)},
			{ID: "n2", Title: "fine", Date: datePtr(2026, 8, 2)},
		}
		report := AnalyzeTrends(issues)
		// one document mentioning it three times is still NewCount 1
		assert.Empty(t, report.Emerging)
	})

	t.Run("undated issues are ignored", func(t *testing.T) {
		issues := []models.Issue{
			{ID: "1", Title: "geofence"},
			{ID: "2", Title: "geofence"},
		}
		assert.Equal(t, TrendReport{}, AnalyzeTrends(issues))
	})

	t.Run("fewer than two dated issues yields empty report", func(t *testing.T) {
		issues := []models.Issue{{ID: "1", Title: "geofence", Date: datePtr(2026, 8, 1)}}
		assert.Equal(t, TrendReport{}, AnalyzeTrends(issues))
	})

	t.Run("emerging list capped at eight", func(t *testing.T) {
		var issues []models.Issue
		for i := 0; i < 3; i++ {
			issues = append(issues, models.Issue{
				ID:    fmt.Sprintf("o%d", i),
				Title: "baseline noise",
				Date:  datePtr(2026, 5, i+1),
			})
		}
		// ten distinct terms each appearing in all three new issues
		terms := "alpha bravo charlie delta echo foxtrot golf hotel india juliet"
		for i := 0; i < 3; i++ {
			issues = append(issues, models.Issue{
				ID:    fmt.Sprintf("n%d", i),
				Title: terms,
				Date:  datePtr(2026, 8, i+1),
			})
		}
		report := AnalyzeTrends(issues)
		assert.Len(t, report.Emerging, 8)
	})
}
