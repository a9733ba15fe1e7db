package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/internal/models"
)

func TestNormalizePriority(t *testing.T) {
	t.Run("prefix matching", func(t *testing.T) {
		assert.Equal(t, "urgent", NormalizePriority("URGENT-P0"))
		assert.Equal(t, "urgent", NormalizePriority("urgent"))
		assert.Equal(t, "high", NormalizePriority("High"))
		assert.Equal(t, "high", NormalizePriority("HIGHEST"))
		assert.Equal(t, "medium", NormalizePriority("Med"))
		assert.Equal(t, "low", NormalizePriority("  low  "))
	})

	t.Run("unrecognized and empty default to medium", func(t *testing.T) {
		assert.Equal(t, "medium", NormalizePriority(""))
		assert.Equal(t, "medium", NormalizePriority("critical"))
		assert.Equal(t, "medium", NormalizePriority("P1"))
	})
}

func TestNormalizeModule(t *testing.T) {
	t.Run("first matching rule wins", func(t *testing.T) {
		// mentions both checklist and mobile; checklist rule comes first
		assert.Equal(t, "Checklist", NormalizeModule("checklist on mobile"))
		assert.Equal(t, "Mobile App", NormalizeModule("Mobile"))
		assert.Equal(t, "Journal", NormalizeModule("logbook"))
		assert.Equal(t, "Reporting", NormalizeModule("weekly reports"))
		assert.Equal(t, "Reference Material", NormalizeModule("reference docs"))
	})

	t.Run("empty is Unspecified", func(t *testing.T) {
		assert.Equal(t, "Unspecified", NormalizeModule(""))
		assert.Equal(t, "Unspecified", NormalizeModule("   "))
	})

	t.Run("unmatched passes through capitalized", func(t *testing.T) {
		assert.Equal(t, "Payments", NormalizeModule("payments"))
	})
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, "resolved", NormalizeStatus("Issue Resolved!"))
	assert.Equal(t, "under development", NormalizeStatus("currently under development"))
	assert.Equal(t, "tested on staging", NormalizeStatus("Tested on staging"))
	assert.Equal(t, "Weird state", NormalizeStatus(" Weird state "))
}

func TestNormalizeType(t *testing.T) {
	assert.Equal(t, "Bug", NormalizeType(""))
	assert.Equal(t, "Bug", NormalizeType("BUG report"))
	assert.Equal(t, "Enhancement", NormalizeType("enhancement request"))
	assert.Equal(t, "New Feature", NormalizeType("new feature"))
	// recurring feed typo
	assert.Equal(t, "New Feature", NormalizeType("New Futur"))
	assert.Equal(t, "Task", NormalizeType("task"))
}

func TestParseFeedDate(t *testing.T) {
	t.Run("standard layouts", func(t *testing.T) {
		d := ParseFeedDate("2026-08-30")
		require.NotNil(t, d)
		assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), *d)

		d = ParseFeedDate("Jan 2, 2026")
		require.NotNil(t, d)
		assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), *d)
	})

	t.Run("day-first fallback", func(t *testing.T) {
		d := ParseFeedDate("14-04-2026")
		require.NotNil(t, d)
		assert.Equal(t, time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC), *d)

		d = ParseFeedDate("5/6/26")
		require.NotNil(t, d)
		assert.Equal(t, time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC), *d)
	})

	t.Run("unparseable is nil, not an error", func(t *testing.T) {
		assert.Nil(t, ParseFeedDate(""))
		assert.Nil(t, ParseFeedDate("soonish"))
		assert.Nil(t, ParseFeedDate("99/99/2026"))
	})
}

func TestNormalizeRow(t *testing.T) {
	n := NewNormalizer()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("full row", func(t *testing.T) {
		row := models.RawRow{
			"id":       "ISS-1",
			"module":   "Checklists",
			"priority": "High",
			"status":   "On Hold",
			"type":     "bug",
			"title":    "Export broken",
			"date":     "2026-08-20",
			"link":     "http://a, http://b",
		}
		issue, ok := n.NormalizeRow(row, now)
		require.True(t, ok)
		assert.Equal(t, "ISS-1", issue.ID)
		assert.Equal(t, "Checklist", issue.ModuleNorm)
		assert.Equal(t, "high", issue.PriorityNorm)
		assert.Equal(t, "on hold", issue.StatusNorm)
		assert.Equal(t, "Bug", issue.TypeNorm)
		assert.False(t, issue.IsClosed)
		assert.Equal(t, []string{"http://a", "http://b"}, issue.Links)
		require.NotNil(t, issue.AgeDays)
		assert.Equal(t, 10, *issue.AgeDays)
	})

	t.Run("header aliases resolve case-insensitively", func(t *testing.T) {
		row := models.RawRow{
			"Ticket ID": "ISS-2",
			"Component": "journal",
			"Summary":   "Entry lost",
		}
		issue, ok := n.NormalizeRow(row, now)
		require.True(t, ok)
		assert.Equal(t, "ISS-2", issue.ID)
		assert.Equal(t, "Journal", issue.ModuleNorm)
		assert.Equal(t, "Entry lost", issue.Title)
	})

	t.Run("blank id drops the row", func(t *testing.T) {
		_, ok := n.NormalizeRow(models.RawRow{"id": "  ", "title": "orphan"}, now)
		assert.False(t, ok)
	})

	t.Run("closed statuses", func(t *testing.T) {
		for _, status := range []string{"Resolved", "rejected", "Completed"} {
			issue, ok := n.NormalizeRow(models.RawRow{"id": "x", "status": status}, now)
			require.True(t, ok)
			assert.True(t, issue.IsClosed, status)
		}
	})

	t.Run("missing date leaves age unset", func(t *testing.T) {
		issue, ok := n.NormalizeRow(models.RawRow{"id": "ISS-3"}, now)
		require.True(t, ok)
		assert.Nil(t, issue.Date)
		assert.Equal(t, -1, issue.Age())
	})
}
