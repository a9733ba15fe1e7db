package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/internal/models"
)

func feedRows() []models.RawRow {
	rows := []models.RawRow{
		{"id": "", "title": "no id, dropped"},
		{"id": "   ", "title": "blank id, dropped"},
	}
	for i := 1; i <= 8; i++ {
		rows = append(rows, models.RawRow{
			"id":       fmt.Sprintf("ISS-%d", i),
			"module":   "Reporting",
			"priority": "High",
			"status":   "Open",
			"type":     "bug",
			"title":    fmt.Sprintf("Export timeout %d", i),
			"date":     "2026-08-20",
		})
	}
	return rows
}

func TestPipelineRecompute(t *testing.T) {
	p := NewPipeline()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("drops rows without an id", func(t *testing.T) {
		issues := p.Recompute(feedRows(), now)
		assert.Len(t, issues, 8)
	})

	t.Run("attaches keywords, category and risk", func(t *testing.T) {
		issues := p.Recompute(feedRows(), now)
		require.NotEmpty(t, issues)
		first := issues[0]
		assert.Contains(t, first.Keywords, "export")
		assert.Equal(t, "Exports & reporting output", first.Category)
		assert.Greater(t, first.RiskScore, 0.0)
		assert.NotZero(t, first.Severity)
	})

	t.Run("recompute is deterministic", func(t *testing.T) {
		a := p.Recompute(feedRows(), now)
		b := p.Recompute(feedRows(), now)
		assert.Equal(t, a, b)
	})
}

func TestStore(t *testing.T) {
	store := NewStore()
	syncedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	issues := []models.Issue{
		{ID: "ISS-1", RiskScore: 8},
		{ID: "ISS-2", RiskScore: 3, IsClosed: true},
	}
	store.Replace(issues, syncedAt)

	t.Run("issues and sync time", func(t *testing.T) {
		assert.Len(t, store.Issues(), 2)
		assert.Equal(t, syncedAt, store.SyncedAt())
	})

	t.Run("open issues exclude closed", func(t *testing.T) {
		open := store.OpenIssues()
		require.Len(t, open, 1)
		assert.Equal(t, "ISS-1", open[0].ID)
	})

	t.Run("find by id", func(t *testing.T) {
		found := store.Find("ISS-2")
		require.NotNil(t, found)
		assert.True(t, found.IsClosed)
		assert.Nil(t, store.Find("nope"))
	})

	t.Run("replace swaps wholesale", func(t *testing.T) {
		store.Replace(nil, syncedAt.Add(time.Hour))
		assert.Empty(t, store.Issues())
	})
}
