package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/internal/models"
)

func TestBuildTriageQueue(t *testing.T) {
	t.Run("flags risk/priority mismatch", func(t *testing.T) {
		queue := BuildTriageQueue([]models.Issue{{
			ID: "1", Priority: "Medium", PriorityNorm: "medium",
			Type: "bug", TypeNorm: "Bug", Module: "Reporting", ModuleNorm: "Reporting",
			RiskScore: 8,
		}})
		require.Len(t, queue, 1)
		assert.Equal(t, []string{"risk high but priority medium/unspecified"}, queue[0].Reasons)
		assert.Equal(t, 9.0, queue[0].Score) // 8 risk + 1 reason, no age
	})

	t.Run("flags possible regressions and missing fields", func(t *testing.T) {
		queue := BuildTriageQueue([]models.Issue{{
			ID:        "2",
			Title:     "Crash after release 4.2",
			RiskScore: 4,
			AgeDays:   intPtr(14),
		}})
		require.Len(t, queue, 1)
		assert.Equal(t, []string{
			"possible regression after release",
			"missing: priority, type, module",
		}, queue[0].Reasons)
		assert.Equal(t, 8.0, queue[0].Score) // 4 + 14/7 + 2
	})

	t.Run("flags aged open issues with real risk", func(t *testing.T) {
		queue := BuildTriageQueue([]models.Issue{{
			ID: "3", Priority: "High", PriorityNorm: "high",
			Type: "bug", TypeNorm: "Bug", Module: "Journal", ModuleNorm: "Journal",
			RiskScore: 6, AgeDays: intPtr(30),
		}})
		require.Len(t, queue, 1)
		assert.Equal(t, []string{"aged 30d and still open"}, queue[0].Reasons)
	})

	t.Run("closed issues never enter the queue", func(t *testing.T) {
		queue := BuildTriageQueue([]models.Issue{{
			ID: "4", PriorityNorm: "medium", RiskScore: 9, IsClosed: true,
		}})
		assert.Empty(t, queue)
	})

	t.Run("consistent issues are left alone", func(t *testing.T) {
		queue := BuildTriageQueue([]models.Issue{{
			ID: "5", Priority: "High", PriorityNorm: "high",
			Type: "bug", TypeNorm: "Bug", Module: "Journal", ModuleNorm: "Journal",
			RiskScore: 6, AgeDays: intPtr(5),
		}})
		assert.Empty(t, queue)
	})

	t.Run("ranked by score and capped at fifteen", func(t *testing.T) {
		var issues []models.Issue
		for i := 0; i < 20; i++ {
			issues = append(issues, models.Issue{
				ID: fmt.Sprintf("i%d", i), Priority: "Medium", PriorityNorm: "medium",
				Type: "bug", TypeNorm: "Bug", Module: "Journal", ModuleNorm: "Journal",
				RiskScore: 7 + float64(i%3),
			})
		}
		queue := BuildTriageQueue(issues)
		require.Len(t, queue, 15)
		for i := 1; i < len(queue); i++ {
			assert.GreaterOrEqual(t, queue[i-1].Score, queue[i].Score)
		}
	})
}
