package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/internal/models"
)

func TestComputeEventRisk(t *testing.T) {
	t.Run("env, type and impact weights", func(t *testing.T) {
		got := ComputeEventRisk(&models.Event{
			Env:        models.Dev,
			Type:       models.OtherEvent,
			ImpactType: models.NoDowntime,
		}, nil)
		assert.Equal(t, 2.0, got)
	})

	t.Run("related and linked issues raise the score", func(t *testing.T) {
		open := []models.Issue{
			{ID: "ISS-1", ModuleNorm: "Checklist", RiskScore: 8},
			{ID: "ISS-2", ModuleNorm: "Checklist", RiskScore: 7.5},
			{ID: "ISS-3", ModuleNorm: "Journal", RiskScore: 9},
		}
		event := models.Event{
			Env:        models.Prod,
			Type:       models.Deployment,
			ImpactType: models.HighRiskChange,
			Modules:    "Checklist",
			IssueID:    "ISS-1",
		}
		// 3+3+3 base, 0.7 per high-risk related issue, 1.5 linked high-risk
		got := ComputeEventRisk(&event, open)
		assert.Equal(t, 11.9, got)
	})

	t.Run("no ceiling", func(t *testing.T) {
		var open []models.Issue
		for i := 0; i < 10; i++ {
			open = append(open, models.Issue{ModuleNorm: "Checklist", RiskScore: 8})
		}
		got := ComputeEventRisk(&models.Event{
			Env:        models.Prod,
			Type:       models.Deployment,
			ImpactType: models.HighRiskChange,
			Modules:    "checklist",
		}, open)
		assert.Equal(t, 16.0, got)
	})
}

func TestEventsCollide(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	a := models.Event{ID: "A", Env: models.Prod, Start: start, End: &end}
	b := models.Event{ID: "B", Env: models.Prod, Start: start.Add(time.Hour)}
	c := models.Event{ID: "C", Env: models.Staging, Start: start.Add(time.Hour)}

	t.Run("same env overlapping", func(t *testing.T) {
		assert.True(t, EventsCollide(&a, &b))
	})

	t.Run("different env never collides", func(t *testing.T) {
		assert.False(t, EventsCollide(&a, &c))
	})

	t.Run("touching endpoints collide", func(t *testing.T) {
		d := models.Event{ID: "D", Env: models.Prod, Start: end}
		assert.True(t, EventsCollide(&a, &d))
	})

	t.Run("disjoint intervals do not", func(t *testing.T) {
		e := models.Event{ID: "E", Env: models.Prod, Start: end.Add(time.Minute)}
		assert.False(t, EventsCollide(&a, &e))
	})
}

func TestDetectCollisions(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	events := []models.Event{
		{ID: "A", Env: models.Prod, Start: start, End: &end},
		{ID: "B", Env: models.Prod, Start: start.Add(time.Hour)},
		{ID: "C", Env: models.Staging, Start: start.Add(time.Hour)},
	}

	collisions := DetectCollisions(events)
	require.Len(t, collisions, 1)
	assert.Equal(t, Collision{EventA: "A", EventB: "B"}, collisions[0])
}
