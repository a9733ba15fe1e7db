package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/internal/models"
)

func TestSlotScore(t *testing.T) {
	ctx := PlanContext{Env: models.Prod, ReleaseType: "feature"}

	t.Run("rush hours and weekend edge are riskier", func(t *testing.T) {
		// 2026-09-04 is a Friday, 2026-09-01 a Tuesday
		friday19 := time.Date(2026, 9, 4, 19, 0, 0, 0, time.UTC)
		tuesday06 := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)

		assert.Greater(t, slotScore(ctx, friday19, nil), slotScore(ctx, tuesday06, nil))
		assert.Equal(t, 10.0, slotScore(ctx, friday19, nil))  // 4 env + 2 type + 3 rush + 1 friday
		assert.Equal(t, 6.0, slotScore(ctx, tuesday06, nil)) // base only
	})

	t.Run("release type penalty", func(t *testing.T) {
		quiet := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)
		major := slotScore(PlanContext{Env: models.Staging, ReleaseType: "major"}, quiet, nil)
		patch := slotScore(PlanContext{Env: models.Staging, ReleaseType: "patch"}, quiet, nil)
		unknown := slotScore(PlanContext{Env: models.Staging, ReleaseType: "hotfixish"}, quiet, nil)
		assert.Equal(t, 5.5, major)
		assert.Equal(t, 3.5, patch)
		assert.Equal(t, 4.5, unknown) // treated like a feature release
	})

	t.Run("nearby same-env events add pressure", func(t *testing.T) {
		slot := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)
		nearby := []models.Event{
			{ID: "E1", Env: models.Prod, Start: slot.Add(90 * time.Minute)},
			{ID: "E2", Env: models.Staging, Start: slot}, // other env, ignored
			{ID: "E3", Env: models.Prod, Start: slot.Add(12 * time.Hour)},
		}
		assert.Equal(t, 7.5, slotScore(ctx, slot, nearby))
	})
}

func TestSuggestSlots(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC) // a Monday

	t.Run("defaults fill a week with two slots per day", func(t *testing.T) {
		slots := SuggestSlots(PlanContext{Env: models.Staging}, nil, nil, now)
		require.Len(t, slots, 14)

		perDay := make(map[string]int)
		for i, slot := range slots {
			perDay[slot.Start.Format("2006-01-02")]++
			assert.Equal(t, slot.Start.Add(time.Hour), slot.End)
			if i > 0 {
				assert.GreaterOrEqual(t, slot.Score, slots[i-1].Score)
			}
		}
		for day, count := range perDay {
			assert.LessOrEqual(t, count, 2, day)
		}
	})

	t.Run("open issues in affected modules penalize every slot", func(t *testing.T) {
		open := []models.Issue{
			{ID: "1", ModuleNorm: "Reporting", RiskScore: 8},
			{ID: "2", ModuleNorm: "Reporting", RiskScore: 4},
			{ID: "3", ModuleNorm: "Journal", RiskScore: 9},
		}
		plain := SuggestSlots(PlanContext{Env: models.Staging}, nil, nil, now)
		loaded := SuggestSlots(PlanContext{Env: models.Staging, AffectedModules: []string{"Reporting"}}, open, nil, now)
		// 0.6 for the high-risk issue plus 0.3 for the other one
		assert.InDelta(t, plain[0].Score+0.9, loaded[0].Score, 0.001)
	})

	t.Run("risky wording in the description costs a point", func(t *testing.T) {
		plain := SuggestSlots(PlanContext{Env: models.Staging}, nil, nil, now)
		risky := SuggestSlots(PlanContext{Env: models.Staging, Description: "reworks the timezone handling"}, nil, nil, now)
		assert.InDelta(t, plain[0].Score+1, risky[0].Score, 0.001)
	})

	t.Run("horizon and per-day cap are honored", func(t *testing.T) {
		slots := SuggestSlots(PlanContext{Env: models.Dev, HorizonDays: 2, MaxSlotsPerDay: 3}, nil, nil, now)
		assert.Len(t, slots, 6)
	})
}
