package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/internal/models"
)

func TestRedisEventRepository_Events(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisEventRepository(client)
	ctx := context.Background()

	t.Run("empty calendar is not an error", func(t *testing.T) {
		events, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("replace and list", func(t *testing.T) {
		start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
		end := start.Add(2 * time.Hour)
		events := []models.Event{
			{
				ID: "A", Title: "Deploy 4.3", Type: models.Deployment,
				Env: models.Prod, ImpactType: models.CustomerVisible,
				Modules: "Checklist,Reporting", Start: start, End: &end,
			},
			{
				ID: "B", Title: "DB maintenance", Type: models.Maintenance,
				Env: models.Staging, Start: start.Add(24 * time.Hour), AllDay: true,
			},
		}
		require.NoError(t, repo.ReplaceAll(ctx, events))

		got, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Deploy 4.3", got[0].Title)
		assert.Equal(t, models.Deployment, got[0].Type)
		assert.Equal(t, models.Prod, got[0].Env)
		require.NotNil(t, got[0].End)
		assert.True(t, got[0].End.Equal(end))
		assert.True(t, got[1].AllDay)
	})

	t.Run("replace with fewer events drops the rest", func(t *testing.T) {
		require.NoError(t, repo.ReplaceAll(ctx, []models.Event{}))
		got, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestRedisEventRepository_Assignments(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisEventRepository(client)
	ctx := context.Background()

	t.Run("empty map when nothing assigned", func(t *testing.T) {
		got, err := repo.Assignments(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("merge unions and sorts ids", func(t *testing.T) {
		require.NoError(t, repo.MergeAssignments(ctx, "rel-1", []string{"ISS-2", "ISS-1"}))
		require.NoError(t, repo.MergeAssignments(ctx, "rel-1", []string{"ISS-3", "ISS-2", ""}))
		require.NoError(t, repo.MergeAssignments(ctx, "rel-2", []string{"ISS-9"}))

		got, err := repo.Assignments(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"ISS-1", "ISS-2", "ISS-3"}, got["rel-1"])
		assert.Equal(t, []string{"ISS-9"}, got["rel-2"])
	})
}
