package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/internal/models"
)

// setupTestRedis creates a test Redis client
func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use separate DB for testing
	})

	// Ping to ensure connection
	ctx := context.Background()
	err := client.Ping(ctx).Err()
	require.NoError(t, err, "Redis must be running for tests")

	// Flush test database
	err = client.FlushDB(ctx).Err()
	require.NoError(t, err)

	return client
}

func TestNewRedisSnapshotRepository(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	repo := NewRedisSnapshotRepository(client)
	assert.NotNil(t, repo)
	assert.Equal(t, client, repo.client)
}

func TestRedisSnapshotRepository_Rows(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisSnapshotRepository(client)
	ctx := context.Background()

	t.Run("empty cache reports not found", func(t *testing.T) {
		_, _, err := repo.LoadRows(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no snapshot stored")
	})

	t.Run("save and load round-trip", func(t *testing.T) {
		syncedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		rows := []models.RawRow{
			{"id": "ISS-1", "module": "Reporting", "title": "Export timeout"},
			{"id": "ISS-2", "module": "Checklist", "title": "Crash on open"},
		}
		require.NoError(t, repo.SaveRows(ctx, rows, syncedAt))

		got, gotSync, err := repo.LoadRows(ctx)
		require.NoError(t, err)
		assert.Equal(t, rows, got)
		assert.True(t, gotSync.Equal(syncedAt))
	})

	t.Run("save overwrites the previous snapshot", func(t *testing.T) {
		require.NoError(t, repo.SaveRows(ctx, []models.RawRow{{"id": "ISS-9"}}, time.Now()))
		got, _, err := repo.LoadRows(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "ISS-9", got[0]["id"])
	})
}

func TestRedisSnapshotRepository_Filters(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisSnapshotRepository(client)
	ctx := context.Background()

	t.Run("unset filters load as empty selection", func(t *testing.T) {
		got, err := repo.LoadFilters(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.FilterSelection{}, got)
	})

	t.Run("round-trip", func(t *testing.T) {
		want := models.FilterSelection{Module: "Reporting", Priority: "high", Search: "timeout"}
		require.NoError(t, repo.SaveFilters(ctx, want))

		got, err := repo.LoadFilters(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestRedisSnapshotRepository_Ping(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisSnapshotRepository(client)

	assert.NoError(t, repo.Ping(context.Background()))
}
