package repositories

import (
	"context"
	"encoding/json"
	"time"

	"opsdash/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis keys for the persisted snapshots
	rowsKey     = "snapshot:rows"
	syncedAtKey = "snapshot:synced_at"
	filtersKey  = "snapshot:filters"
)

// RedisSnapshotRepository implements SnapshotRepository using Redis
type RedisSnapshotRepository struct {
	client *redis.Client
}

// NewRedisSnapshotRepository creates a new Redis-based snapshot repository
func NewRedisSnapshotRepository(client *redis.Client) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{
		client: client,
	}
}

// SaveRows stores the raw row cache and the sync timestamp atomically.
func (r *RedisSnapshotRepository) SaveRows(ctx context.Context, rows []models.RawRow, syncedAt time.Time) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return NewSnapshotRepositoryError("save_rows", rowsKey, err, "failed to marshal rows")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, rowsKey, data, 0)
	pipe.Set(ctx, syncedAtKey, syncedAt.Format(time.RFC3339), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return NewSnapshotRepositoryError("save_rows", rowsKey, err, "")
	}
	return nil
}

// LoadRows retrieves the cached raw rows and when they were synced.
func (r *RedisSnapshotRepository) LoadRows(ctx context.Context) ([]models.RawRow, time.Time, error) {
	data, err := r.client.Get(ctx, rowsKey).Result()
	if err == redis.Nil {
		return nil, time.Time{}, SnapshotNotFoundError(rowsKey)
	}
	if err != nil {
		return nil, time.Time{}, NewSnapshotRepositoryError("load_rows", rowsKey, err, "")
	}

	var rows []models.RawRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, time.Time{}, NewSnapshotRepositoryError("load_rows", rowsKey, err, "failed to unmarshal rows")
	}

	var syncedAt time.Time
	if raw, err := r.client.Get(ctx, syncedAtKey).Result(); err == nil {
		if t, perr := time.Parse(time.RFC3339, raw); perr == nil {
			syncedAt = t
		}
	}
	return rows, syncedAt, nil
}

// SaveFilters stores the dashboard filter selections.
func (r *RedisSnapshotRepository) SaveFilters(ctx context.Context, filters models.FilterSelection) error {
	data, err := json.Marshal(filters)
	if err != nil {
		return NewSnapshotRepositoryError("save_filters", filtersKey, err, "failed to marshal filters")
	}
	if err := r.client.Set(ctx, filtersKey, data, 0).Err(); err != nil {
		return NewSnapshotRepositoryError("save_filters", filtersKey, err, "")
	}
	return nil
}

// LoadFilters retrieves the saved filter selections; an empty selection
// is returned when none were saved yet.
func (r *RedisSnapshotRepository) LoadFilters(ctx context.Context) (models.FilterSelection, error) {
	var filters models.FilterSelection

	data, err := r.client.Get(ctx, filtersKey).Result()
	if err == redis.Nil {
		return filters, nil
	}
	if err != nil {
		return filters, NewSnapshotRepositoryError("load_filters", filtersKey, err, "")
	}
	if err := json.Unmarshal([]byte(data), &filters); err != nil {
		return filters, NewSnapshotRepositoryError("load_filters", filtersKey, err, "failed to unmarshal filters")
	}
	return filters, nil
}

// Ping checks the Redis connection.
func (r *RedisSnapshotRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
