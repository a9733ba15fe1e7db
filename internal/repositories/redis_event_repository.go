package repositories

import (
	"context"
	"encoding/json"
	"sort"

	"opsdash/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	eventsKey      = "events:list"
	assignmentsKey = "releases:assignments"
)

// RedisEventRepository implements EventRepository using Redis. The
// event list is one JSON blob rewritten wholesale on every mutation,
// matching the calendar's snapshot semantics.
type RedisEventRepository struct {
	client *redis.Client
}

// NewRedisEventRepository creates a new Redis-based event repository
func NewRedisEventRepository(client *redis.Client) *RedisEventRepository {
	return &RedisEventRepository{
		client: client,
	}
}

// ReplaceAll persists the full event list.
func (r *RedisEventRepository) ReplaceAll(ctx context.Context, events []models.Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return NewSnapshotRepositoryError("replace_events", eventsKey, err, "failed to marshal events")
	}
	if err := r.client.Set(ctx, eventsKey, data, 0).Err(); err != nil {
		return NewSnapshotRepositoryError("replace_events", eventsKey, err, "")
	}
	return nil
}

// List retrieves all persisted events; an empty calendar is not an
// error.
func (r *RedisEventRepository) List(ctx context.Context) ([]models.Event, error) {
	data, err := r.client.Get(ctx, eventsKey).Result()
	if err == redis.Nil {
		return []models.Event{}, nil
	}
	if err != nil {
		return nil, NewSnapshotRepositoryError("list_events", eventsKey, err, "")
	}

	var events []models.Event
	if err := json.Unmarshal([]byte(data), &events); err != nil {
		return nil, NewSnapshotRepositoryError("list_events", eventsKey, err, "failed to unmarshal events")
	}
	return events, nil
}

// MergeAssignments unions the given issue ids into the release's
// assignment set. Assignments are append-only: ids already present
// stay, new ones are added, nothing is removed.
func (r *RedisEventRepository) MergeAssignments(ctx context.Context, releaseID string, issueIDs []string) error {
	assignments, err := r.Assignments(ctx)
	if err != nil {
		return err
	}

	merged := make(map[string]bool)
	for _, id := range assignments[releaseID] {
		merged[id] = true
	}
	for _, id := range issueIDs {
		if id != "" {
			merged[id] = true
		}
	}

	ids := make([]string, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	assignments[releaseID] = ids

	data, err := json.Marshal(assignments)
	if err != nil {
		return NewSnapshotRepositoryError("merge_assignments", assignmentsKey, err, "failed to marshal assignments")
	}
	if err := r.client.Set(ctx, assignmentsKey, data, 0).Err(); err != nil {
		return NewSnapshotRepositoryError("merge_assignments", assignmentsKey, err, "")
	}
	return nil
}

// Assignments retrieves the full release-assignment map.
func (r *RedisEventRepository) Assignments(ctx context.Context) (map[string][]string, error) {
	data, err := r.client.Get(ctx, assignmentsKey).Result()
	if err == redis.Nil {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, NewSnapshotRepositoryError("load_assignments", assignmentsKey, err, "")
	}

	assignments := make(map[string][]string)
	if err := json.Unmarshal([]byte(data), &assignments); err != nil {
		return nil, NewSnapshotRepositoryError("load_assignments", assignmentsKey, err, "failed to unmarshal assignments")
	}
	return assignments, nil
}
