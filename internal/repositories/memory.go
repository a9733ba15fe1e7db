package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"opsdash/internal/models"
)

// MemorySnapshotRepository is the degraded-mode SnapshotRepository used
// when Redis is unreachable: the dashboard still works for the session,
// the cache just does not survive a restart.
type MemorySnapshotRepository struct {
	mu       sync.RWMutex
	rows     []models.RawRow
	syncedAt time.Time
	filters  models.FilterSelection
	hasRows  bool
}

func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{}
}

func (r *MemorySnapshotRepository) SaveRows(_ context.Context, rows []models.RawRow, syncedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = rows
	r.syncedAt = syncedAt
	r.hasRows = true
	return nil
}

func (r *MemorySnapshotRepository) LoadRows(_ context.Context) ([]models.RawRow, time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.hasRows {
		return nil, time.Time{}, SnapshotNotFoundError(rowsKey)
	}
	return r.rows, r.syncedAt, nil
}

func (r *MemorySnapshotRepository) SaveFilters(_ context.Context, filters models.FilterSelection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters = filters
	return nil
}

func (r *MemorySnapshotRepository) LoadFilters(_ context.Context) (models.FilterSelection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filters, nil
}

func (r *MemorySnapshotRepository) Ping(_ context.Context) error { return nil }

// MemoryEventRepository is the degraded-mode EventRepository.
type MemoryEventRepository struct {
	mu          sync.RWMutex
	events      []models.Event
	assignments map[string][]string
}

func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{assignments: make(map[string][]string)}
}

func (r *MemoryEventRepository) ReplaceAll(_ context.Context, events []models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append([]models.Event(nil), events...)
	return nil
}

func (r *MemoryEventRepository) List(_ context.Context) ([]models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Event(nil), r.events...), nil
}

func (r *MemoryEventRepository) MergeAssignments(_ context.Context, releaseID string, issueIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	merged := make(map[string]bool)
	for _, id := range r.assignments[releaseID] {
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
	r.assignments[releaseID] = ids
	return nil
}

func (r *MemoryEventRepository) Assignments(_ context.Context) (map[string][]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]string, len(r.assignments))
	for k, v := range r.assignments {
		out[k] = append([]string(nil), v...)
	}
	return out, nil
}
