package repositories

import (
	"context"
	"time"

	"opsdash/internal/models"
)

// SnapshotRepository persists the best-effort local cache: the raw feed
// rows as last fetched, the sync timestamp, and the dashboard's saved
// filter selections. Everything is an opaque blob; derived issues are
// never persisted, they are recomputed from the rows.
type SnapshotRepository interface {
	SaveRows(ctx context.Context, rows []models.RawRow, syncedAt time.Time) error
	LoadRows(ctx context.Context) ([]models.RawRow, time.Time, error)

	SaveFilters(ctx context.Context, filters models.FilterSelection) error
	LoadFilters(ctx context.Context) (models.FilterSelection, error)

	Ping(ctx context.Context) error
}

// EventRepository persists the operational calendar and the release
// assignment map. The event list is replaced as a full snapshot on
// every mutation; assignments merge append-only (union of ids).
type EventRepository interface {
	ReplaceAll(ctx context.Context, events []models.Event) error
	List(ctx context.Context) ([]models.Event, error)

	MergeAssignments(ctx context.Context, releaseID string, issueIDs []string) error
	Assignments(ctx context.Context) (map[string][]string, error)
}

// SnapshotRepositoryError represents errors from the persistence layer
type SnapshotRepositoryError struct {
	Operation string
	Key       string
	Err       error
	Message   string
}

func (e *SnapshotRepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	prefix := e.Operation
	if e.Key != "" {
		prefix += " (key: " + e.Key + ")"
	}
	if e.Err != nil {
		return prefix + ": " + e.Err.Error()
	}
	return prefix + ": unknown error"
}

func (e *SnapshotRepositoryError) Unwrap() error {
	return e.Err
}

// NewSnapshotRepositoryError creates a new persistence error
func NewSnapshotRepositoryError(operation string, key string, err error, message string) *SnapshotRepositoryError {
	return &SnapshotRepositoryError{
		Operation: operation,
		Key:       key,
		Err:       err,
		Message:   message,
	}
}

// SnapshotNotFoundError reports an empty cache slot.
func SnapshotNotFoundError(key string) error {
	return NewSnapshotRepositoryError(
		"load_snapshot",
		key,
		nil,
		"no snapshot stored at: "+key,
	)
}
