package workers

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"opsdash/internal/services"
)

// RefreshWorkerConfig holds configuration for the feed refresh worker
type RefreshWorkerConfig struct {
	// WorkerName is a unique identifier for this worker instance
	WorkerName string

	// Interval is how often to re-ingest the feed
	Interval time.Duration

	// ShutdownTimeout is how long to wait for graceful shutdown
	ShutdownTimeout time.Duration
}

// DefaultRefreshWorkerConfig returns a configuration with sensible defaults
func DefaultRefreshWorkerConfig() RefreshWorkerConfig {
	return RefreshWorkerConfig{
		WorkerName:      "feed-refresh-worker",
		Interval:        5 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
	}
}

// RefreshWorker periodically re-ingests the tracker feed and swaps in
// the recomputed dataset. The engine itself stays synchronous; this is
// the only long-lived goroutine in the system.
type RefreshWorker struct {
	config  RefreshWorkerConfig
	service *services.DashboardService
	logger  *log.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewRefreshWorker creates a new refresh worker
func NewRefreshWorker(config RefreshWorkerConfig, service *services.DashboardService, logger *log.Logger) *RefreshWorker {
	if config.Interval <= 0 {
		config.Interval = DefaultRefreshWorkerConfig().Interval
	}
	return &RefreshWorker{
		config:  config,
		service: service,
		logger:  logger,
	}
}

// Name returns the worker's name
func (w *RefreshWorker) Name() string {
	return w.config.WorkerName
}

// IsRunning returns whether the worker loop is active
func (w *RefreshWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Start launches the refresh loop. An immediate refresh runs first so
// the dashboard is populated before the first tick.
func (w *RefreshWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("worker %s already running", w.config.WorkerName)
	}
	w.running = true
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

func (w *RefreshWorker) loop(ctx context.Context) {
	defer close(w.done)

	w.refresh(ctx)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context) {
	summary, err := w.service.Refresh(ctx)
	if err != nil {
		w.logger.Printf("[%s] refresh failed: %v", w.config.WorkerName, err)
		return
	}
	w.logger.Printf("[%s] refreshed: %d issues (%d rows, %d dropped)",
		w.config.WorkerName, summary.Issues, summary.RowsRead, summary.Dropped)
}

// Stop gracefully shuts down the worker
func (w *RefreshWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stop)
	w.mu.Unlock()

	timeout := w.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultRefreshWorkerConfig().ShutdownTimeout
	}

	select {
	case <-w.done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("worker %s did not stop within %v", w.config.WorkerName, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
