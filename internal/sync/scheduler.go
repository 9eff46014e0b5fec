package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"support-assistant/internal/contextutil"
)

// JobStatus describes one scheduled job for the admin endpoint.
type JobStatus struct {
	Name string    `json:"name"`
	Prev time.Time `json:"prev,omitempty"`
	Next time.Time `json:"next"`
}

// Scheduler runs incremental syncs on a fixed interval. A tick that fires
// while the previous run is still going is skipped, not queued, so a slow
// CMS can never pile up concurrent syncs.
type Scheduler struct {
	engine   *Engine
	interval time.Duration
	logger   *slog.Logger
	cron     *cron.Cron
	entryID  cron.EntryID

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler driving the engine every interval.
func NewScheduler(engine *Engine, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cl := &cronLogger{logger: logger}
	return &Scheduler{
		engine:   engine,
		interval: interval,
		logger:   logger,
		cron: cron.New(
			cron.WithChain(cron.SkipIfStillRunning(cl)),
			cron.WithLogger(cl),
		),
	}
}

// Start registers the incremental sync job and begins ticking.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	id, err := s.cron.AddFunc(spec, s.runIncremental)
	if err != nil {
		return fmt.Errorf("failed to schedule incremental sync: %w", err)
	}
	s.entryID = id
	s.cron.Start()
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	s.logger.Info("sync scheduler started", "interval", s.interval)
	return nil
}

// IsRunning reports whether the scheduler is ticking.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop halts scheduling and waits up to grace for an in-flight sync to
// finish before giving up on it.
func (s *Scheduler) Stop(grace time.Duration) {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
		s.logger.Info("sync scheduler stopped")
	case <-time.After(grace):
		s.logger.Warn("sync scheduler stop timed out with a sync still running", "grace", grace)
	}
}

// Jobs reports the scheduled jobs with their previous and next run times.
func (s *Scheduler) Jobs() []JobStatus {
	entries := s.cron.Entries()
	jobs := make([]JobStatus, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, JobStatus{
			Name: "incremental-sync",
			Prev: entry.Prev,
			Next: entry.Next,
		})
	}
	return jobs
}

func (s *Scheduler) runIncremental() {
	ctx := contextutil.WithLogger(context.Background(), s.logger)

	result, err := s.engine.IncrementalSync(ctx)
	if err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			s.logger.Info("incremental sync skipped, another sync is running")
			return
		}
		s.logger.Error("incremental sync failed", "error", err)
		return
	}
	s.logger.Info("scheduled incremental sync finished",
		"fetched", result.Fetched, "updated", result.Updated,
		"added", result.Added, "indexed", result.Indexed)
}

// cronLogger adapts slog to the cron logging interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{"error", err}, keysAndValues...)
	l.logger.Error(msg, args...)
}
