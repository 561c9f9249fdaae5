package scheduler

import (
	"fmt"
	"time"

	"github.com/amaumene/vidarr/internal/metrics"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CatalogPruner drops stored catalogs older than a cutoff
type CatalogPruner interface {
	PruneCatalogs(cutoff time.Time) (int, error)
}

// SessionStore exposes the search sessions housekeeping needs
type SessionStore interface {
	PruneSessions()
	ActiveSessions() int
}

// QueueSizer reports the current queue length
type QueueSizer interface {
	Len() int
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	catalogs CatalogPruner
	sessions SessionStore
	queue    QueueSizer
	metrics  *metrics.Metrics
	cacheTTL time.Duration
	now      func() time.Time
	logger   *logrus.Logger
}

// NewScheduler creates a new scheduler. m may be nil.
func NewScheduler(
	catalogs CatalogPruner,
	sessions SessionStore,
	queue QueueSizer,
	m *metrics.Metrics,
	cacheTTL time.Duration,
	logger *logrus.Logger,
) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		catalogs: catalogs,
		sessions: sessions,
		queue:    queue,
		metrics:  m,
		cacheTTL: cacheTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Every 10 minutes: Drop stale catalogs and expired searches
	_, err := s.cron.AddFunc("*/10 * * * *", func() {
		s.runPrune()
	})
	if err != nil {
		return fmt.Errorf("failed to add prune job: %w", err)
	}

	// Every minute: Report queue stats
	_, err = s.cron.AddFunc("* * * * *", func() {
		s.runQueueStats()
	})
	if err != nil {
		return fmt.Errorf("failed to add queue stats job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// runPrune executes the cache pruning job
func (s *Scheduler) runPrune() {
	s.sessions.PruneSessions()

	if s.cacheTTL <= 0 {
		return
	}

	cutoff := s.now().Add(-s.cacheTTL)
	removed, err := s.catalogs.PruneCatalogs(cutoff)
	if err != nil {
		s.logger.WithError(err).Error("Catalog prune job failed")
		return
	}

	if removed > 0 {
		s.logger.WithField("removed", removed).Info("Pruned stale catalogs")
	} else {
		s.logger.Debug("No stale catalogs to prune")
	}
}

// runQueueStats logs the queue size and refreshes the gauge
func (s *Scheduler) runQueueStats() {
	size := s.queue.Len()
	if s.metrics != nil {
		s.metrics.QueueLength.Set(float64(size))
	}

	s.logger.WithFields(logrus.Fields{
		"queue_length":    size,
		"active_searches": s.sessions.ActiveSessions(),
	}).Debug("Queue stats")
}
