package store

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bizhealth/reportgen/pkg/logger"
)

// DefaultCleanupSchedule runs the history purge daily at 3 AM
const DefaultCleanupSchedule = "0 3 * * *"

// HistoryCleanupService periodically purges report runs past their retention
type HistoryCleanupService struct {
	runs          RunStore
	cron          *cron.Cron
	schedule      string
	retentionDays int
	entryID       cron.EntryID
	mu            sync.RWMutex
}

// NewHistoryCleanupService creates a cleanup service. An empty schedule
// falls back to DefaultCleanupSchedule; negative retention means keep forever.
func NewHistoryCleanupService(runs RunStore, retentionDays int, schedule string) *HistoryCleanupService {
	if schedule == "" {
		schedule = DefaultCleanupSchedule
	}
	if retentionDays < 0 {
		retentionDays = 0
	}
	return &HistoryCleanupService{
		runs:          runs,
		cron:          cron.New(),
		schedule:      schedule,
		retentionDays: retentionDays,
	}
}

// Start schedules the purge job and runs one pass immediately
func (s *HistoryCleanupService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, err := s.cron.AddFunc(s.schedule, func() { s.Cleanup() })
	if err != nil {
		logger.Error("Failed to schedule history cleanup",
			zap.String("schedule", s.schedule),
			zap.Error(err),
		)
		return err
	}
	s.entryID = entryID

	s.cron.Start()

	logger.Info("History cleanup service started",
		zap.String("schedule", s.schedule),
		zap.Int("retention_days", s.retentionDays),
	)

	go s.Cleanup()

	return nil
}

// Stop stops the scheduler and waits for a running purge to finish
func (s *HistoryCleanupService) Stop() {
	s.mu.Lock()
	c := s.cron
	s.mu.Unlock()

	if c == nil {
		return
	}
	logger.Info("Stopping history cleanup service")
	<-c.Stop().Done()
	logger.Info("History cleanup service stopped")
}

// Cleanup deletes runs older than the retention period and returns how
// many were removed. A retention of zero keeps everything.
func (s *HistoryCleanupService) Cleanup() int64 {
	days := s.RetentionDays()
	if days <= 0 {
		return 0
	}

	logger.Debug("Starting history cleanup", zap.Int("retention_days", days))

	startTime := time.Now()
	deleted, err := s.runs.DeleteOlderThan(days)
	if err != nil {
		logger.Error("Failed to cleanup old report runs",
			zap.Int("retention_days", days),
			zap.Error(err),
		)
		return 0
	}

	logger.Info("History cleanup completed",
		zap.Int64("deleted_count", deleted),
		zap.Int("retention_days", days),
		zap.Duration("duration", time.Since(startTime)),
	)
	return deleted
}

// RetentionDays returns the current retention period
func (s *HistoryCleanupService) RetentionDays() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retentionDays
}
