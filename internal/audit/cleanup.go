package audit

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/metrics"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

// CleanupScheduler deletes audit rows older than the retention window on a cron schedule
type CleanupScheduler struct {
	repo          repository.AuditRepository
	retentionDays int
	schedule      string
	logger        *logrus.Entry
	now           func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewCleanupScheduler creates a scheduler. schedule accepts 5 or 6 cron fields.
func NewCleanupScheduler(repo repository.AuditRepository, retentionDays int, schedule string, logger *logrus.Logger) *CleanupScheduler {
	if schedule == "" {
		schedule = "0 0 2 * * *"
	}
	if len(strings.Fields(schedule)) == 5 {
		schedule = "0 " + schedule
	}
	return &CleanupScheduler{
		repo:          repo,
		retentionDays: retentionDays,
		schedule:      schedule,
		logger:        logger.WithField("component", "audit_cleanup"),
		now:           time.Now,
	}
}

// Start registers the job and starts the cron runner. A non-positive retention disables cleanup.
func (s *CleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.retentionDays <= 0 {
		s.logger.Info("Audit log cleanup is disabled")
		return nil
	}

	s.cron = cron.New(cron.WithSeconds())
	if _, err := s.cron.AddFunc(s.schedule, func() {
		_, _ = s.RunOnce(context.Background())
	}); err != nil {
		s.logger.WithError(err).Error("Failed to schedule cleanup job")
		return err
	}

	s.cron.Start()
	s.running = true
	s.logger.WithFields(logrus.Fields{
		"schedule":       s.schedule,
		"retention_days": s.retentionDays,
	}).Info("Audit log cleanup scheduler started")
	return nil
}

// Stop waits for a running job and stops the scheduler
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("Audit log cleanup scheduler stopped")
}

// RunOnce deletes everything older than the retention window
func (s *CleanupScheduler) RunOnce(ctx context.Context) (int64, error) {
	start := s.now()
	cutoff := start.AddDate(0, 0, -s.retentionDays)

	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.WithError(err).Error("Audit log cleanup failed")
		return 0, err
	}

	metrics.ObserveAuditPurged(deleted)
	s.logger.WithFields(logrus.Fields{
		"deleted":  deleted,
		"cutoff":   cutoff.Format(time.RFC3339),
		"duration": time.Since(start).String(),
	}).Info("Audit log cleanup completed")
	return deleted, nil
}
