package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bookit/bookit-backend/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// OrphanReleaser frees slots whose claim never got a booking
type OrphanReleaser interface {
	ReleaseOrphaned(ctx context.Context, grace time.Duration) ([]models.Slot, error)
}

// CacheInvalidator drops cached responses for the given paths
type CacheInvalidator interface {
	Invalidate(ctx context.Context, paths ...string) error
}

// CronConfig holds schedules for background jobs
type CronConfig struct {
	ReconcileSchedule string        // cron expression, e.g. "@every 1m"
	ReconcileGrace    time.Duration // claims younger than this are left alone
	JobTimeout        time.Duration
}

// CronService manages scheduled background jobs
type CronService struct {
	cron   *cron.Cron
	slots  OrphanReleaser
	cache  CacheInvalidator
	config CronConfig
	logger *logrus.Logger
}

// NewCronService creates a new CronService. cache may be nil.
func NewCronService(slots OrphanReleaser, cache CacheInvalidator, config CronConfig, logger *logrus.Logger) *CronService {
	if config.JobTimeout <= 0 {
		config.JobTimeout = 30 * time.Second
	}

	c := cron.New(
		cron.WithLogger(cron.PrintfLogger(logger)),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
	)

	return &CronService{
		cron:   c,
		slots:  slots,
		cache:  cache,
		config: config,
		logger: logger,
	}
}

// Start schedules all jobs and starts the scheduler
func (s *CronService) Start() error {
	// Job 1: release claims whose booking write failed and whose
	// compensating release also failed
	if _, err := s.cron.AddFunc(s.config.ReconcileSchedule, s.reconcileClaimsJob); err != nil {
		return fmt.Errorf("failed to schedule claim reconciliation job: %w", err)
	}
	s.logger.WithField("schedule", s.config.ReconcileSchedule).Info("Scheduled: reconcile orphaned slot claims")

	s.cron.Start()
	s.logger.Info("Cron service started")

	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

func (s *CronService) reconcileClaimsJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.JobTimeout)
	defer cancel()

	if _, err := s.ReconcileClaims(ctx); err != nil {
		s.logger.WithError(err).Error("Claim reconciliation failed")
	}
}

// ReconcileClaims releases orphaned claims now and returns how many were freed
func (s *CronService) ReconcileClaims(ctx context.Context) (int, error) {
	start := time.Now()

	released, err := s.slots.ReleaseOrphaned(ctx, s.config.ReconcileGrace)
	if err != nil {
		return 0, fmt.Errorf("failed to release orphaned claims: %w", err)
	}
	if len(released) == 0 {
		return 0, nil
	}

	paths := make([]string, 0, len(released))
	seen := make(map[string]bool, len(released))
	for _, slot := range released {
		s.logger.WithFields(logrus.Fields{
			"slot_id":       slot.ID,
			"experience_id": slot.ExperienceID,
			"slot_date":     slot.Date,
			"slot_time":     slot.Time,
		}).Warn("Released orphaned slot claim")

		if !seen[slot.ExperienceID] {
			seen[slot.ExperienceID] = true
			paths = append(paths, "/api/experiences/"+slot.ExperienceID)
		}
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, paths...); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate cached experiences after reconciliation")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"released":    len(released),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Claim reconciliation finished")

	return len(released), nil
}

// JobStatus returns the next and previous run of scheduled jobs
func (s *CronService) JobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
