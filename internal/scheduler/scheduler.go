package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"closetshare-backend/internal/jobs"
	"closetshare-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	_, err := s.cron.AddFunc(cfg.ExpireOTPs, s.jobs.ExpireOTPs)
	if err != nil {
		logger.Error("Failed to register ExpireOTPs job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.MarkOverdueRentals, s.jobs.MarkOverdueRentals)
	if err != nil {
		logger.Error("Failed to register MarkOverdueRentals job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.ExpireWaitlistNotifications, s.jobs.ExpireWaitlistNotifications)
	if err != nil {
		logger.Error("Failed to register ExpireWaitlistNotifications job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.SyncCalendarWindows, s.jobs.SyncCalendarWindows)
	if err != nil {
		logger.Error("Failed to register SyncCalendarWindows job", "error", err)
	}
}

// Start begins executing scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop halts the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}
