package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"fleetrental-backend/internal/jobs"
	"fleetrental-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	loc := time.UTC
	if tz := jobRunner.Config().Scheduler.TimeZone; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		} else {
			logger.Error("Invalid scheduler time zone, falling back to UTC", "time_zone", tz, "error", err)
		}
	}

	// Create cron with the operating region's zone and seconds precision
	c := cron.New(
		cron.WithLocation(loc),
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

	// Daily billing cycle
	_, err := s.cron.AddFunc(cfg.DailyBilling, s.jobs.RunDailyBilling)
	if err != nil {
		logger.Error("Failed to register RunDailyBilling job", "error", err)
	}

	// Daily analytics recomputation
	_, err = s.cron.AddFunc(cfg.DailyAnalytics, s.jobs.RunDailyAnalytics)
	if err != nil {
		logger.Error("Failed to register RunDailyAnalytics job", "error", err)
	}

	// Weekly analytics recomputation
	_, err = s.cron.AddFunc(cfg.WeeklyAnalytics, s.jobs.RunWeeklyAnalytics)
	if err != nil {
		logger.Error("Failed to register RunWeeklyAnalytics job", "error", err)
	}

	// Monthly analytics recomputation
	_, err = s.cron.AddFunc(cfg.MonthlyAnalytics, s.jobs.RunMonthlyAnalytics)
	if err != nil {
		logger.Error("Failed to register RunMonthlyAnalytics job", "error", err)
	}

	// Yearly retention cleanup
	_, err = s.cron.AddFunc(cfg.AnalyticsCleanup, s.jobs.RunAnalyticsCleanup)
	if err != nil {
		logger.Error("Failed to register RunAnalyticsCleanup job", "error", err)
	}

	logger.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has jobs registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
