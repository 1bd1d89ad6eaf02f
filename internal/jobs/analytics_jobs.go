package jobs

import (
	"context"
	"time"

	"fleetrental-backend/internal/logger"
)

// RunDailyAnalytics recomputes yesterday's cached metrics for every company.
func (jr *JobRunner) RunDailyAnalytics() {
	jr.runWithRecovery("RunDailyAnalytics", func() {
		ctx := context.Background()
		yesterday := time.Now().AddDate(0, 0, -1)

		processed, err := jr.services.Analytics.RecalculateDaily(ctx, yesterday)
		if err != nil {
			logger.Error("Failed to run daily analytics", "error", err)
			return
		}
		logger.Info("Daily analytics finished", "companies_processed", processed)
	})
}

// RunWeeklyAnalytics recomputes the prior week's revenue metrics.
func (jr *JobRunner) RunWeeklyAnalytics() {
	jr.runWithRecovery("RunWeeklyAnalytics", func() {
		ctx := context.Background()

		processed, err := jr.services.Analytics.RecalculateWeekly(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to run weekly analytics", "error", err)
			return
		}
		logger.Info("Weekly analytics finished", "companies_processed", processed)
	})
}

// RunMonthlyAnalytics recomputes the prior calendar month's metrics.
func (jr *JobRunner) RunMonthlyAnalytics() {
	jr.runWithRecovery("RunMonthlyAnalytics", func() {
		ctx := context.Background()

		processed, err := jr.services.Analytics.RecalculateMonthly(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to run monthly analytics", "error", err)
			return
		}
		logger.Info("Monthly analytics finished", "companies_processed", processed)
	})
}

// RunAnalyticsCleanup deletes cached metric rows past the retention window.
func (jr *JobRunner) RunAnalyticsCleanup() {
	jr.runWithRecovery("RunAnalyticsCleanup", func() {
		ctx := context.Background()

		deleted, err := jr.services.Analytics.CleanupExpired(ctx)
		if err != nil {
			logger.Error("Failed to clean up analytics", "error", err)
			return
		}
		logger.Info("Analytics cleanup finished", "rows_deleted", deleted)
	})
}
