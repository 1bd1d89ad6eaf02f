package jobs

import (
	"context"

	"fleetrental-backend/internal/logger"
)

// RunDailyBilling charges every active contract's daily rate. The scheduler
// invokes this once per cycle; it shares the entry point with the manual
// trigger, which has identical semantics.
func (jr *JobRunner) RunDailyBilling() {
	jr.runWithRecovery("RunDailyBilling", func() {
		ctx := context.Background()

		stats, err := jr.services.Billing.RunBillingCycle(ctx)
		if err != nil {
			logger.Error("Failed to run billing cycle", "error", err)
			return
		}

		logger.Info("Daily billing finished",
			"run_id", stats.RunID,
			"total", stats.Total,
			"successful", stats.Successful,
			"failed", stats.Failed,
			"total_amount", stats.TotalAmount)
	})
}
