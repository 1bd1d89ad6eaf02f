package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/events"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/repository"
)

type billingService struct {
	txm          repository.TxManager
	contractRepo repository.ContractRepository
	driverRepo   repository.DriverRepository
	paymentRepo  repository.PaymentRepository
	bus          Publisher
}

func NewBillingService(
	txm repository.TxManager,
	contractRepo repository.ContractRepository,
	driverRepo repository.DriverRepository,
	paymentRepo repository.PaymentRepository,
	bus Publisher,
) BillingService {
	return &billingService{
		txm:          txm,
		contractRepo: contractRepo,
		driverRepo:   driverRepo,
		paymentRepo:  paymentRepo,
		bus:          bus,
	}
}

// RunBillingCycle debits every billable contract's driver once. Each contract
// gets its own transaction so one failure never rolls back or aborts the
// others; a failed charge leaves the balance untouched, is recorded as a
// FAILED ledger entry and published as a PaymentFailed event, and the contract
// is simply retried next cycle. There is no same-cycle de-duplication: running
// the cycle twice charges twice.
func (s *billingService) RunBillingCycle(ctx context.Context) (*domain.BillingStats, error) {
	runID := uuid.NewString()
	now := time.Now()

	contracts, err := s.contractRepo.ListBillable(ctx, now)
	if err != nil {
		return nil, err
	}
	logger.Info("Billing cycle started", "run_id", runID, "contracts", len(contracts))

	stats := &domain.BillingStats{RunID: runID}
	for _, contract := range contracts {
		stats.Total++
		if err := s.chargeContract(ctx, &contract); err != nil {
			stats.Failed++
			s.recordFailedCharge(ctx, &contract, runID, err)
			continue
		}
		stats.Successful++
		stats.TotalAmount = stats.TotalAmount.Add(contract.DailyRate)
	}

	s.bus.Publish(ctx, events.TopicBillingCompleted, events.DailyBillingCompleted{
		Stats:     *stats,
		Timestamp: now,
	})
	logger.Info("Billing cycle completed",
		"run_id", runID,
		"total", stats.Total,
		"successful", stats.Successful,
		"failed", stats.Failed,
		"total_amount", stats.TotalAmount)
	return stats, nil
}

// chargeContract applies one daily charge: balance debit plus SUCCESS ledger
// entry, atomically. Either both land or neither does.
func (s *billingService) chargeContract(ctx context.Context, contract *domain.Contract) error {
	return s.txm.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.driverRepo.AdjustBalance(ctx, contract.DriverID, contract.DailyRate.Neg()); err != nil {
			return err
		}
		charge := &domain.Payment{
			CompanyID:   contract.CompanyID,
			DriverID:    contract.DriverID,
			ContractID:  &contract.ID,
			Amount:      contract.DailyRate,
			Type:        domain.PaymentTypeDailyRent,
			Outcome:     domain.PaymentOutcomeSuccess,
			Description: "Daily rent charge",
		}
		return s.paymentRepo.Create(ctx, charge)
	})
}

// recordFailedCharge preserves the audit trail of an attempted-but-failed
// charge. The write happens outside the rolled-back transaction; if even this
// insert fails the attempt survives only in the log and the emitted event.
func (s *billingService) recordFailedCharge(ctx context.Context, contract *domain.Contract, runID string, cause error) {
	logger.Error("Daily charge failed",
		"run_id", runID,
		"contract_id", contract.ID,
		"driver_id", contract.DriverID,
		"error", cause)

	failed := &domain.Payment{
		CompanyID:   contract.CompanyID,
		DriverID:    contract.DriverID,
		ContractID:  &contract.ID,
		Amount:      contract.DailyRate,
		Type:        domain.PaymentTypeDailyRent,
		Outcome:     domain.PaymentOutcomeFailed,
		Description: domain.FailedChargePrefix + cause.Error(),
	}
	if err := s.paymentRepo.Create(ctx, failed); err != nil {
		logger.Error("Failed to record failed charge",
			"run_id", runID,
			"contract_id", contract.ID,
			"error", err)
	}

	s.bus.Publish(ctx, events.TopicPaymentFailed, events.PaymentFailed{
		RunID:      runID,
		ContractID: contract.ID,
		DriverID:   contract.DriverID,
		Amount:     contract.DailyRate,
		Reason:     cause.Error(),
		Timestamp:  time.Now(),
	})
}

func (s *billingService) TodayStats(ctx context.Context, scope domain.Scope) (*domain.BillingStats, error) {
	from := startOfDay(time.Now())
	to := from.AddDate(0, 0, 1)
	return s.paymentRepo.DailyRentStats(ctx, from, to, scope)
}

func (s *billingService) DriversInDebt(ctx context.Context, scope domain.Scope) ([]domain.DebtorRecord, error) {
	debtors, err := s.driverRepo.ListInDebt(ctx, scope)
	if err != nil {
		return nil, err
	}
	for i := range debtors {
		d := &debtors[i]
		d.DebtAmount = d.Balance.Neg()
		if d.CombinedDailyRate.IsPositive() {
			d.DaysInDebt = int32(d.DebtAmount.Div(d.CombinedDailyRate).Ceil().IntPart())
		}
	}
	return debtors, nil
}
