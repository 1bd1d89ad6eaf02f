package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fleetrental-backend/internal/domain"
)

// Publisher delivers domain events to the listener layer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any)
}

// CreateContractRequest carries the validated input for contract creation.
// DailyRate and Deposit are snapshotted onto the contract.
type CreateContractRequest struct {
	DriverID  int32
	VehicleID int32
	DailyRate decimal.Decimal
	Deposit   decimal.Decimal
	StartDate time.Time
	EndDate   *time.Time
}

// TransitionRequest carries a status-transition input. EndDate is honored only
// for terminal transitions and defaults to now.
type TransitionRequest struct {
	Status  domain.ContractStatus
	Reason  string
	EndDate *time.Time
}

type ContractService interface {
	Create(ctx context.Context, req CreateContractRequest, scope domain.Scope) (*domain.Contract, error)
	TransitionStatus(ctx context.Context, contractID int32, req TransitionRequest, scope domain.Scope) (*domain.Contract, error)
	Remove(ctx context.Context, contractID int32, scope domain.Scope) error
}

type BillingService interface {
	// RunBillingCycle charges every billable contract once. Scheduled and
	// manual invocations share this entry point and return identical stats.
	RunBillingCycle(ctx context.Context) (*domain.BillingStats, error)
	TodayStats(ctx context.Context, scope domain.Scope) (*domain.BillingStats, error)
	DriversInDebt(ctx context.Context, scope domain.Scope) ([]domain.DebtorRecord, error)
}

type AnalyticsService interface {
	RecalculateDaily(ctx context.Context, day time.Time) (int, error)
	RecalculateWeekly(ctx context.Context, ref time.Time) (int, error)
	RecalculateMonthly(ctx context.Context, ref time.Time) (int, error)
	CleanupExpired(ctx context.Context) (int64, error)
}
