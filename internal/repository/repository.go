package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fleetrental-backend/internal/domain"
)

// TxManager runs fn inside a single storage transaction. Every repository call
// made with the context fn receives joins that transaction; all writes commit
// or none do.
type TxManager interface {
	ExecTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id int32) (*domain.Company, error)
	ListActive(ctx context.Context) ([]domain.Company, error)
}

type DriverRepository interface {
	Create(ctx context.Context, driver *domain.Driver) error
	GetByID(ctx context.Context, id int32) (*domain.Driver, error)

	// AdjustBalance applies a signed delta as a single read-modify-write
	// statement. The balance may go negative.
	AdjustBalance(ctx context.Context, driverID int32, delta decimal.Decimal) error
	// HoldDeposit decrements the escrowed deposit, failing with
	// domain.ErrInsufficientDeposit instead of going below zero.
	HoldDeposit(ctx context.Context, driverID int32, amount decimal.Decimal) error
	// ReleaseDeposit returns a previously held amount to the escrow.
	ReleaseDeposit(ctx context.Context, driverID int32, amount decimal.Decimal) error

	// ListInDebt returns drivers with a negative balance and at least one
	// active contract, most indebted first, with the combined daily rate of
	// their active contracts attached.
	ListInDebt(ctx context.Context, scope domain.Scope) ([]domain.DebtorRecord, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	UpdateStatus(ctx context.Context, vehicleID int32, status domain.VehicleStatus) error
	// CountNonInactive is the fleet size used for utilization: everything but
	// INACTIVE vehicles.
	CountNonInactive(ctx context.Context, companyID int32) (int32, error)
}

type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	GetByID(ctx context.Context, id int32) (*domain.Contract, error)
	UpdateStatus(ctx context.Context, id int32, status domain.ContractStatus, endDate *time.Time, reason string) error
	Delete(ctx context.Context, id int32) error

	// ListBillable returns ACTIVE contracts whose end date is unset or not yet
	// past as of the given time.
	ListBillable(ctx context.Context, asOf time.Time) ([]domain.Contract, error)
	CountActiveByDriver(ctx context.Context, driverID int32) (int32, error)
	CountActiveByVehicle(ctx context.Context, vehicleID int32) (int32, error)
	CountActiveByCompany(ctx context.Context, companyID int32) (int32, error)
}

// EntityAmount is a per-entity aggregation result (driver or vehicle KPIs).
type EntityAmount struct {
	EntityID int32
	Amount   decimal.Decimal
}

// PaymentRepository is append-only: ledger entries are never updated or
// deleted in production operation.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	CountByContract(ctx context.Context, contractID int32) (int32, error)

	// DailyRentStats partitions DAILY_RENT entries in [from, to) by outcome.
	DailyRentStats(ctx context.Context, from, to time.Time, scope domain.Scope) (*domain.BillingStats, error)
	SumIncomeByCompany(ctx context.Context, companyID int32, from, to time.Time) (decimal.Decimal, error)
	SumIncomeByDriver(ctx context.Context, companyID int32, from, to time.Time) ([]EntityAmount, error)
	SumIncomeByVehicle(ctx context.Context, companyID int32, from, to time.Time) ([]EntityAmount, error)
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	SumByCompany(ctx context.Context, companyID int32, from, to time.Time) (decimal.Decimal, error)
}

type AnalyticsRepository interface {
	// Upsert writes the metric, overwriting an existing row with the same
	// (company, type, date, entity) key.
	Upsert(ctx context.Context, metric *domain.AnalyticsMetric) error
	Get(ctx context.Context, companyID int32, metricType domain.MetricType, date time.Time, entityID int32) (*domain.AnalyticsMetric, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
