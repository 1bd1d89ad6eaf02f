package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "ACTIVE"
	ContractStatusCompleted  ContractStatus = "COMPLETED"
	ContractStatusTerminated ContractStatus = "TERMINATED"
	ContractStatusSuspended  ContractStatus = "SUSPENDED"
)

// IsTerminal reports whether no further transitions are allowed.
func (s ContractStatus) IsTerminal() bool {
	return s == ContractStatusCompleted || s == ContractStatusTerminated
}

// CanTransitionTo encodes the status machine: ACTIVE may complete, terminate or
// suspend; SUSPENDED may re-activate or close out; terminal statuses are final.
func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	if s.IsTerminal() || next == s {
		return false
	}
	switch s {
	case ContractStatusActive:
		return next == ContractStatusCompleted || next == ContractStatusTerminated || next == ContractStatusSuspended
	case ContractStatusSuspended:
		return next == ContractStatusActive || next == ContractStatusCompleted || next == ContractStatusTerminated
	}
	return false
}

// Contract binds one driver to one vehicle for an interval.
// DailyRate and Deposit are snapshots taken at creation; later changes to the
// vehicle's rate do not affect running contracts.
type Contract struct {
	ID        int32           `json:"id"`
	CompanyID int32           `json:"company_id"`
	DriverID  int32           `json:"driver_id"`
	VehicleID int32           `json:"vehicle_id"`
	DailyRate decimal.Decimal `json:"daily_rate"`
	Deposit   decimal.Decimal `json:"deposit"`
	StartDate time.Time       `json:"start_date"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
	Status    ContractStatus  `json:"status"`
	Reason    string          `json:"reason,omitempty"`
	CreatedOn time.Time       `json:"created_on"`
	UpdatedOn time.Time       `json:"updated_on"`
}
