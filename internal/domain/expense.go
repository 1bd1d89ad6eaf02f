package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense records a cost borne by the company, optionally attributed to a
// driver or a vehicle. Expenses feed analytics; they do not touch balances.
type Expense struct {
	ID          int64           `json:"id"`
	CompanyID   int32           `json:"company_id"`
	DriverID    *int32          `json:"driver_id,omitempty"`
	VehicleID   *int32          `json:"vehicle_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
}
