package domain

import "github.com/shopspring/decimal"

// Driver rents vehicles under contracts. Balance is signed and may go negative
// (accrued debt); Deposit is pre-funded escrow and never goes below zero.
type Driver struct {
	ID            int32           `json:"id"`
	CompanyID     int32           `json:"company_id"`
	Name          string          `json:"name"`
	LicenseNumber string          `json:"license_number"`
	Balance       decimal.Decimal `json:"balance"`
	Deposit       decimal.Decimal `json:"deposit"`
	Active        bool            `json:"active"`
}

// DebtorRecord is a driver with a negative balance and at least one active
// contract, annotated with how deep the debt runs at the current daily rates.
type DebtorRecord struct {
	DriverID          int32           `json:"driver_id"`
	CompanyID         int32           `json:"company_id"`
	Name              string          `json:"name"`
	LicenseNumber     string          `json:"license_number"`
	Balance           decimal.Decimal `json:"balance"`
	DebtAmount        decimal.Decimal `json:"debt_amount"`
	ActiveContracts   int32           `json:"active_contracts"`
	CombinedDailyRate decimal.Decimal `json:"combined_daily_rate"`
	DaysInDebt        int32           `json:"days_in_debt"`
}
