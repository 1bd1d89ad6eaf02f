package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypePayment   PaymentType = "PAYMENT"
	PaymentTypeFine      PaymentType = "FINE"
	PaymentTypeBonus     PaymentType = "BONUS"
	PaymentTypeDailyRent PaymentType = "DAILY_RENT"
	PaymentTypeDeposit   PaymentType = "DEPOSIT"
	PaymentTypeRefund    PaymentType = "REFUND"
)

// IsIncome reports whether entries of this type count toward revenue.
// DEPOSIT is escrow movement, BONUS and REFUND are outflows.
func (t PaymentType) IsIncome() bool {
	return t == PaymentTypePayment || t == PaymentTypeDailyRent || t == PaymentTypeFine
}

type PaymentOutcome string

const (
	PaymentOutcomeSuccess PaymentOutcome = "SUCCESS"
	PaymentOutcomeFailed  PaymentOutcome = "FAILED"
)

// FailedChargePrefix is prepended to the description of a charge attempt that
// failed to apply. The outcome column is authoritative; the prefix only keeps
// the audit text self-explanatory.
const FailedChargePrefix = "ERROR: "

// Payment is an append-only ledger entry. Entries are never updated or deleted;
// a failed billing attempt is still recorded, with Outcome FAILED.
type Payment struct {
	ID          int64           `json:"id"`
	CompanyID   int32           `json:"company_id"`
	DriverID    int32           `json:"driver_id"`
	ContractID  *int32          `json:"contract_id,omitempty"`
	CreatedByID *int32          `json:"created_by_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        PaymentType     `json:"type"`
	Outcome     PaymentOutcome  `json:"outcome"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
}

// BillingStats summarizes one billing cycle, or one day's DAILY_RENT entries.
// TotalAmount covers successful charges only.
type BillingStats struct {
	RunID       string          `json:"run_id,omitempty"`
	Total       int32           `json:"total"`
	Successful  int32           `json:"successful"`
	Failed      int32           `json:"failed"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
