package events

import (
	"time"

	"github.com/shopspring/decimal"

	"fleetrental-backend/internal/domain"
)

// Topics consumed by the notification/listener layer.
const (
	TopicBillingCompleted   = "billing.daily.completed"
	TopicPaymentFailed      = "billing.payment.failed"
	TopicAnalyticsCompleted = "analytics.daily.completed"
	TopicAnalyticsFailed    = "analytics.daily.failed"
)

// DailyBillingCompleted is published once per billing cycle, scheduled or
// manual, after every active contract has been attempted.
type DailyBillingCompleted struct {
	Stats     domain.BillingStats `json:"stats"`
	Timestamp time.Time           `json:"timestamp"`
}

// PaymentFailed is published for each contract whose charge could not be
// written. The contract stays ACTIVE and is retried on the next cycle.
type PaymentFailed struct {
	RunID      string          `json:"run_id"`
	ContractID int32           `json:"contract_id"`
	DriverID   int32           `json:"driver_id"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	Timestamp  time.Time       `json:"timestamp"`
}

type AnalyticsCompleted struct {
	Timestamp          time.Time `json:"timestamp"`
	CompaniesProcessed int       `json:"companies_processed"`
	CompaniesFailed    int       `json:"companies_failed"`
}

type AnalyticsFailed struct {
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error"`
}
