package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MetricType string

const (
	MetricRevenueDaily     MetricType = "REVENUE_DAILY"
	MetricRevenueWeekly    MetricType = "REVENUE_WEEKLY"
	MetricRevenueMonthly   MetricType = "REVENUE_MONTHLY"
	MetricFleetUtilization MetricType = "FLEET_UTILIZATION"
	MetricExpensesDaily    MetricType = "EXPENSES_DAILY"
	MetricExpensesMonthly  MetricType = "EXPENSES_MONTHLY"
	MetricDriverKPI        MetricType = "DRIVER_KPI"
	MetricVehicleKPI       MetricType = "VEHICLE_KPI"
)

// AnalyticsMetric is a derived cache row, rebuildable from the ledger and
// contract tables. Unique on (CompanyID, Type, Date, EntityID) so recomputation
// is an upsert. EntityID is 0 for company-wide metrics, otherwise the driver or
// vehicle the KPI belongs to.
type AnalyticsMetric struct {
	CompanyID int32             `json:"company_id"`
	Type      MetricType        `json:"metric_type"`
	Date      time.Time         `json:"date"`
	EntityID  int32             `json:"entity_id"`
	Value     decimal.Decimal   `json:"value"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	UpdatedOn time.Time         `json:"updated_on"`
}
