package domain

import "github.com/shopspring/decimal"

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusRented      VehicleStatus = "RENTED"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
	VehicleStatusInactive    VehicleStatus = "INACTIVE"
)

// Vehicle status is RENTED exactly while one ACTIVE contract references it.
// Status changes happen only as side effects of contract transitions.
type Vehicle struct {
	ID          int32           `json:"id"`
	CompanyID   int32           `json:"company_id"`
	VIN         string          `json:"vin"`
	PlateNumber string          `json:"plate_number"`
	Status      VehicleStatus   `json:"status"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
}
