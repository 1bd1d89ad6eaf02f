package service

import (
	"context"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/repository"
)

type contractService struct {
	txm          repository.TxManager
	contractRepo repository.ContractRepository
	driverRepo   repository.DriverRepository
	vehicleRepo  repository.VehicleRepository
	paymentRepo  repository.PaymentRepository
}

func NewContractService(
	txm repository.TxManager,
	contractRepo repository.ContractRepository,
	driverRepo repository.DriverRepository,
	vehicleRepo repository.VehicleRepository,
	paymentRepo repository.PaymentRepository,
) ContractService {
	return &contractService{
		txm:          txm,
		contractRepo: contractRepo,
		driverRepo:   driverRepo,
		vehicleRepo:  vehicleRepo,
		paymentRepo:  paymentRepo,
	}
}

// Create checks every precondition before any write, then commits the contract
// insert, vehicle status change, deposit hold and deposit ledger entry as one
// transaction.
func (s *contractService) Create(ctx context.Context, req CreateContractRequest, scope domain.Scope) (*domain.Contract, error) {
	if !req.DailyRate.IsPositive() {
		return nil, domain.Validationf("daily rate must be positive")
	}
	if req.Deposit.IsNegative() {
		return nil, domain.Validationf("deposit must not be negative")
	}

	driver, err := s.driverRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	// A scope mismatch reads as not-found so tenants cannot probe foreign IDs.
	if !scope.Allows(driver.CompanyID) {
		return nil, domain.NotFoundf("driver %d", req.DriverID)
	}
	if !driver.Active {
		return nil, domain.Validationf("driver %d is not active", driver.ID)
	}

	activeByDriver, err := s.contractRepo.CountActiveByDriver(ctx, driver.ID)
	if err != nil {
		return nil, err
	}
	if activeByDriver > 0 {
		return nil, domain.Conflictf("driver %d already has an active contract", driver.ID)
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(vehicle.CompanyID) {
		return nil, domain.NotFoundf("vehicle %d", req.VehicleID)
	}
	// Driver and vehicle must share a company even under the unrestricted
	// scope; a contract never spans tenants.
	if vehicle.CompanyID != driver.CompanyID {
		return nil, domain.Conflictf("vehicle %d belongs to a different company than driver %d", vehicle.ID, driver.ID)
	}
	if vehicle.Status != domain.VehicleStatusAvailable {
		return nil, domain.Conflictf("vehicle %d is %s, not AVAILABLE", vehicle.ID, vehicle.Status)
	}

	activeByVehicle, err := s.contractRepo.CountActiveByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}
	if activeByVehicle > 0 {
		return nil, domain.Conflictf("vehicle %d already has an active contract", vehicle.ID)
	}

	if dateOnly(req.StartDate).Before(dateOnly(time.Now())) {
		return nil, domain.Validationf("start date must not be in the past")
	}
	if req.EndDate != nil && !req.EndDate.After(req.StartDate) {
		return nil, domain.Validationf("end date must be after start date")
	}

	if driver.Deposit.LessThan(req.Deposit) {
		return nil, domain.ErrInsufficientDeposit
	}

	contract := &domain.Contract{
		CompanyID: driver.CompanyID,
		DriverID:  driver.ID,
		VehicleID: vehicle.ID,
		DailyRate: req.DailyRate,
		Deposit:   req.Deposit,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    domain.ContractStatusActive,
	}

	err = s.txm.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.contractRepo.Create(ctx, contract); err != nil {
			return err
		}
		if err := s.vehicleRepo.UpdateStatus(ctx, vehicle.ID, domain.VehicleStatusRented); err != nil {
			return err
		}
		if contract.Deposit.IsPositive() {
			if err := s.driverRepo.HoldDeposit(ctx, driver.ID, contract.Deposit); err != nil {
				return err
			}
			deposit := &domain.Payment{
				CompanyID:   contract.CompanyID,
				DriverID:    driver.ID,
				ContractID:  &contract.ID,
				Amount:      contract.Deposit,
				Type:        domain.PaymentTypeDeposit,
				Outcome:     domain.PaymentOutcomeSuccess,
				Description: "Deposit held for contract",
			}
			if err := s.paymentRepo.Create(ctx, deposit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Contract created",
		"contract_id", contract.ID,
		"driver_id", driver.ID,
		"vehicle_id", vehicle.ID,
		"daily_rate", contract.DailyRate,
		"deposit", contract.Deposit)
	return contract, nil
}

func (s *contractService) TransitionStatus(ctx context.Context, contractID int32, req TransitionRequest, scope domain.Scope) (*domain.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(contract.CompanyID) {
		return nil, domain.NotFoundf("contract %d", contractID)
	}
	if contract.Status.IsTerminal() {
		return nil, domain.Conflictf("contract %d is %s and cannot change status", contractID, contract.Status)
	}
	if !contract.Status.CanTransitionTo(req.Status) {
		return nil, domain.Validationf("cannot transition contract %d from %s to %s", contractID, contract.Status, req.Status)
	}

	var endDate *time.Time
	if req.Status.IsTerminal() {
		end := time.Now()
		if req.EndDate != nil {
			end = *req.EndDate
		}
		endDate = &end
	}

	err = s.txm.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.contractRepo.UpdateStatus(ctx, contractID, req.Status, endDate, req.Reason); err != nil {
			return err
		}
		switch {
		case req.Status.IsTerminal():
			if err := s.vehicleRepo.UpdateStatus(ctx, contract.VehicleID, domain.VehicleStatusAvailable); err != nil {
				return err
			}
			if contract.Deposit.IsPositive() {
				if err := s.driverRepo.ReleaseDeposit(ctx, contract.DriverID, contract.Deposit); err != nil {
					return err
				}
				refund := &domain.Payment{
					CompanyID:   contract.CompanyID,
					DriverID:    contract.DriverID,
					ContractID:  &contract.ID,
					Amount:      contract.Deposit,
					Type:        domain.PaymentTypeRefund,
					Outcome:     domain.PaymentOutcomeSuccess,
					Description: "Deposit returned on contract close",
				}
				if err := s.paymentRepo.Create(ctx, refund); err != nil {
					return err
				}
			}
		case req.Status == domain.ContractStatusActive:
			// Re-activation from SUSPENDED takes the vehicle back.
			if err := s.vehicleRepo.UpdateStatus(ctx, contract.VehicleID, domain.VehicleStatusRented); err != nil {
				return err
			}
		}
		// SUSPENDED leaves the vehicle RENTED: the contract still holds it.
		return nil
	})
	if err != nil {
		return nil, err
	}

	contract.Status = req.Status
	contract.Reason = req.Reason
	if endDate != nil {
		contract.EndDate = endDate
	}
	logger.Info("Contract status changed",
		"contract_id", contract.ID,
		"status", contract.Status,
		"reason", req.Reason)
	return contract, nil
}

// Remove deletes a contract record. Active contracts and contracts referenced
// by ledger entries stay: history is never silently orphaned.
func (s *contractService) Remove(ctx context.Context, contractID int32, scope domain.Scope) error {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return err
	}
	if !scope.Allows(contract.CompanyID) {
		return domain.NotFoundf("contract %d", contractID)
	}
	if contract.Status == domain.ContractStatusActive {
		return domain.Conflictf("contract %d is active", contractID)
	}
	payments, err := s.paymentRepo.CountByContract(ctx, contractID)
	if err != nil {
		return err
	}
	if payments > 0 {
		return domain.Conflictf("contract %d has %d ledger entries", contractID, payments)
	}
	return s.contractRepo.Delete(ctx, contractID)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dateOnly reduces t to its calendar date. Request dates arrive as UTC
// midnight while the server clock may run in another zone, so "today"
// comparisons must ignore the time of day and the zone.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
