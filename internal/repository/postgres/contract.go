package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

type contractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) repository.ContractRepository {
	return &contractRepository{db: db}
}

const contractColumns = `id, company_id, driver_id, vehicle_id, daily_rate, deposit, start_date, end_date, status, COALESCE(reason, ''), created_on, updated_on`

func (r *contractRepository) Create(ctx context.Context, c *domain.Contract) error {
	query := `INSERT INTO contracts (company_id, driver_id, vehicle_id, daily_rate, deposit, start_date, end_date, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	c.CreatedOn = now
	c.UpdatedOn = now
	return runner(ctx, r.db).QueryRowContext(ctx, query,
		c.CompanyID, c.DriverID, c.VehicleID, c.DailyRate, c.Deposit, c.StartDate, c.EndDate, c.Status, now, now,
	).Scan(&c.ID)
}

func (r *contractRepository) GetByID(ctx context.Context, id int32) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	c, err := scanContract(runner(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("contract %d", id)
	}
	return c, err
}

func (r *contractRepository) UpdateStatus(ctx context.Context, id int32, status domain.ContractStatus, endDate *time.Time, reason string) error {
	// end_date, once set by a terminal transition, is never cleared.
	query := `UPDATE contracts SET status = $1, end_date = COALESCE($2, end_date), reason = $3, updated_on = $4 WHERE id = $5`
	res, err := runner(ctx, r.db).ExecContext(ctx, query, status, endDate, reason, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.NotFoundf("contract %d", id))
}

func (r *contractRepository) Delete(ctx context.Context, id int32) error {
	res, err := runner(ctx, r.db).ExecContext(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.NotFoundf("contract %d", id))
}

func (r *contractRepository) ListBillable(ctx context.Context, asOf time.Time) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts
	          WHERE status = 'ACTIVE' AND (end_date IS NULL OR end_date >= $1)
	          ORDER BY id`
	rows, err := runner(ctx, r.db).QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, rows.Err()
}

func (r *contractRepository) CountActiveByDriver(ctx context.Context, driverID int32) (int32, error) {
	return r.countActive(ctx, `driver_id`, driverID)
}

func (r *contractRepository) CountActiveByVehicle(ctx context.Context, vehicleID int32) (int32, error) {
	return r.countActive(ctx, `vehicle_id`, vehicleID)
}

func (r *contractRepository) CountActiveByCompany(ctx context.Context, companyID int32) (int32, error) {
	return r.countActive(ctx, `company_id`, companyID)
}

func (r *contractRepository) countActive(ctx context.Context, column string, id int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM contracts WHERE ` + column + ` = $1 AND status = 'ACTIVE'`
	err := runner(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (*domain.Contract, error) {
	c := &domain.Contract{}
	var endDate sql.NullTime
	err := row.Scan(&c.ID, &c.CompanyID, &c.DriverID, &c.VehicleID, &c.DailyRate, &c.Deposit,
		&c.StartDate, &endDate, &c.Status, &c.Reason, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if endDate.Valid {
		c.EndDate = &endDate.Time
	}
	return c, nil
}
