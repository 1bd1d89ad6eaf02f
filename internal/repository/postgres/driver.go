package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

type driverRepository struct {
	db *sql.DB
}

func NewDriverRepository(db *sql.DB) repository.DriverRepository {
	return &driverRepository{db: db}
}

func (r *driverRepository) Create(ctx context.Context, d *domain.Driver) error {
	query := `INSERT INTO drivers (company_id, name, license_number, balance, deposit, active)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return runner(ctx, r.db).QueryRowContext(ctx, query, d.CompanyID, d.Name, d.LicenseNumber, d.Balance, d.Deposit, d.Active).Scan(&d.ID)
}

func (r *driverRepository) GetByID(ctx context.Context, id int32) (*domain.Driver, error) {
	d := &domain.Driver{}
	query := `SELECT id, company_id, name, license_number, balance, deposit, active FROM drivers WHERE id = $1`
	err := runner(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&d.ID, &d.CompanyID, &d.Name, &d.LicenseNumber, &d.Balance, &d.Deposit, &d.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("driver %d", id)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// AdjustBalance mutates the balance in SQL so concurrent writers serialize on
// the row; the new value is never computed in application memory.
func (r *driverRepository) AdjustBalance(ctx context.Context, driverID int32, delta decimal.Decimal) error {
	query := `UPDATE drivers SET balance = balance + $1 WHERE id = $2`
	res, err := runner(ctx, r.db).ExecContext(ctx, query, delta, driverID)
	if err != nil {
		return err
	}
	return requireRow(res, domain.NotFoundf("driver %d", driverID))
}

func (r *driverRepository) HoldDeposit(ctx context.Context, driverID int32, amount decimal.Decimal) error {
	// The deposit >= amount guard keeps the escrow non-negative even under
	// concurrent holds.
	query := `UPDATE drivers SET deposit = deposit - $1 WHERE id = $2 AND deposit >= $1`
	res, err := runner(ctx, r.db).ExecContext(ctx, query, amount, driverID)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrInsufficientDeposit)
}

func (r *driverRepository) ReleaseDeposit(ctx context.Context, driverID int32, amount decimal.Decimal) error {
	query := `UPDATE drivers SET deposit = deposit + $1 WHERE id = $2`
	res, err := runner(ctx, r.db).ExecContext(ctx, query, amount, driverID)
	if err != nil {
		return err
	}
	return requireRow(res, domain.NotFoundf("driver %d", driverID))
}

func (r *driverRepository) ListInDebt(ctx context.Context, scope domain.Scope) ([]domain.DebtorRecord, error) {
	query := `
		SELECT d.id, d.company_id, d.name, d.license_number, d.balance,
		       COUNT(c.id), COALESCE(SUM(c.daily_rate), 0)
		FROM drivers d
		JOIN contracts c ON c.driver_id = d.id AND c.status = 'ACTIVE'
		WHERE d.balance < 0`
	args := []any{}
	if companyID, ok := scope.CompanyID(); ok {
		query += ` AND d.company_id = $1`
		args = append(args, companyID)
	}
	query += `
		GROUP BY d.id, d.company_id, d.name, d.license_number, d.balance
		ORDER BY d.balance ASC`

	rows, err := runner(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debtors []domain.DebtorRecord
	for rows.Next() {
		var rec domain.DebtorRecord
		if err := rows.Scan(&rec.DriverID, &rec.CompanyID, &rec.Name, &rec.LicenseNumber, &rec.Balance, &rec.ActiveContracts, &rec.CombinedDailyRate); err != nil {
			return nil, err
		}
		debtors = append(debtors, rec)
	}
	return debtors, rows.Err()
}

// requireRow converts a zero-rows-affected result into notMatched.
func requireRow(res sql.Result, notMatched error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notMatched
	}
	return nil
}
