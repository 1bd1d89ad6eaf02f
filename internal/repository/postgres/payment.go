package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	query := `INSERT INTO payments (company_id, driver_id, contract_id, created_by_id, amount, type, outcome, description, date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return runner(ctx, r.db).QueryRowContext(ctx, query,
		p.CompanyID, p.DriverID, p.ContractID, p.CreatedByID, p.Amount, p.Type, p.Outcome, p.Description, p.Date,
	).Scan(&p.ID)
}

func (r *paymentRepository) CountByContract(ctx context.Context, contractID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM payments WHERE contract_id = $1`
	err := runner(ctx, r.db).QueryRowContext(ctx, query, contractID).Scan(&count)
	return count, err
}

func (r *paymentRepository) DailyRentStats(ctx context.Context, from, to time.Time, scope domain.Scope) (*domain.BillingStats, error) {
	query := `
		SELECT count(*),
		       count(*) FILTER (WHERE outcome = 'SUCCESS'),
		       count(*) FILTER (WHERE outcome = 'FAILED'),
		       COALESCE(SUM(amount) FILTER (WHERE outcome = 'SUCCESS'), 0)
		FROM payments
		WHERE type = 'DAILY_RENT' AND date >= $1 AND date < $2`
	args := []any{from, to}
	if companyID, ok := scope.CompanyID(); ok {
		query += ` AND company_id = $3`
		args = append(args, companyID)
	}

	stats := &domain.BillingStats{}
	err := runner(ctx, r.db).QueryRowContext(ctx, query, args...).
		Scan(&stats.Total, &stats.Successful, &stats.Failed, &stats.TotalAmount)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *paymentRepository) SumIncomeByCompany(ctx context.Context, companyID int32, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments
	          WHERE company_id = $1 AND date >= $2 AND date < $3
	            AND outcome = 'SUCCESS' AND type IN ('PAYMENT', 'DAILY_RENT', 'FINE')`
	err := runner(ctx, r.db).QueryRowContext(ctx, query, companyID, from, to).Scan(&sum)
	return sum, err
}

func (r *paymentRepository) SumIncomeByDriver(ctx context.Context, companyID int32, from, to time.Time) ([]repository.EntityAmount, error) {
	query := `SELECT driver_id, SUM(amount) FROM payments
	          WHERE company_id = $1 AND date >= $2 AND date < $3
	            AND outcome = 'SUCCESS' AND type IN ('PAYMENT', 'DAILY_RENT', 'FINE')
	          GROUP BY driver_id`
	return r.sumGrouped(ctx, query, companyID, from, to)
}

func (r *paymentRepository) SumIncomeByVehicle(ctx context.Context, companyID int32, from, to time.Time) ([]repository.EntityAmount, error) {
	// Revenue reaches a vehicle through the contract the payment references.
	query := `SELECT c.vehicle_id, SUM(p.amount) FROM payments p
	          JOIN contracts c ON c.id = p.contract_id
	          WHERE p.company_id = $1 AND p.date >= $2 AND p.date < $3
	            AND p.outcome = 'SUCCESS' AND p.type IN ('PAYMENT', 'DAILY_RENT', 'FINE')
	          GROUP BY c.vehicle_id`
	return r.sumGrouped(ctx, query, companyID, from, to)
}

func (r *paymentRepository) sumGrouped(ctx context.Context, query string, companyID int32, from, to time.Time) ([]repository.EntityAmount, error) {
	rows, err := runner(ctx, r.db).QueryContext(ctx, query, companyID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var amounts []repository.EntityAmount
	for rows.Next() {
		var ea repository.EntityAmount
		if err := rows.Scan(&ea.EntityID, &ea.Amount); err != nil {
			return nil, err
		}
		amounts = append(amounts, ea)
	}
	return amounts, rows.Err()
}
