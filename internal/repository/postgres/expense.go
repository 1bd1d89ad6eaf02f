package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

type expenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) repository.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	query := `INSERT INTO expenses (company_id, driver_id, vehicle_id, amount, category, description, date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return runner(ctx, r.db).QueryRowContext(ctx, query,
		e.CompanyID, e.DriverID, e.VehicleID, e.Amount, e.Category, e.Description, e.Date,
	).Scan(&e.ID)
}

func (r *expenseRepository) SumByCompany(ctx context.Context, companyID int32, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE company_id = $1 AND date >= $2 AND date < $3`
	err := runner(ctx, r.db).QueryRowContext(ctx, query, companyID, from, to).Scan(&sum)
	return sum, err
}
