package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"fleetrental-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.CompanyRepository
	repository.DriverRepository
	repository.VehicleRepository
	repository.ContractRepository
	repository.PaymentRepository
	repository.ExpenseRepository
	repository.AnalyticsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                  db,
		CompanyRepository:   NewCompanyRepository(db),
		DriverRepository:    NewDriverRepository(db),
		VehicleRepository:   NewVehicleRepository(db),
		ContractRepository:  NewContractRepository(db),
		PaymentRepository:   NewPaymentRepository(db),
		ExpenseRepository:   NewExpenseRepository(db),
		AnalyticsRepository: NewAnalyticsRepository(db),
	}
}

type txKey struct{}

// ExecTx runs fn inside one database transaction. Repository calls made with
// the derived context join the transaction; a returned error rolls everything
// back, so a partial failure is never visible to concurrent readers.
func (s *Store) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	return tx.Commit()
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// runner returns the transaction carried by ctx, or the bare connection pool.
func runner(ctx context.Context, db *sql.DB) dbtx {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
