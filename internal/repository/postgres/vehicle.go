package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (company_id, vin, plate_number, status, daily_rate)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return runner(ctx, r.db).QueryRowContext(ctx, query, v.CompanyID, v.VIN, v.PlateNumber, v.Status, v.DailyRate).Scan(&v.ID)
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT id, company_id, vin, plate_number, status, daily_rate FROM vehicles WHERE id = $1`
	err := runner(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&v.ID, &v.CompanyID, &v.VIN, &v.PlateNumber, &v.Status, &v.DailyRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("vehicle %d", id)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) UpdateStatus(ctx context.Context, vehicleID int32, status domain.VehicleStatus) error {
	query := `UPDATE vehicles SET status = $1 WHERE id = $2`
	res, err := runner(ctx, r.db).ExecContext(ctx, query, status, vehicleID)
	if err != nil {
		return err
	}
	return requireRow(res, domain.NotFoundf("vehicle %d", vehicleID))
}

func (r *vehicleRepository) CountNonInactive(ctx context.Context, companyID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM vehicles WHERE company_id = $1 AND status != 'INACTIVE'`
	err := runner(ctx, r.db).QueryRowContext(ctx, query, companyID).Scan(&count)
	return count, err
}
