package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

type companyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) repository.CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, c *domain.Company) error {
	query := `INSERT INTO companies (name, email, active, created_on)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	return runner(ctx, r.db).QueryRowContext(ctx, query, c.Name, c.Email, c.Active, time.Now()).Scan(&c.ID)
}

func (r *companyRepository) GetByID(ctx context.Context, id int32) (*domain.Company, error) {
	c := &domain.Company{}
	query := `SELECT id, name, email, active, created_on FROM companies WHERE id = $1`
	err := runner(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Active, &c.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("company %d", id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *companyRepository) ListActive(ctx context.Context) ([]domain.Company, error) {
	query := `SELECT id, name, email, active, created_on FROM companies WHERE active = true ORDER BY id`
	rows, err := runner(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Active, &c.CreatedOn); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
