package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

type analyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) repository.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Upsert(ctx context.Context, m *domain.AnalyticsMetric) error {
	meta, err := json.Marshal(m.Metadata)
	if err != nil {
		return err
	}
	// Recomputation overwrites; the key tuple is uniquely constrained.
	query := `INSERT INTO analytics (company_id, metric_type, metric_date, entity_id, value, metadata, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (company_id, metric_type, metric_date, entity_id)
	          DO UPDATE SET value = EXCLUDED.value, metadata = EXCLUDED.metadata, updated_on = EXCLUDED.updated_on`
	now := time.Now()
	m.UpdatedOn = now
	_, err = runner(ctx, r.db).ExecContext(ctx, query,
		m.CompanyID, m.Type, m.Date, m.EntityID, m.Value, meta, now)
	return err
}

func (r *analyticsRepository) Get(ctx context.Context, companyID int32, metricType domain.MetricType, date time.Time, entityID int32) (*domain.AnalyticsMetric, error) {
	m := &domain.AnalyticsMetric{}
	var meta []byte
	query := `SELECT company_id, metric_type, metric_date, entity_id, value, metadata, updated_on
	          FROM analytics
	          WHERE company_id = $1 AND metric_type = $2 AND metric_date = $3 AND entity_id = $4`
	err := runner(ctx, r.db).QueryRowContext(ctx, query, companyID, metricType, date, entityID).
		Scan(&m.CompanyID, &m.Type, &m.Date, &m.EntityID, &m.Value, &meta, &m.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("metric %s for company %d", metricType, companyID)
	}
	if err != nil {
		return nil, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &m.Metadata); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *analyticsRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := runner(ctx, r.db).ExecContext(ctx, `DELETE FROM analytics WHERE metric_date < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
