package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
	"fleetrental-backend/internal/repository/postgres"
)

func newAnalyticsRepo(t *testing.T) (repository.AnalyticsRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewAnalyticsRepository(db), mock
}

func TestAnalyticsRepository_Upsert(t *testing.T) {
	repo, mock := newAnalyticsRepo(t)
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO analytics .+ ON CONFLICT \(company_id, metric_type, metric_date, entity_id\)`).
		WithArgs(int32(7), string(domain.MetricFleetUtilization), date, int32(0),
			decimal.NewFromInt(30), []byte(`{"active_contracts":"3","fleet_size":"10"}`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &domain.AnalyticsMetric{
		CompanyID: 7,
		Type:      domain.MetricFleetUtilization,
		Date:      date,
		EntityID:  0,
		Value:     decimal.NewFromInt(30),
		Metadata:  map[string]string{"active_contracts": "3", "fleet_size": "10"},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepository_Get(t *testing.T) {
	repo, mock := newAnalyticsRepo(t)
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	columns := []string{"company_id", "metric_type", "metric_date", "entity_id", "value", "metadata", "updated_on"}

	mock.ExpectQuery(`FROM analytics WHERE company_id = \$1 AND metric_type = \$2`).
		WithArgs(int32(7), string(domain.MetricRevenueDaily), date, int32(0)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(7, "REVENUE_DAILY", date, 0, "1250", []byte(`{"source":"ledger"}`), time.Now()))

	m, err := repo.Get(context.Background(), 7, domain.MetricRevenueDaily, date, 0)

	require.NoError(t, err)
	assert.True(t, m.Value.Equal(decimal.NewFromInt(1250)))
	assert.Equal(t, "ledger", m.Metadata["source"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepository_DeleteOlderThan(t *testing.T) {
	repo, mock := newAnalyticsRepo(t)
	cutoff := time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM analytics WHERE metric_date < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 37))

	deleted, err := repo.DeleteOlderThan(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(37), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
