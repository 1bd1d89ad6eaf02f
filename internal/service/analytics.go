package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/events"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/repository"
)

type analyticsService struct {
	companyRepo    repository.CompanyRepository
	contractRepo   repository.ContractRepository
	vehicleRepo    repository.VehicleRepository
	paymentRepo    repository.PaymentRepository
	expenseRepo    repository.ExpenseRepository
	analyticsRepo  repository.AnalyticsRepository
	bus            Publisher
	retentionYears int
}

func NewAnalyticsService(
	companyRepo repository.CompanyRepository,
	contractRepo repository.ContractRepository,
	vehicleRepo repository.VehicleRepository,
	paymentRepo repository.PaymentRepository,
	expenseRepo repository.ExpenseRepository,
	analyticsRepo repository.AnalyticsRepository,
	bus Publisher,
	retentionYears int,
) AnalyticsService {
	return &analyticsService{
		companyRepo:    companyRepo,
		contractRepo:   contractRepo,
		vehicleRepo:    vehicleRepo,
		paymentRepo:    paymentRepo,
		expenseRepo:    expenseRepo,
		analyticsRepo:  analyticsRepo,
		bus:            bus,
		retentionYears: retentionYears,
	}
}

// RecalculateDaily folds the ledger, contract and expense tables for one day
// into cached metric rows, per tenant. Every write is an upsert, so re-running
// the same day overwrites instead of duplicating. A failing company is logged
// and skipped; the rest are still processed.
func (s *analyticsService) RecalculateDaily(ctx context.Context, day time.Time) (int, error) {
	from := startOfDay(day)
	to := from.AddDate(0, 0, 1)

	companies, err := s.companyRepo.ListActive(ctx)
	if err != nil {
		s.bus.Publish(ctx, events.TopicAnalyticsFailed, events.AnalyticsFailed{
			Timestamp: time.Now(),
			Error:     err.Error(),
		})
		return 0, err
	}

	processed, failed := 0, 0
	for _, company := range companies {
		if err := s.recalcCompanyDaily(ctx, company.ID, from, to); err != nil {
			logger.Error("Daily analytics failed for company",
				"company_id", company.ID,
				"date", from.Format("2006-01-02"),
				"error", err)
			failed++
			continue
		}
		processed++
	}

	// Skipped companies are not silent: listeners get a failed event with the
	// shortfall alongside the completion summary.
	if failed > 0 {
		s.bus.Publish(ctx, events.TopicAnalyticsFailed, events.AnalyticsFailed{
			Timestamp: time.Now(),
			Error:     fmt.Sprintf("%d of %d companies failed", failed, len(companies)),
		})
	}
	s.bus.Publish(ctx, events.TopicAnalyticsCompleted, events.AnalyticsCompleted{
		Timestamp:          time.Now(),
		CompaniesProcessed: processed,
		CompaniesFailed:    failed,
	})
	logger.Info("Daily analytics completed",
		"date", from.Format("2006-01-02"),
		"companies_processed", processed,
		"companies_failed", failed)
	return processed, nil
}

func (s *analyticsService) recalcCompanyDaily(ctx context.Context, companyID int32, from, to time.Time) error {
	revenue, err := s.paymentRepo.SumIncomeByCompany(ctx, companyID, from, to)
	if err != nil {
		return err
	}
	if err := s.upsert(ctx, companyID, domain.MetricRevenueDaily, from, 0, revenue, nil); err != nil {
		return err
	}

	activeContracts, err := s.contractRepo.CountActiveByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	fleetSize, err := s.vehicleRepo.CountNonInactive(ctx, companyID)
	if err != nil {
		return err
	}
	utilization := decimal.Zero
	if fleetSize > 0 {
		utilization = decimal.NewFromInt32(activeContracts).
			Div(decimal.NewFromInt32(fleetSize)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	meta := map[string]string{
		"active_contracts": fmt.Sprintf("%d", activeContracts),
		"fleet_size":       fmt.Sprintf("%d", fleetSize),
	}
	if err := s.upsert(ctx, companyID, domain.MetricFleetUtilization, from, 0, utilization, meta); err != nil {
		return err
	}

	expenses, err := s.expenseRepo.SumByCompany(ctx, companyID, from, to)
	if err != nil {
		return err
	}
	if err := s.upsert(ctx, companyID, domain.MetricExpensesDaily, from, 0, expenses, nil); err != nil {
		return err
	}

	byDriver, err := s.paymentRepo.SumIncomeByDriver(ctx, companyID, from, to)
	if err != nil {
		return err
	}
	for _, ea := range byDriver {
		if err := s.upsert(ctx, companyID, domain.MetricDriverKPI, from, ea.EntityID, ea.Amount, nil); err != nil {
			return err
		}
	}

	byVehicle, err := s.paymentRepo.SumIncomeByVehicle(ctx, companyID, from, to)
	if err != nil {
		return err
	}
	for _, ea := range byVehicle {
		if err := s.upsert(ctx, companyID, domain.MetricVehicleKPI, from, ea.EntityID, ea.Amount, nil); err != nil {
			return err
		}
	}
	return nil
}

// RecalculateWeekly covers the seven days ending at ref's day (exclusive).
func (s *analyticsService) RecalculateWeekly(ctx context.Context, ref time.Time) (int, error) {
	to := startOfDay(ref)
	from := to.AddDate(0, 0, -7)
	return s.recalcRange(ctx, domain.MetricRevenueWeekly, "", from, to)
}

// RecalculateMonthly covers the calendar month before ref's month.
func (s *analyticsService) RecalculateMonthly(ctx context.Context, ref time.Time) (int, error) {
	y, m, _ := ref.Date()
	to := time.Date(y, m, 1, 0, 0, 0, 0, ref.Location())
	from := to.AddDate(0, -1, 0)
	return s.recalcRange(ctx, domain.MetricRevenueMonthly, domain.MetricExpensesMonthly, from, to)
}

func (s *analyticsService) recalcRange(ctx context.Context, revenueMetric, expenseMetric domain.MetricType, from, to time.Time) (int, error) {
	companies, err := s.companyRepo.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, company := range companies {
		revenue, err := s.paymentRepo.SumIncomeByCompany(ctx, company.ID, from, to)
		if err != nil {
			logger.Error("Range analytics failed for company", "company_id", company.ID, "metric", revenueMetric, "error", err)
			continue
		}
		if err := s.upsert(ctx, company.ID, revenueMetric, from, 0, revenue, nil); err != nil {
			logger.Error("Range analytics upsert failed", "company_id", company.ID, "metric", revenueMetric, "error", err)
			continue
		}
		if expenseMetric != "" {
			expenses, err := s.expenseRepo.SumByCompany(ctx, company.ID, from, to)
			if err != nil {
				logger.Error("Range analytics failed for company", "company_id", company.ID, "metric", expenseMetric, "error", err)
				continue
			}
			if err := s.upsert(ctx, company.ID, expenseMetric, from, 0, expenses, nil); err != nil {
				logger.Error("Range analytics upsert failed", "company_id", company.ID, "metric", expenseMetric, "error", err)
				continue
			}
		}
		processed++
	}
	logger.Info("Range analytics completed",
		"metric", revenueMetric,
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"),
		"companies_processed", processed)
	return processed, nil
}

// CleanupExpired drops cached metric rows older than the retention window.
// Metrics are derived data; anything dropped can be rebuilt from the ledger.
func (s *analyticsService) CleanupExpired(ctx context.Context) (int64, error) {
	cutoff := startOfDay(time.Now()).AddDate(-s.retentionYears, 0, 0)
	deleted, err := s.analyticsRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logger.Info("Analytics retention cleanup completed",
		"cutoff", cutoff.Format("2006-01-02"),
		"rows_deleted", deleted)
	return deleted, nil
}

func (s *analyticsService) upsert(ctx context.Context, companyID int32, metricType domain.MetricType, date time.Time, entityID int32, value decimal.Decimal, meta map[string]string) error {
	return s.analyticsRepo.Upsert(ctx, &domain.AnalyticsMetric{
		CompanyID: companyID,
		Type:      metricType,
		Date:      date,
		EntityID:  entityID,
		Value:     value,
		Metadata:  meta,
	})
}
