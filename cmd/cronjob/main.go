package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"fleetrental-backend/internal/config"
	"fleetrental-backend/internal/events"
	"fleetrental-backend/internal/jobs"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/repository/postgres"
	"fleetrental-backend/internal/scheduler"
	"fleetrental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'daily-billing', 'daily-analytics', 'all-daily')")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Fleet Rental Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Event Bus
	bus := events.NewBus()

	// Initialize Services
	billingService := service.NewBillingService(
		store,
		store.ContractRepository,
		store.DriverRepository,
		store.PaymentRepository,
		bus,
	)
	analyticsService := service.NewAnalyticsService(
		store.CompanyRepository,
		store.ContractRepository,
		store.VehicleRepository,
		store.PaymentRepository,
		store.ExpenseRepository,
		store.AnalyticsRepository,
		bus,
		cfg.Analytics.RetentionYears,
	)

	jobServices := &jobs.Services{
		Billing:   billingService,
		Analytics: analyticsService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "daily-billing":
		jobRunner.RunDailyBilling()
	case "daily-analytics":
		jobRunner.RunDailyAnalytics()
	case "weekly-analytics":
		jobRunner.RunWeeklyAnalytics()
	case "monthly-analytics":
		jobRunner.RunMonthlyAnalytics()
	case "analytics-cleanup":
		jobRunner.RunAnalyticsCleanup()
	case "all-daily":
		jobRunner.RunAllDailyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - daily-billing\n")
		fmt.Printf("  - daily-analytics\n")
		fmt.Printf("  - weekly-analytics\n")
		fmt.Printf("  - monthly-analytics\n")
		fmt.Printf("  - analytics-cleanup\n")
		fmt.Printf("  - all-daily\n")
		os.Exit(1)
	}
}
