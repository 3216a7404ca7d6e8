package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"cabanas-backend/internal/config"
	"cabanas-backend/internal/gateway"
	"cabanas-backend/internal/jobs"
	"cabanas-backend/internal/logger"
	"cabanas-backend/internal/repository/postgres"
	"cabanas-backend/internal/scheduler"
	"cabanas-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-holds', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting expiry sweeper...", "log_level", cfg.Log.Level)

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

	// Initialize Services. The sweeper needs the same reconciliation stack as
	// the server so PollGatewayAttempts can settle attempts the webhook missed.
	notificationService := service.NewNotificationService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)
	gatewayClient := gateway.NewClient(
		cfg.Gateway.BaseURL,
		cfg.Gateway.APIKey,
		time.Duration(cfg.Gateway.TimeoutSeconds)*time.Second,
		cfg.Gateway.MaxRetries,
	)
	catalogService := service.NewCatalogService(store.Units)
	discountService := service.NewDiscountService(store.Discounts)
	pricingService := service.NewPricingService(
		catalogService,
		discountService,
		cfg.Booking.ExtraGuestFeeCLP,
		cfg.Booking.HighSeasonMonths,
	)
	holdWindow := time.Duration(cfg.Booking.HoldWindowMinutes) * time.Minute
	bookingService := service.NewBookingService(
		store.Reservations,
		catalogService,
		pricingService,
		notificationService,
		holdWindow,
	)
	reconcilerService := service.NewReconcilerService(
		store.GatewayAttempts,
		store.Reservations,
		bookingService,
		pricingService,
		gatewayClient,
		cfg.Gateway.ReturnURL,
		holdWindow,
	)

	jobServices := &jobs.Services{
		Notification: notificationService,
		Reconciler:   reconcilerService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, cfg)

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
	logger.Info("Sweeper scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down sweeper scheduler...")
	cronScheduler.Stop()
	logger.Info("Sweeper scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "expire-holds":
		jobRunner.ExpireHolds()
	case "poll-gateway-attempts":
		jobRunner.PollGatewayAttempts()
	case "expire-gateway-attempts":
		jobRunner.ExpireGatewayAttempts()
	case "all":
		jobRunner.RunAllSweeps()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - expire-holds\n")
		fmt.Printf("  - poll-gateway-attempts\n")
		fmt.Printf("  - expire-gateway-attempts\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
