package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "cabanas-backend/internal/api/http"
	"cabanas-backend/internal/config"
	"cabanas-backend/internal/gateway"
	"cabanas-backend/internal/logger"
	"cabanas-backend/internal/repository/postgres"
	"cabanas-backend/internal/security"
	"cabanas-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting reservations backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
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

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Gateway Client
	gatewayClient := gateway.NewClient(
		cfg.Gateway.BaseURL,
		cfg.Gateway.APIKey,
		time.Duration(cfg.Gateway.TimeoutSeconds)*time.Second,
		cfg.Gateway.MaxRetries,
	)

	// Initialize Services
	notificationSvc := service.NewNotificationService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)
	catalogSvc := service.NewCatalogService(store.Units)
	discountSvc := service.NewDiscountService(store.Discounts)
	pricingSvc := service.NewPricingService(
		catalogSvc,
		discountSvc,
		cfg.Booking.ExtraGuestFeeCLP,
		cfg.Booking.HighSeasonMonths,
	)
	holdWindow := time.Duration(cfg.Booking.HoldWindowMinutes) * time.Minute
	bookingSvc := service.NewBookingService(
		store.Reservations,
		catalogSvc,
		pricingSvc,
		notificationSvc,
		holdWindow,
	)
	reconcilerSvc := service.NewReconcilerService(
		store.GatewayAttempts,
		store.Reservations,
		bookingSvc,
		pricingSvc,
		gatewayClient,
		cfg.Gateway.ReturnURL,
		holdWindow,
	)
	authSvc := service.NewAuthService(store.Staff, tokenManager)

	// Build router
	router := httpapi.NewRouter(&httpapi.Services{
		Booking:    bookingSvc,
		Catalog:    catalogSvc,
		Reconciler: reconcilerSvc,
		Auth:       authSvc,
	}, tokenManager)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
