package jobs

import (
	"database/sql"

	"cabanas-backend/internal/config"
	"cabanas-backend/internal/logger"
	"cabanas-backend/internal/repository/postgres"
	"cabanas-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db       *sql.DB
	store    *postgres.Store
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Notification service.NotificationService
	Reconciler   service.ReconcilerService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, store *postgres.Store, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:       db,
		store:    store,
		services: services,
		config:   cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllSweeps runs every sweep once (for manual execution with -run-once).
// Polling runs before the attempt expiry so a paid-but-unreported attempt
// settles instead of expiring.
func (jr *JobRunner) RunAllSweeps() {
	jr.ExpireHolds()
	jr.PollGatewayAttempts()
	jr.ExpireGatewayAttempts()
}
