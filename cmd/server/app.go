package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/storybridge/storybridge-api/internal/config"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/domain/tprs"
	"github.com/storybridge/storybridge-api/internal/platform/postgres"
	"github.com/storybridge/storybridge-api/internal/service"
	"github.com/storybridge/storybridge-api/internal/service/auth"
	"github.com/storybridge/storybridge-api/internal/store"
	"github.com/storybridge/storybridge-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore      store.UserStore
	storyStore     store.StoryStore
	narrationStore store.NarrationStore
	reviewStore    store.ReviewStore
	progressStore  store.ProgressStore
	badgeStore     store.BadgeStore
	snapshotStore  store.SnapshotStore
	blobStore      store.BlobStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	userService      *service.UserService
	contentService   *service.ContentService
	progressService  *service.ProgressService
	analyticsService *service.AnalyticsService

	// Background job runner for the scheduled analytics rollup
	taskRunner *task.Runner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password verifier
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.storyStore = postgres.NewPostgresStoryStore(db, logger)
	app.narrationStore = postgres.NewPostgresNarrationStore(db, logger)
	app.reviewStore = postgres.NewPostgresReviewStore(db, logger)
	app.progressStore = postgres.NewPostgresProgressStore(db, logger)
	app.badgeStore = postgres.NewPostgresBadgeStore(db, logger)
	app.snapshotStore = postgres.NewPostgresSnapshotStore(db, logger)
	app.blobStore = postgres.NewPostgresBlobStore(db, logger)

	// Initialize the compliance validator with the configured threshold
	validator := tprs.NewValidatorWithParams(&tprs.Params{
		MinRepetitions: cfg.Content.MinRepetitions,
	})
	logger.Info("Compliance validator initialized",
		"min_repetitions", validator.MinRepetitions())

	// Initialize services
	app.userService = service.NewUserService(
		app.userStore, app.passwordVerifier, app.jwtService, logger,
	)
	app.contentService = service.NewContentService(
		db,
		app.storyStore,
		app.narrationStore,
		app.reviewStore,
		app.blobStore,
		validator,
		logger,
	)
	app.progressService = service.NewProgressService(
		app.progressStore, app.badgeStore, cfg.Badges, logger,
	)
	app.analyticsService = service.NewAnalyticsService(
		app.progressStore, app.snapshotStore, cfg.Analytics, logger,
	)

	// Register the recurring analytics rollup when the schedule is enabled.
	// The rollup runs as a system actor with admin capability.
	app.taskRunner = task.NewRunner(task.DefaultRunnerConfig(), logger)
	if interval := cfg.Analytics.SnapshotIntervalMinutes; interval > 0 {
		systemCaller := service.Caller{Role: domain.RoleAdmin}
		app.taskRunner.Schedule(time.Duration(interval)*time.Minute, func() task.Task {
			return task.NewSnapshotTask(func(ctx context.Context) error {
				_, err := app.analyticsService.ComputeWindowMetrics(ctx, systemCaller)
				return err
			})
		})
		logger.Info("Analytics snapshot schedule registered",
			"interval_minutes", interval)
	}

	// Seed the bootstrap admin account when credentials are configured
	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		if err := app.userService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return nil, fmt.Errorf("failed to seed admin account: %w", err)
		}
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	app.taskRunner.Start()

	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
