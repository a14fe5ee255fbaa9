package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lanternhq/lantern-api/internal/config"
	"github.com/lanternhq/lantern-api/internal/platform/mailer"
	"github.com/lanternhq/lantern-api/internal/platform/postgres"
	"github.com/lanternhq/lantern-api/internal/platform/secrets"
	"github.com/lanternhq/lantern-api/internal/scheduler"
	"github.com/lanternhq/lantern-api/internal/sdk"
	"github.com/lanternhq/lantern-api/internal/service/auth"
	"github.com/lanternhq/lantern-api/internal/store"
	"github.com/lanternhq/lantern-api/internal/worker"
)

// application holds the shared application dependencies to simplify
// wiring and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (interfaces, so tests can substitute fakes)
	userStore     store.UserStore
	refreshTokens store.RefreshTokenStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	mailer           mailer.Mailer

	// External resource API client, nil when not configured
	sdkClient *sdk.Client

	// Background tasks
	scheduler *scheduler.Scheduler
}

// newApplication creates an application with all dependencies initialized.
// Core dependencies (config, logger, database) must already be established.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewUserStore(db)
	app.refreshTokens = postgres.NewRefreshTokenStore(db)

	// Email delivery is optional; without credentials the handler simply
	// skips welcome emails.
	smtp, err := mailer.New(cfg.Email, logger.With("component", "mailer"))
	switch {
	case errors.Is(err, mailer.ErrNotConfigured):
		logger.Info("Email delivery disabled, no SMTP credentials configured")
	case err != nil:
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	default:
		app.mailer = smtp
		logger.Info("Email delivery enabled", "host", cfg.Email.Host)
	}

	// The external resource client is likewise optional.
	sdkCfg := cfg.SDK
	sdkCfg.APIKey, err = resolveAPIKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve resource API key: %w", err)
	}
	client, err := sdk.NewClient(sdkCfg, logger.With("component", "sdk"))
	switch {
	case errors.Is(err, sdk.ErrNotConfigured):
		logger.Info("Resource API client disabled, no base URL configured")
	case err != nil:
		return nil, fmt.Errorf("failed to initialize resource API client: %w", err)
	default:
		app.sdkClient = client
		logger.Info("Resource API client initialized")
	}

	app.scheduler = scheduler.New(logger.With("component", "scheduler"))
	if err := app.registerWorkers(); err != nil {
		return nil, fmt.Errorf("failed to register background tasks: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// encPrefix marks a config value stored encrypted at rest.
const encPrefix = "enc:"

// resolveAPIKey returns the SDK API key, decrypting it when it carries
// the enc: prefix. Encrypted keys require auth.encryption_salt to be set.
func resolveAPIKey(cfg *config.Config) (string, error) {
	key := cfg.SDK.APIKey
	if !strings.HasPrefix(key, encPrefix) {
		return key, nil
	}

	box, err := secrets.New(cfg.Auth.JWTSecret, cfg.Auth.EncryptionSalt)
	if err != nil {
		return "", err
	}
	return box.Decrypt(strings.TrimPrefix(key, encPrefix))
}

// registerWorkers adds the recurring background tasks to the scheduler.
// Registration happens before Start, so the tasks wait until the
// scheduler runs.
func (app *application) registerWorkers() error {
	purger := worker.NewTokenPurger(app.refreshTokens, app.logger.With("task", "token-purge"))
	purgeInterval := time.Duration(app.config.Worker.TokenPurgeIntervalMinutes) * time.Minute
	if err := app.scheduler.AddTask("token-purge", purger, purgeInterval); err != nil {
		return fmt.Errorf("failed to add token purge task: %w", err)
	}

	if app.sdkClient != nil {
		sync := worker.NewResourceSync(
			sdk.NewResources(app.sdkClient),
			app.logger.With("task", "resource-sync"),
		)
		syncInterval := time.Duration(app.config.Worker.ResourceSyncIntervalMinutes) * time.Minute
		if err := app.scheduler.AddTask("resource-sync", sync, syncInterval); err != nil {
			return fmt.Errorf("failed to add resource sync task: %w", err)
		}
	}

	return nil
}

// Run starts the scheduler and the HTTP server, then blocks until
// shutdown completes.
func (app *application) Run(ctx context.Context) error {
	app.scheduler.Start()

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources. The
// scheduler drains first so in-flight task work can finish against a
// live database connection.
func (app *application) cleanup() {
	if app.scheduler != nil {
		if err := app.scheduler.Stop(); err != nil {
			app.logger.Error("Scheduler shutdown reported task failures", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
