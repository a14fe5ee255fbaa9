// Package main implements the entry point for the Lantern API server,
// which provides user authentication, a dashboard, and scheduled
// background tasks over a PostgreSQL store.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/lanternhq/lantern-api/internal/config"
	"github.com/lanternhq/lantern-api/internal/platform/logger"
)

func main() {
	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx := context.Background()

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to set up database: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if cfg.Database.URL != "" {
		appLogger.Debug("Database configuration", "url_present", true)
	}
	if cfg.Auth.JWTSecret != "" {
		appLogger.Debug("Auth configuration", "jwt_secret_present", true)
	}

	return cfg, appLogger, nil
}
