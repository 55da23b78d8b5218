package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avaldes/memoria/internal/config"
	"github.com/avaldes/memoria/internal/offline"
	"github.com/avaldes/memoria/internal/platform/logger"
	"github.com/avaldes/memoria/internal/platform/sqlite"
	"github.com/avaldes/memoria/internal/service"
)

// application bundles the wired dependencies of one running server.
type application struct {
	config *config.Config
	logger *slog.Logger

	db    *sql.DB
	cache *offline.Cache

	casilleroService *service.CasilleroService
	exerciseService  *service.ExerciseService
	settingsService  *service.SettingsService
	gateway          *offline.Gateway
}

// initializeApp loads configuration and wires every application
// component: logging, the local store with its migrations, the offline
// cache and the services.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database", cfg.Database.Path),
		slog.String("cache_version", cfg.Cache.Version))

	db, err := sqlite.Open(ctx, cfg.Database.Path, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	cache, err := offline.OpenCache(cfg.Cache.DataPath, cfg.Cache.Version, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open offline cache: %w", err)
	}

	// Install the shell for the configured version and evict older ones.
	// A failed install is not fatal: an already-installed older version
	// keeps serving until the origin comes back.
	installCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	client := &http.Client{Timeout: 10 * time.Second}
	if err := cache.Install(installCtx, client, cfg.Cache.Origin, cfg.Cache.Manifest); err != nil {
		log.Warn("shell install failed, serving previous cache if any",
			slog.String("error", err.Error()))
	} else if err := cache.Activate(); err != nil {
		log.Warn("stale cache eviction failed", slog.String("error", err.Error()))
	}

	gateway, err := offline.NewGateway(cache, cfg.Cache.Origin, client, log)
	if err != nil {
		cache.Close()
		db.Close()
		return nil, fmt.Errorf("failed to build offline gateway: %w", err)
	}

	settingsService := service.NewSettingsService(
		sqlite.NewConfigStore(db, log), cfg.Exercise.TimerDefault, log)

	app := &application{
		config: cfg,
		logger: log,
		db:     db,
		cache:  cache,
		casilleroService: service.NewCasilleroService(
			sqlite.NewSessionStore(db, log), sqlite.NewSlotStore(db, log), log, nil),
		exerciseService: service.NewExerciseService(
			sqlite.NewExerciseStore(db, log), settingsService, log, nil, nil),
		settingsService: settingsService,
		gateway:         gateway,
	}
	return app, nil
}

// cleanup releases the application's long-lived resources.
func (app *application) cleanup() {
	if err := app.cache.Close(); err != nil {
		app.logger.Error("failed to close offline cache", slog.String("error", err.Error()))
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close local store", slog.String("error", err.Error()))
	}
}
