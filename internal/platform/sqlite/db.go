package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/avaldes/memoria/internal/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens (or creates) the sqlite database at path and provisions the
// four collections by running any pending migrations. A medium that cannot
// be opened or migrated surfaces as store.ErrStoreInit; the application
// must treat that as fatal.
func Open(ctx context.Context, path string, log *slog.Logger) (*sql.DB, error) {
	if log == nil {
		log = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", store.ErrStoreInit, path, err)
	}

	// A single writer keeps "UNIQUE constraint failed" the only write
	// conflict the stores need to handle.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL; PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: configure %s: %w", store.ErrStoreInit, path, err)
	}

	if err := migrate(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// migrate applies any pending embedded migrations, logging the operation
// under a correlation ID so a failed provisioning can be traced end to end.
func migrate(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	correlationID := uuid.New().String()
	migrationLogger := log.With(
		slog.String("correlation_id", correlationID),
		slog.String("component", "migrations"),
	)

	startTime := time.Now()
	migrationLogger.Info("applying store migrations")

	goose.SetLogger(&slogGooseLogger{log: migrationLogger})
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("%w: set migration dialect: %w", store.ErrStoreInit, err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		migrationLogger.Error("store migrations failed",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: apply migrations: %w", store.ErrStoreInit, err)
	}

	migrationLogger.Info("store migrations applied",
		slog.Int64("duration_ms", time.Since(startTime).Milliseconds()))
	return nil
}

// slogGooseLogger adapts goose's logger interface onto slog.
type slogGooseLogger struct {
	log *slog.Logger
}

func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...))
}
