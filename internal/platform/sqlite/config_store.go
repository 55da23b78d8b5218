package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avaldes/memoria/internal/platform/logger"
	"github.com/avaldes/memoria/internal/store"
)

// ConfigStore implements the store.ConfigStore interface using a sqlite
// database as the storage backend.
type ConfigStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewConfigStore creates a sqlite implementation of the ConfigStore
// interface.
func NewConfigStore(db store.DBTX, log *slog.Logger) *ConfigStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ConfigStore{
		db:     db,
		logger: log.With(slog.String("component", "config_store")),
	}
}

// Ensure ConfigStore implements store.ConfigStore
var _ store.ConfigStore = (*ConfigStore)(nil)

// Get implements store.ConfigStore.Get.
func (s *ConfigStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM config WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrConfigNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: get config %q: %w", store.ErrStorageFailure, key, err)
	}
	return value, nil
}

// Set implements store.ConfigStore.Set.
func (s *ConfigStore) Set(ctx context.Context, key, value string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		log.Error("failed to set config entry",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return fmt.Errorf("%w: set config %q: %w", store.ErrStorageFailure, key, err)
	}

	log.Debug("config entry saved", slog.String("key", key))
	return nil
}
