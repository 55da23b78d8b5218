package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avaldes/memoria/internal/domain"
	"github.com/avaldes/memoria/internal/platform/logger"
	"github.com/avaldes/memoria/internal/store"
)

// SessionStore implements the store.SessionStore interface using a sqlite
// database as the storage backend. The session is a singleton row keyed by
// domain.SessionKey and is always replaced wholesale.
type SessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSessionStore creates a sqlite implementation of the SessionStore
// interface.
func NewSessionStore(db store.DBTX, log *slog.Logger) *SessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SessionStore{
		db:     db,
		logger: log.With(slog.String("component", "session_store")),
	}
}

// Ensure SessionStore implements store.SessionStore
var _ store.SessionStore = (*SessionStore)(nil)

// Get implements store.SessionStore.Get.
func (s *SessionStore) Get(ctx context.Context) (*domain.CasilleroSession, error) {
	var (
		session     domain.CasilleroSession
		permutation []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT permutation, cursor FROM casillero_session WHERE id = ?`,
		domain.SessionKey,
	).Scan(&permutation, &session.Cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get session: %w", store.ErrStorageFailure, err)
	}

	if err := json.Unmarshal(permutation, &session.Permutation); err != nil {
		return nil, fmt.Errorf("%w: decode permutation: %w", store.ErrStorageFailure, err)
	}
	return &session, nil
}

// Put implements store.SessionStore.Put.
func (s *SessionStore) Put(ctx context.Context, session *domain.CasilleroSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during put",
			slog.String("error", err.Error()))
		return err
	}

	permutation, err := json.Marshal(session.Permutation)
	if err != nil {
		return fmt.Errorf("%w: encode permutation: %w", store.ErrStorageFailure, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO casillero_session (id, permutation, cursor) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET permutation = excluded.permutation, cursor = excluded.cursor
	`, domain.SessionKey, permutation, session.Cursor)
	if err != nil {
		log.Error("failed to put casillero session",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: put session: %w", store.ErrStorageFailure, err)
	}

	log.Debug("casillero session saved", slog.Int("cursor", session.Cursor))
	return nil
}
