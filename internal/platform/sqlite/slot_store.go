package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avaldes/memoria/internal/domain"
	"github.com/avaldes/memoria/internal/platform/logger"
	"github.com/avaldes/memoria/internal/store"
)

// SlotStore implements the store.SlotStore interface using a sqlite
// database as the storage backend.
type SlotStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSlotStore creates a sqlite implementation of the SlotStore interface.
func NewSlotStore(db store.DBTX, log *slog.Logger) *SlotStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SlotStore{
		db:     db,
		logger: log.With(slog.String("component", "slot_store")),
	}
}

// Ensure SlotStore implements store.SlotStore
var _ store.SlotStore = (*SlotStore)(nil)

// WithTx returns a copy of the store bound to an open transaction.
func (s *SlotStore) WithTx(tx *sql.Tx) *SlotStore {
	return &SlotStore{db: tx, logger: s.logger}
}

// Get implements store.SlotStore.Get.
func (s *SlotStore) Get(ctx context.Context, index int) (*domain.MentalSlot, error) {
	var slot domain.MentalSlot
	err := s.db.QueryRowContext(ctx,
		`SELECT idx, label FROM mental_slots WHERE idx = ?`, index,
	).Scan(&slot.Index, &slot.Label)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get slot %d: %w", store.ErrStorageFailure, index, err)
	}
	return &slot, nil
}

// List implements store.SlotStore.List.
func (s *SlotStore) List(ctx context.Context) ([]*domain.MentalSlot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, label FROM mental_slots ORDER BY idx`)
	if err != nil {
		log.Error("failed to list mental slots", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: list slots: %w", store.ErrStorageFailure, err)
	}
	defer func() { _ = rows.Close() }()

	slots := []*domain.MentalSlot{}
	for rows.Next() {
		var slot domain.MentalSlot
		if err := rows.Scan(&slot.Index, &slot.Label); err != nil {
			return nil, fmt.Errorf("%w: scan slot: %w", store.ErrStorageFailure, err)
		}
		slots = append(slots, &slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate slots: %w", store.ErrStorageFailure, err)
	}
	return slots, nil
}

// Put implements store.SlotStore.Put.
func (s *SlotStore) Put(ctx context.Context, slot *domain.MentalSlot) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := slot.Validate(); err != nil {
		log.Warn("slot validation failed during put",
			slog.String("error", err.Error()),
			slog.Int("index", slot.Index))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mental_slots (idx, label) VALUES (?, ?)
		ON CONFLICT (idx) DO UPDATE SET label = excluded.label
	`, slot.Index, slot.Label)
	if err != nil {
		log.Error("failed to put mental slot",
			slog.String("error", err.Error()),
			slog.Int("index", slot.Index))
		return fmt.Errorf("%w: put slot %d: %w", store.ErrStorageFailure, slot.Index, err)
	}

	log.Debug("mental slot saved", slog.Int("index", slot.Index))
	return nil
}

// PutAll implements store.SlotStore.PutAll. When the store is bound to a
// plain connection the batch runs in its own transaction; inside an
// existing transaction it joins it.
func (s *SlotStore) PutAll(ctx context.Context, slots []*domain.MentalSlot) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return s.putAll(ctx, s, slots)
	}
	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return s.putAll(ctx, s.WithTx(tx), slots)
	})
}

func (s *SlotStore) putAll(ctx context.Context, target *SlotStore, slots []*domain.MentalSlot) error {
	for _, slot := range slots {
		if err := target.Put(ctx, slot); err != nil {
			return err
		}
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("mental slot batch saved",
		slog.Int("count", len(slots)))
	return nil
}
