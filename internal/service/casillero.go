package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/avaldes/memoria/internal/domain"
	"github.com/avaldes/memoria/internal/platform/logger"
	"github.com/avaldes/memoria/internal/pool"
	"github.com/avaldes/memoria/internal/store"
)

// CasilleroCard is what the review view shows: the number under the
// cursor, its mnemonic label and the position within the current pass.
type CasilleroCard struct {
	Number   int    `json:"number"`
	Label    string `json:"label"`
	Position int    `json:"position"`
	Total    int    `json:"total"`
}

// CasilleroService manages the mental slots and the rolling review
// session over them. The session is a perpetual cycle: advancing past the
// last position regenerates a fresh permutation that never repeats the
// previous one.
type CasilleroService struct {
	sessions store.SessionStore
	slots    store.SlotStore
	logger   *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCasilleroService creates a CasilleroService. A nil rng gets a
// time-seeded source; tests inject a deterministic one.
func NewCasilleroService(sessions store.SessionStore, slots store.SlotStore, log *slog.Logger, rng *rand.Rand) *CasilleroService {
	if log == nil {
		log = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &CasilleroService{
		sessions: sessions,
		slots:    slots,
		logger:   log.With(slog.String("component", "casillero_service")),
		rng:      rng,
	}
}

// Slots returns the full casillero mental ordered by index, provisioning
// the default labels on first access.
func (s *CasilleroService) Slots(ctx context.Context) ([]*domain.MentalSlot, error) {
	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(slots) > 0 {
		return slots, nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Info("provisioning default casillero labels")

	defaults := pool.DefaultSlots()
	slots = make([]*domain.MentalSlot, 0, len(defaults))
	for i := range defaults {
		slots = append(slots, &defaults[i])
	}
	if err := s.slots.PutAll(ctx, slots); err != nil {
		return nil, fmt.Errorf("provision default slots: %w", err)
	}
	return slots, nil
}

// UpdateSlot changes the label of one slot. Slots only change through this
// explicit edit.
func (s *CasilleroService) UpdateSlot(ctx context.Context, index int, label string) (*domain.MentalSlot, error) {
	slot := &domain.MentalSlot{Index: index, Label: label}
	if err := s.slots.Put(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// Current returns the live session, generating and persisting the initial
// one on first access.
func (s *CasilleroService) Current(ctx context.Context) (*domain.CasilleroSession, error) {
	session, err := s.sessions.Get(ctx)
	if errors.Is(err, store.ErrSessionNotFound) {
		return s.regenerate(ctx, nil)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Card returns the review card for the current session position.
func (s *CasilleroService) Card(ctx context.Context) (*CasilleroCard, error) {
	session, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.Slots(ctx); err != nil { // ensure defaults exist
		return nil, err
	}

	number := session.CurrentNumber()
	slot, err := s.slots.Get(ctx, number)
	if err != nil {
		return nil, err
	}
	return &CasilleroCard{
		Number:   number,
		Label:    slot.Label,
		Position: session.Cursor + 1,
		Total:    domain.SlotCount,
	}, nil
}

// Advance moves the cursor forward one position. Advancing at the last
// position completes the pass: a fresh permutation is generated and the
// cursor resets to zero. The cycle has no terminal state.
func (s *CasilleroService) Advance(ctx context.Context) (*domain.CasilleroSession, error) {
	session, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	if session.Cursor < domain.SlotCount-1 {
		session.Cursor++
		if err := s.sessions.Put(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	return s.regenerate(ctx, session)
}

// Retreat moves the cursor back one position; at position zero it is a
// no-op.
func (s *CasilleroService) Retreat(ctx context.Context) (*domain.CasilleroSession, error) {
	session, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if session.Cursor == 0 {
		return session, nil
	}
	session.Cursor--
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// regenerate replaces the singleton with a fresh session. The new
// permutation is rejection-sampled against the previous one so two
// consecutive passes never walk the identical order.
func (s *CasilleroService) regenerate(ctx context.Context, prev *domain.CasilleroSession) (*domain.CasilleroSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session := &domain.CasilleroSession{Cursor: 0}
	for {
		session.Permutation = s.permutation()
		if prev == nil || !session.SamePermutation(prev) {
			break
		}
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}
	log.Info("casillero session regenerated", slog.Bool("initial", prev == nil))
	return session, nil
}

func (s *CasilleroService) permutation() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	perm := s.rng.Perm(domain.SlotCount)
	for i := range perm {
		perm[i]++
	}
	return perm
}
