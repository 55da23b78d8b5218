package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/avaldes/memoria/internal/domain"
	"github.com/avaldes/memoria/internal/store"
)

// In-memory store fakes backing the service tests. They enforce the same
// contracts as the sqlite implementations: sentinel errors on absence and
// duplicate detection on the (module, date) index.

type fakeExerciseStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.Exercise
}

func newFakeExerciseStore() *fakeExerciseStore {
	return &fakeExerciseStore{nextID: 1, rows: make(map[int64]*domain.Exercise)}
}

func (f *fakeExerciseStore) Create(_ context.Context, exercise *domain.Exercise) error {
	if err := exercise.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Module == exercise.Module && row.Date == exercise.Date {
			return fmt.Errorf("exercise for %s on %s: %w", exercise.Module, exercise.Date, store.ErrDuplicateExercise)
		}
	}
	exercise.ID = f.nextID
	f.nextID++
	f.rows[exercise.ID] = exercise.Clone()
	return nil
}

func (f *fakeExerciseStore) Update(_ context.Context, exercise *domain.Exercise) error {
	if err := exercise.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[exercise.ID]; !ok {
		return store.ErrExerciseNotFound
	}
	for id, row := range f.rows {
		if id != exercise.ID && row.Module == exercise.Module && row.Date == exercise.Date {
			return fmt.Errorf("exercise for %s on %s: %w", exercise.Module, exercise.Date, store.ErrDuplicateExercise)
		}
	}
	f.rows[exercise.ID] = exercise.Clone()
	return nil
}

func (f *fakeExerciseStore) GetByID(_ context.Context, id int64) (*domain.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, store.ErrExerciseNotFound
	}
	return row.Clone(), nil
}

func (f *fakeExerciseStore) GetByModuleAndDate(_ context.Context, module domain.Module, date string) (*domain.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Module == module && row.Date == date {
			return row.Clone(), nil
		}
	}
	return nil, store.ErrExerciseNotFound
}

func (f *fakeExerciseStore) ListByModule(_ context.Context, module domain.Module) ([]*domain.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Exercise, 0)
	for _, row := range f.rows {
		if row.Module == module {
			out = append(out, row.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

type fakeSlotStore struct {
	mu    sync.Mutex
	slots map[int]*domain.MentalSlot
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{slots: make(map[int]*domain.MentalSlot)}
}

func (f *fakeSlotStore) Get(_ context.Context, index int) (*domain.MentalSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[index]
	if !ok {
		return nil, store.ErrSlotNotFound
	}
	copied := *slot
	return &copied, nil
}

func (f *fakeSlotStore) List(_ context.Context) ([]*domain.MentalSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.MentalSlot, 0, len(f.slots))
	for _, slot := range f.slots {
		copied := *slot
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (f *fakeSlotStore) Put(_ context.Context, slot *domain.MentalSlot) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *slot
	f.slots[slot.Index] = &copied
	return nil
}

func (f *fakeSlotStore) PutAll(ctx context.Context, slots []*domain.MentalSlot) error {
	for _, slot := range slots {
		if err := slot.Validate(); err != nil {
			return err
		}
	}
	for _, slot := range slots {
		if err := f.Put(ctx, slot); err != nil {
			return err
		}
	}
	return nil
}

type fakeSessionStore struct {
	mu      sync.Mutex
	session *domain.CasilleroSession
}

func (f *fakeSessionStore) Get(_ context.Context) (*domain.CasilleroSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil, store.ErrSessionNotFound
	}
	return f.session.Clone(), nil
}

func (f *fakeSessionStore) Put(_ context.Context, session *domain.CasilleroSession) error {
	if err := session.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = session.Clone()
	return nil
}

type fakeConfigStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{values: make(map[string]string)}
}

func (f *fakeConfigStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	if !ok {
		return "", store.ErrConfigNotFound
	}
	return value, nil
}

func (f *fakeConfigStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}
