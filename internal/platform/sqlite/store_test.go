package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaldes/memoria/internal/domain"
	"github.com/avaldes/memoria/internal/store"
)

// newTestDB opens a migrated throwaway database for one test.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err, "opening the test database should succeed")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenProvisionsCollections(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"mental_slots", "exercises", "config", "casillero_session"} {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		assert.NoError(t, err, "collection %s should be provisioned", table)
	}

	var index string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_exercises_module_date'`,
	).Scan(&index)
	assert.NoError(t, err, "the unique (module, date) index should exist")
}

func TestOpenFailsOnUnavailableMedium(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "x.db"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrStoreInit)
}

func testExercise(module domain.Module, date string) *domain.Exercise {
	return &domain.Exercise{
		Module: module,
		Date:   date,
		Items: []domain.ExerciseItem{
			{Number: "123", Label: "mesa"},
			{Number: "456"},
		},
		TotalElapsedSeconds: 42,
	}
}

func TestExerciseStoreCreateAssignsID(t *testing.T) {
	db := newTestDB(t)
	s := NewExerciseStore(db, nil)
	ctx := context.Background()

	ex := testExercise(domain.ModuleNumbers, "2026-03-01")
	require.NoError(t, s.Create(ctx, ex))
	assert.NotZero(t, ex.ID, "create should assign the auto-incremented ID")

	got, err := s.GetByID(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, ex.Items, got.Items)
	assert.Equal(t, 42, got.TotalElapsedSeconds)
	assert.Nil(t, got.LastResult, "a fresh exercise has no result")
}

func TestExerciseStoreEnforcesModuleDateUniqueness(t *testing.T) {
	db := newTestDB(t)
	s := NewExerciseStore(db, nil)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testExercise(domain.ModuleNumbers, "2026-03-01")))

	err := s.Create(ctx, testExercise(domain.ModuleNumbers, "2026-03-01"))
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDuplicateExercise)
	assert.True(t, store.IsDuplicate(err))

	// A different module on the same date is fine.
	other := testExercise(domain.ModuleObjects, "2026-03-01")
	assert.NoError(t, s.Create(ctx, other))

	// Exactly one record remains retrievable by the composite key.
	got, err := s.GetByModuleAndDate(ctx, domain.ModuleNumbers, "2026-03-01")
	require.NoError(t, err)
	list, err := s.ListByModule(ctx, domain.ModuleNumbers)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, got.ID, list[0].ID)
}

func TestExerciseStoreUpdate(t *testing.T) {
	db := newTestDB(t)
	s := NewExerciseStore(db, nil)
	ctx := context.Background()

	ex := testExercise(domain.ModuleConcepts, "2026-03-01")
	require.NoError(t, s.Create(ctx, ex))

	ex.LastResult = &domain.Result{Correct: 4, Total: 5}
	ex.TotalElapsedSeconds = 99
	require.NoError(t, s.Update(ctx, ex))

	got, err := s.GetByID(ctx, ex.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastResult)
	assert.Equal(t, 4, got.LastResult.Correct)
	assert.Equal(t, 5, got.LastResult.Total)
	assert.Equal(t, 99, got.TotalElapsedSeconds)

	// Updating an unknown primary key reports absence, not silence.
	ghost := testExercise(domain.ModuleConcepts, "2026-03-02")
	ghost.ID = 9999
	assert.ErrorIs(t, s.Update(ctx, ghost), store.ErrExerciseNotFound)
}

func TestExerciseStoreUpdateCannotStealCompositeKey(t *testing.T) {
	db := newTestDB(t)
	s := NewExerciseStore(db, nil)
	ctx := context.Background()

	first := testExercise(domain.ModuleNumbers, "2026-03-01")
	second := testExercise(domain.ModuleNumbers, "2026-03-02")
	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, second))

	// Moving the second exercise onto the first one's date must fail.
	second.Date = "2026-03-01"
	err := s.Update(ctx, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDuplicateExercise)
}

func TestExerciseStoreListByModuleNewestFirst(t *testing.T) {
	db := newTestDB(t)
	s := NewExerciseStore(db, nil)
	ctx := context.Background()

	for _, date := range []string{"2026-02-27", "2026-03-01", "2026-02-28"} {
		require.NoError(t, s.Create(ctx, testExercise(domain.ModuleObjects, date)))
	}
	require.NoError(t, s.Create(ctx, testExercise(domain.ModuleNumbers, "2026-03-05")))

	list, err := s.ListByModule(ctx, domain.ModuleObjects)
	require.NoError(t, err)
	require.Len(t, list, 3, "the module index must not leak other modules")
	assert.Equal(t, "2026-03-01", list[0].Date)
	assert.Equal(t, "2026-02-28", list[1].Date)
	assert.Equal(t, "2026-02-27", list[2].Date)

	empty, err := s.ListByModule(ctx, domain.ModuleConcepts)
	require.NoError(t, err)
	assert.Empty(t, empty, "an empty history is a slice, not an error")
}

func TestExerciseStoreMissingReads(t *testing.T) {
	db := newTestDB(t)
	s := NewExerciseStore(db, nil)
	ctx := context.Background()

	_, err := s.GetByID(ctx, 42)
	assert.ErrorIs(t, err, store.ErrExerciseNotFound)

	_, err = s.GetByModuleAndDate(ctx, domain.ModuleNumbers, "2026-03-01")
	assert.ErrorIs(t, err, store.ErrExerciseNotFound)
	assert.True(t, store.IsNotFound(err))
}

func TestSlotStoreRoundTrip(t *testing.T) {
	db := newTestDB(t)
	s := NewSlotStore(db, nil)
	ctx := context.Background()

	empty, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty, "unprovisioned collection lists empty")

	require.NoError(t, s.Put(ctx, &domain.MentalSlot{Index: 7, Label: "cubo"}))
	require.NoError(t, s.Put(ctx, &domain.MentalSlot{Index: 3, Label: "humo"}))

	got, err := s.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "cubo", got.Label)

	// Upsert by index replaces the label.
	require.NoError(t, s.Put(ctx, &domain.MentalSlot{Index: 7, Label: "dado"}))
	got, err = s.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "dado", got.Label)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 3, list[0].Index, "slots list ordered by index")

	_, err = s.Get(ctx, 99)
	assert.ErrorIs(t, err, store.ErrSlotNotFound)

	err = s.Put(ctx, &domain.MentalSlot{Index: 101, Label: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidSlotIndex)
}

func TestSlotStorePutAllIsAtomic(t *testing.T) {
	db := newTestDB(t)
	s := NewSlotStore(db, nil)
	ctx := context.Background()

	batch := []*domain.MentalSlot{
		{Index: 1, Label: "te"},
		{Index: 2, Label: "Noe"},
		{Index: 3, Label: "humo"},
	}
	require.NoError(t, s.PutAll(ctx, batch))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	// One bad slot rolls the whole batch back.
	bad := []*domain.MentalSlot{
		{Index: 4, Label: "aro"},
		{Index: 102, Label: "x"},
	}
	err = s.PutAll(ctx, bad)
	require.Error(t, err)

	_, err = s.Get(ctx, 4)
	assert.ErrorIs(t, err, store.ErrSlotNotFound)
}

func TestSessionStoreRoundTrip(t *testing.T) {
	db := newTestDB(t)
	s := NewSessionStore(db, nil)
	ctx := context.Background()

	_, err := s.Get(ctx)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	perm := make([]int, domain.SlotCount)
	for i := range perm {
		perm[i] = i + 1
	}
	session := &domain.CasilleroSession{Permutation: perm, Cursor: 12}
	require.NoError(t, s.Put(ctx, session))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Cursor)
	assert.Equal(t, perm, got.Permutation)

	// The singleton is replaced wholesale.
	session.Cursor = 0
	session.Permutation[0], session.Permutation[99] = session.Permutation[99], session.Permutation[0]
	require.NoError(t, s.Put(ctx, session))

	got, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Cursor)
	assert.Equal(t, 100, got.Permutation[0])
}

func TestConfigStoreRoundTrip(t *testing.T) {
	db := newTestDB(t)
	s := NewConfigStore(db, nil)
	ctx := context.Background()

	_, err := s.Get(ctx, "timerDuration")
	assert.ErrorIs(t, err, store.ErrConfigNotFound)

	require.NoError(t, s.Set(ctx, "timerDuration", "240"))
	got, err := s.Get(ctx, "timerDuration")
	require.NoError(t, err)
	assert.Equal(t, "240", got)

	require.NoError(t, s.Set(ctx, "timerDuration", "90"))
	got, err = s.Get(ctx, "timerDuration")
	require.NoError(t, err)
	assert.Equal(t, "90", got)
}
