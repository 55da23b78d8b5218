package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaldes/memoria/internal/domain"
)

func newTestCasilleroService(t *testing.T) (*CasilleroService, *fakeSessionStore, *fakeSlotStore) {
	t.Helper()
	sessions := &fakeSessionStore{}
	slots := newFakeSlotStore()
	svc := NewCasilleroService(sessions, slots, nil, rand.New(rand.NewSource(42)))
	return svc, sessions, slots
}

func TestSlotsProvisionDefaultsOnFirstAccess(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestCasilleroService(t)
	ctx := context.Background()

	slots, err := svc.Slots(ctx)
	require.NoError(t, err)
	require.Len(t, slots, domain.SlotCount)
	for i, slot := range slots {
		assert.Equal(t, i+1, slot.Index)
		assert.NotEmpty(t, slot.Label)
	}

	// A second call reads the provisioned collection, identical labels.
	again, err := svc.Slots(ctx)
	require.NoError(t, err)
	assert.Equal(t, slots, again)
}

func TestUpdateSlotPersistsLabel(t *testing.T) {
	t.Parallel()
	svc, _, store := newTestCasilleroService(t)
	ctx := context.Background()

	_, err := svc.Slots(ctx)
	require.NoError(t, err)

	updated, err := svc.UpdateSlot(ctx, 17, "faro")
	require.NoError(t, err)
	assert.Equal(t, "faro", updated.Label)

	stored, err := store.Get(ctx, 17)
	require.NoError(t, err)
	assert.Equal(t, "faro", stored.Label)

	_, err = svc.UpdateSlot(ctx, 17, "")
	assert.ErrorIs(t, err, domain.ErrEmptySlotLabel)
	_, err = svc.UpdateSlot(ctx, 0, "faro")
	assert.ErrorIs(t, err, domain.ErrInvalidSlotIndex)
}

func TestCurrentGeneratesInitialSession(t *testing.T) {
	t.Parallel()
	svc, sessions, _ := newTestCasilleroService(t)
	ctx := context.Background()

	session, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, session.Cursor)
	require.Len(t, session.Permutation, domain.SlotCount)

	seen := make(map[int]bool)
	for _, n := range session.Permutation {
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, domain.SlotCount)
		assert.False(t, seen[n])
		seen[n] = true
	}

	// The initial session was persisted.
	stored, err := sessions.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Permutation, stored.Permutation)
}

func TestCardCombinesSessionAndSlot(t *testing.T) {
	t.Parallel()
	svc, _, store := newTestCasilleroService(t)
	ctx := context.Background()

	card, err := svc.Card(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, card.Position)
	assert.Equal(t, domain.SlotCount, card.Total)

	slot, err := store.Get(ctx, card.Number)
	require.NoError(t, err)
	assert.Equal(t, slot.Label, card.Label)
}

func TestAdvanceAndRetreat(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestCasilleroService(t)
	ctx := context.Background()

	first, err := svc.Current(ctx)
	require.NoError(t, err)

	session, err := svc.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, session.Cursor)
	assert.Equal(t, first.Permutation[1], session.CurrentNumber())

	session, err = svc.Retreat(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, session.Cursor)

	// Retreating at the first position is a no-op.
	session, err = svc.Retreat(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, session.Cursor)
}

func TestAdvancePastEndRegenerates(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestCasilleroService(t)
	ctx := context.Background()

	first, err := svc.Current(ctx)
	require.NoError(t, err)

	for i := 0; i < domain.SlotCount-1; i++ {
		_, err := svc.Advance(ctx)
		require.NoError(t, err)
	}
	session, err := svc.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.SlotCount-1, session.Cursor)

	// The next advance completes the pass and starts a new one.
	fresh, err := svc.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Cursor)
	assert.False(t, fresh.SamePermutation(first), "consecutive passes must differ")
}
