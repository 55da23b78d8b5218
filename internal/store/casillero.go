package store

import (
	"context"

	"github.com/avaldes/memoria/internal/domain"
)

// SlotStore defines the interface for mental slot persistence.
type SlotStore interface {
	// Get retrieves the slot for one casillero number.
	// Returns ErrSlotNotFound if the collection has not been provisioned.
	Get(ctx context.Context, index int) (*domain.MentalSlot, error)

	// List returns every slot ordered by index. An unprovisioned
	// collection is an empty slice, not an error; the service layer
	// provisions defaults on first access.
	List(ctx context.Context) ([]*domain.MentalSlot, error)

	// Put upserts a slot by its index. Slots are never deleted.
	Put(ctx context.Context, slot *domain.MentalSlot) error

	// PutAll upserts a batch of slots atomically: either the whole batch
	// lands or none of it does. Provisioning the default collection goes
	// through this so a failure never leaves a partial casillero behind.
	PutAll(ctx context.Context, slots []*domain.MentalSlot) error
}

// SessionStore defines the interface for the singleton casillero session.
type SessionStore interface {
	// Get retrieves the current session.
	// Returns ErrSessionNotFound before the first session is generated.
	Get(ctx context.Context) (*domain.CasilleroSession, error)

	// Put replaces the singleton session wholesale.
	Put(ctx context.Context, session *domain.CasilleroSession) error
}

// ConfigStore defines the interface for free-form configuration entries.
type ConfigStore interface {
	// Get retrieves the value for a key.
	// Returns ErrConfigNotFound when the key is unset.
	Get(ctx context.Context, key string) (string, error)

	// Set upserts the value for a key.
	Set(ctx context.Context, key, value string) error
}
