package store

import (
	"context"

	"github.com/avaldes/memoria/internal/domain"
)

// ExerciseStore defines the interface for exercise persistence.
type ExerciseStore interface {
	// Create saves a new exercise and assigns its auto-incremented ID.
	// Returns ErrDuplicateExercise if an exercise already exists for the
	// same (module, date) pair; creation never overwrites silently.
	// Returns validation errors if the exercise data is invalid.
	Create(ctx context.Context, exercise *domain.Exercise) error

	// Update replaces an existing exercise, addressed by its primary key.
	// This is the only route for editing a persisted exercise; it returns
	// ErrExerciseNotFound if the ID is unknown and ErrDuplicateExercise
	// if the update would collide with another row's (module, date).
	Update(ctx context.Context, exercise *domain.Exercise) error

	// GetByID retrieves an exercise by its primary key.
	// Returns ErrExerciseNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Exercise, error)

	// GetByModuleAndDate looks an exercise up through the unique
	// (module, date) index. Returns ErrExerciseNotFound when the day has
	// no exercise for the module.
	GetByModuleAndDate(ctx context.Context, module domain.Module, date string) (*domain.Exercise, error)

	// ListByModule returns every exercise for a module through the
	// non-unique module index, newest date first. An empty history is an
	// empty slice, not an error.
	ListByModule(ctx context.Context, module domain.Module) ([]*domain.Exercise, error)
}
