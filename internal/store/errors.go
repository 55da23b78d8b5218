package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrStoreInit is returned when the storage medium cannot be opened or
	// its schema cannot be provisioned to the current version. It is fatal
	// to the application and must surface as an initialization failure.
	ErrStoreInit = errors.New("store initialization failed")

	// ErrStorageFailure is returned when a single read or write against an
	// otherwise healthy store fails. It is recoverable; callers should
	// retry or tell the user their data was not saved.
	ErrStorageFailure = errors.New("storage operation failed")

	// ErrNotFound is returned when a requested entity does not exist in
	// the store. Missing reads are an explicit absent value, not a
	// storage failure.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// Entity-specific "not found" errors

	// ErrExerciseNotFound indicates that the requested exercise does not exist.
	ErrExerciseNotFound = fmt.Errorf("%w: exercise", ErrNotFound)

	// ErrSlotNotFound indicates that the requested mental slot does not exist.
	ErrSlotNotFound = fmt.Errorf("%w: mental slot", ErrNotFound)

	// ErrSessionNotFound indicates that no casillero session has been persisted yet.
	ErrSessionNotFound = fmt.Errorf("%w: casillero session", ErrNotFound)

	// ErrConfigNotFound indicates that the requested configuration key is unset.
	ErrConfigNotFound = fmt.Errorf("%w: config entry", ErrNotFound)

	// ErrDuplicateExercise indicates a second exercise for the same
	// (module, date) pair. Callers must branch to the already-completed
	// flow rather than create a duplicate.
	ErrDuplicateExercise = fmt.Errorf("%w: exercise for module and date", ErrDuplicate)
)

// IsNotFound checks if the error is any kind of "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate checks if the error is any kind of uniqueness violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
