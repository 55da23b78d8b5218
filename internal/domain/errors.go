package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidModule is returned when a module name is not one of
	// numbers, objects or concepts.
	ErrInvalidModule = errors.New("invalid module")

	// ErrInvalidDate is returned when an exercise date is not a
	// YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid date format")

	// ErrEmptyItems is returned when an exercise has no items.
	ErrEmptyItems = errors.New("exercise items cannot be empty")

	// ErrInvalidSlotIndex is returned when a mental slot index is outside 1..100.
	ErrInvalidSlotIndex = errors.New("slot index must be between 1 and 100")

	// ErrEmptySlotLabel is returned when a mental slot label is blank.
	ErrEmptySlotLabel = errors.New("slot label cannot be empty")

	// ErrInvalidPermutation is returned when a casillero session does not
	// hold a full permutation of 1..100.
	ErrInvalidPermutation = errors.New("permutation must contain each of 1..100 exactly once")

	// ErrInvalidCursor is returned when a casillero session cursor is outside 0..99.
	ErrInvalidCursor = errors.New("cursor must be between 0 and 99")

	// ErrInvalidTimerDuration is returned when a preparation timer setting
	// is outside the allowed 30..600 second range.
	ErrInvalidTimerDuration = errors.New("timer duration must be between 30 and 600 seconds")
)
