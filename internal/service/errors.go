package service

import "errors"

// Common sentinel errors for the service layer.
var (
	// ErrExerciseAlreadyCompleted signals that today's exercise for the
	// module already exists. This is a pre-existing condition the caller
	// branches on, not a failure: the UI offers the history instead of a
	// new setup.
	ErrExerciseAlreadyCompleted = errors.New("exercise already completed for this module today")

	// ErrAttemptNotFound signals an unknown or already-finished attempt
	// handle.
	ErrAttemptNotFound = errors.New("attempt not found")

	// ErrInvalidPhase signals an operation invoked outside the lifecycle
	// phase it belongs to; phases only move forward.
	ErrInvalidPhase = errors.New("operation not valid in the current phase")

	// ErrAnswerCount signals a test submission whose answer count does
	// not match the item count.
	ErrAnswerCount = errors.New("one answer required per item")
)
