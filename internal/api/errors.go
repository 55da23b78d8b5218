package api

import (
	"errors"
	"net/http"

	"github.com/avaldes/memoria/internal/domain"
	"github.com/avaldes/memoria/internal/service"
	"github.com/avaldes/memoria/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, service.ErrAttemptNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, service.ErrExerciseAlreadyCompleted),
		errors.Is(err, service.ErrInvalidPhase):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidModule),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrEmptyItems),
		errors.Is(err, domain.ErrInvalidSlotIndex),
		errors.Is(err, domain.ErrEmptySlotLabel),
		errors.Is(err, domain.ErrInvalidTimerDuration),
		errors.Is(err, service.ErrAnswerCount):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrExerciseNotFound):
		return "Exercise not found"

	case errors.Is(err, store.ErrSlotNotFound):
		return "Slot not found"

	case errors.Is(err, service.ErrAttemptNotFound):
		return "Attempt not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, service.ErrExerciseAlreadyCompleted):
		return "Today's exercise for this module is already done"

	case errors.Is(err, store.ErrDuplicateExercise):
		return "An exercise already exists for this module and date"

	case errors.Is(err, service.ErrInvalidPhase):
		return "Operation not valid in the current phase"

	case errors.Is(err, service.ErrAnswerCount):
		return "One answer is required per item"

	case errors.Is(err, domain.ErrInvalidModule):
		return "Unknown module"

	case errors.Is(err, domain.ErrInvalidTimerDuration):
		return "Timer duration out of range"

	case errors.Is(err, domain.ErrInvalidSlotIndex):
		return "Slot index must be between 1 and 100"

	case errors.Is(err, domain.ErrEmptySlotLabel):
		return "Slot label cannot be empty"

	case errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}
