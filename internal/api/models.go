package api

import (
	"github.com/avaldes/memoria/internal/domain"
	"github.com/avaldes/memoria/internal/service"
)

// Common request/response structures

// SlotResponse represents one casillero mental slot.
type SlotResponse struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// UpdateSlotRequest defines the payload for editing a slot label.
type UpdateSlotRequest struct {
	Label string `json:"label" validate:"required,min=1"`
}

// CasilleroCardResponse represents the current review card.
type CasilleroCardResponse struct {
	Number   int    `json:"number"`
	Label    string `json:"label"`
	Position int    `json:"position"`
	Total    int    `json:"total"`
}

// StartExerciseRequest defines the payload for starting a new attempt.
type StartExerciseRequest struct {
	Count      int  `json:"count"       validate:"required,min=1,max=100"`
	Digits     int  `json:"digits"      validate:"omitempty,min=1,max=10"`
	WithLabels bool `json:"with_labels"`
}

// AttemptResponse represents the live state of an exercise attempt.
type AttemptResponse struct {
	ID       string              `json:"id"`
	Module   string              `json:"module"`
	Phase    string              `json:"phase"`
	Item     *domain.ExerciseItem `json:"item,omitempty"`
	Position int                 `json:"position,omitempty"`
	Last     bool                `json:"last,omitempty"`
}

// ExerciseResponse represents a persisted exercise.
type ExerciseResponse struct {
	ID                  int64                `json:"id"`
	Module              string               `json:"module"`
	Date                string               `json:"date"`
	Items               []domain.ExerciseItem `json:"items"`
	TotalElapsedSeconds int                  `json:"total_elapsed_seconds"`
	SecondsPerItem      float64              `json:"seconds_per_item"`
	LastResult          *domain.Result       `json:"last_result,omitempty"`
}

// PrepareResponse reports the countdown ahead of the test.
type PrepareResponse struct {
	RemainingSeconds int    `json:"remaining_seconds"`
	Clock            string `json:"clock"`
}

// SubmitAnswersRequest defines the payload for a test submission.
type SubmitAnswersRequest struct {
	Answers []string `json:"answers" validate:"required,min=1"`
}

// ResultsResponse represents a scored test.
type ResultsResponse struct {
	Results []service.AnswerResult `json:"results"`
	Score   *domain.Result         `json:"score"`
}

// TimerSettingResponse represents the preparation timer setting.
type TimerSettingResponse struct {
	Seconds int    `json:"seconds"`
	Clock   string `json:"clock"`
}

// UpdateTimerRequest defines the payload for changing the timer. Either
// the seconds value or an m:ss clock string must be present.
type UpdateTimerRequest struct {
	Seconds int    `json:"seconds" validate:"omitempty,min=1"`
	Clock   string `json:"clock"   validate:"omitempty"`
}

func exerciseToResponse(exercise *domain.Exercise) ExerciseResponse {
	resp := ExerciseResponse{
		ID:                  exercise.ID,
		Module:              string(exercise.Module),
		Date:                exercise.Date,
		Items:               exercise.Items,
		TotalElapsedSeconds: exercise.TotalElapsedSeconds,
		LastResult:          exercise.LastResult,
	}
	if len(exercise.Items) > 0 {
		resp.SecondsPerItem = float64(exercise.TotalElapsedSeconds) / float64(len(exercise.Items))
	}
	return resp
}
