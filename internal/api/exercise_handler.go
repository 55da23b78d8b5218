package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avaldes/memoria/internal/api/shared"
	"github.com/avaldes/memoria/internal/domain"
	"github.com/avaldes/memoria/internal/platform/logger"
	"github.com/avaldes/memoria/internal/service"
)

// ExerciseHandler handles exercise setup, lifecycle and history requests.
type ExerciseHandler struct {
	exercises *service.ExerciseService
	logger    *slog.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exercises *service.ExerciseService, log *slog.Logger) *ExerciseHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ExerciseHandler{
		exercises: exercises,
		logger:    log.With(slog.String("component", "exercise_handler")),
	}
}

// moduleParam extracts and validates the {module} route parameter.
func moduleParam(r *http.Request) (domain.Module, bool) {
	module := domain.Module(chi.URLParam(r, "module"))
	return module, module.Valid()
}

// attemptParam extracts and parses the {attemptID} route parameter.
func attemptParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "attemptID"))
	return id, err == nil
}

// GetToday handles GET /exercises/{module}/today requests.
func (h *ExerciseHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	module, ok := moduleParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown module")
		return
	}

	exercise, err := h.exercises.TodayExercise(r.Context(), module)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, exerciseToResponse(exercise))
}

// GetHistory handles GET /exercises/{module}/history requests.
func (h *ExerciseHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	module, ok := moduleParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown module")
		return
	}

	history, err := h.exercises.History(r.Context(), module)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	resp := make([]ExerciseResponse, len(history))
	for i, exercise := range history {
		resp[i] = exerciseToResponse(exercise)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Start handles POST /exercises/{module} requests. It sets up a new
// attempt in the memorize phase.
func (h *ExerciseHandler) Start(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	module, ok := moduleParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown module")
		return
	}

	var req StartExerciseRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		log.Debug("start request failed validation", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid exercise parameters")
		return
	}

	attempt, err := h.exercises.Start(r.Context(), module, service.SetupParams{
		Count:      req.Count,
		Digits:     req.Digits,
		WithLabels: req.WithLabels,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.respondWithCurrentItem(w, r, attempt.ID, http.StatusCreated)
}

// Retest handles POST /exercises/{id}/retest requests. It re-enters the
// prepare phase with the items of a stored exercise.
func (h *ExerciseHandler) Retest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Exercise ID must be a number")
		return
	}

	attempt, err := h.exercises.Retest(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AttemptResponse{
		ID:     attempt.ID.String(),
		Module: string(attempt.Module),
		Phase:  string(attempt.Phase),
	})
}

// GetCurrentItem handles GET /attempts/{attemptID}/item requests.
func (h *ExerciseHandler) GetCurrentItem(w http.ResponseWriter, r *http.Request) {
	id, ok := attemptParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid attempt ID")
		return
	}
	h.respondWithCurrentItem(w, r, id, http.StatusOK)
}

// NextItem handles POST /attempts/{attemptID}/next requests.
func (h *ExerciseHandler) NextItem(w http.ResponseWriter, r *http.Request) {
	id, ok := attemptParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid attempt ID")
		return
	}
	if _, err := h.exercises.NextItem(id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	h.respondWithCurrentItem(w, r, id, http.StatusOK)
}

// Save handles POST /attempts/{attemptID}/save requests. The exercise is
// persisted and the attempt ends without a test.
func (h *ExerciseHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, ok := attemptParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid attempt ID")
		return
	}

	exercise, err := h.exercises.SaveOnly(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, exerciseToResponse(exercise))
}

// SaveAndTest handles POST /attempts/{attemptID}/save-and-test requests.
// The exercise is persisted and the attempt moves to the prepare phase.
func (h *ExerciseHandler) SaveAndTest(w http.ResponseWriter, r *http.Request) {
	id, ok := attemptParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid attempt ID")
		return
	}

	attempt, err := h.exercises.SaveAndTest(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, AttemptResponse{
		ID:     attempt.ID.String(),
		Module: string(attempt.Module),
		Phase:  string(attempt.Phase),
	})
}

// GetPrepare handles GET /attempts/{attemptID}/prepare requests.
func (h *ExerciseHandler) GetPrepare(w http.ResponseWriter, r *http.Request) {
	id, ok := attemptParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid attempt ID")
		return
	}

	remaining, err := h.exercises.PrepareRemaining(id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	seconds := int(remaining.Seconds())
	shared.RespondWithJSON(w, r, http.StatusOK, PrepareResponse{
		RemainingSeconds: seconds,
		Clock:            service.FormatSeconds(seconds),
	})
}

// BeginTest handles POST /attempts/{attemptID}/test requests. Both the
// countdown expiring and the user skipping it land here.
func (h *ExerciseHandler) BeginTest(w http.ResponseWriter, r *http.Request) {
	id, ok := attemptParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid attempt ID")
		return
	}

	prompts, err := h.exercises.BeginTest(id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, prompts)
}

// SubmitAnswers handles POST /attempts/{attemptID}/answers requests.
func (h *ExerciseHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := attemptParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid attempt ID")
		return
	}

	var req SubmitAnswersRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		log.Debug("answers request failed validation", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Answers are required")
		return
	}

	results, score, err := h.exercises.SubmitAnswers(r.Context(), id, req.Answers)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ResultsResponse{Results: results, Score: score})
}

// GetResults handles GET /attempts/{attemptID}/results requests.
func (h *ExerciseHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id, ok := attemptParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid attempt ID")
		return
	}

	results, score, err := h.exercises.Results(id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ResultsResponse{Results: results, Score: score})
}

// Abandon handles DELETE /attempts/{attemptID} requests.
func (h *ExerciseHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	id, ok := attemptParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid attempt ID")
		return
	}
	h.exercises.Abandon(id)
	w.WriteHeader(http.StatusNoContent)
}

// respondWithCurrentItem writes the attempt state plus the card under the
// memorize cursor.
func (h *ExerciseHandler) respondWithCurrentItem(w http.ResponseWriter, r *http.Request, id uuid.UUID, status int) {
	attempt, err := h.exercises.Get(id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	item, position, last, err := h.exercises.CurrentItem(id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, status, AttemptResponse{
		ID:       attempt.ID.String(),
		Module:   string(attempt.Module),
		Phase:    string(attempt.Phase),
		Item:     &item,
		Position: position,
		Last:     last,
	})
}
