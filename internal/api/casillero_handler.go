// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avaldes/memoria/internal/api/shared"
	"github.com/avaldes/memoria/internal/platform/logger"
	"github.com/avaldes/memoria/internal/service"
)

// CasilleroHandler handles casillero review and slot editing requests.
type CasilleroHandler struct {
	casillero *service.CasilleroService
	logger    *slog.Logger
}

// NewCasilleroHandler creates a new CasilleroHandler.
func NewCasilleroHandler(casillero *service.CasilleroService, log *slog.Logger) *CasilleroHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CasilleroHandler{
		casillero: casillero,
		logger:    log.With(slog.String("component", "casillero_handler")),
	}
}

// GetCard handles GET /casillero requests. It returns the review card at
// the current session position.
func (h *CasilleroHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.casillero.Card(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CasilleroCardResponse{
		Number:   card.Number,
		Label:    card.Label,
		Position: card.Position,
		Total:    card.Total,
	})
}

// Advance handles POST /casillero/advance requests.
func (h *CasilleroHandler) Advance(w http.ResponseWriter, r *http.Request) {
	if _, err := h.casillero.Advance(r.Context()); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	h.GetCard(w, r)
}

// Retreat handles POST /casillero/retreat requests.
func (h *CasilleroHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	if _, err := h.casillero.Retreat(r.Context()); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	h.GetCard(w, r)
}

// ListSlots handles GET /slots requests.
func (h *CasilleroHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.casillero.Slots(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	resp := make([]SlotResponse, len(slots))
	for i, slot := range slots {
		resp[i] = SlotResponse{Index: slot.Index, Label: slot.Label}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// UpdateSlot handles PUT /slots/{index} requests.
func (h *CasilleroHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Slot index must be a number")
		return
	}

	var req UpdateSlotRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Label must not be empty")
		return
	}

	slot, err := h.casillero.UpdateSlot(r.Context(), index, req.Label)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("slot label updated", slog.Int("index", index))
	shared.RespondWithJSON(w, r, http.StatusOK, SlotResponse{Index: slot.Index, Label: slot.Label})
}
