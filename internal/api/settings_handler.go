package api

import (
	"log/slog"
	"net/http"

	"github.com/avaldes/memoria/internal/api/shared"
	"github.com/avaldes/memoria/internal/platform/logger"
	"github.com/avaldes/memoria/internal/service"
)

// SettingsHandler handles user setting requests.
type SettingsHandler struct {
	settings *service.SettingsService
	logger   *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService, log *slog.Logger) *SettingsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SettingsHandler{
		settings: settings,
		logger:   log.With(slog.String("component", "settings_handler")),
	}
}

// GetTimer handles GET /settings/timer requests.
func (h *SettingsHandler) GetTimer(w http.ResponseWriter, r *http.Request) {
	seconds := h.settings.TimerDuration(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, TimerSettingResponse{
		Seconds: seconds,
		Clock:   service.FormatSeconds(seconds),
	})
}

// UpdateTimer handles PUT /settings/timer requests. The duration arrives
// as plain seconds or as an m:ss clock string.
func (h *SettingsHandler) UpdateTimer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req UpdateTimerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	seconds := req.Seconds
	if req.Clock != "" {
		parsed, err := service.ParseClock(req.Clock)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		seconds = parsed
	}
	if seconds == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "A duration in seconds or m:ss form is required")
		return
	}

	if err := h.settings.SetTimerDuration(r.Context(), seconds); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("timer duration updated", slog.Int("seconds", seconds))
	shared.RespondWithJSON(w, r, http.StatusOK, TimerSettingResponse{
		Seconds: seconds,
		Clock:   service.FormatSeconds(seconds),
	})
}
