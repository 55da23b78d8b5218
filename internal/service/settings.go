package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/avaldes/memoria/internal/domain"
	"github.com/avaldes/memoria/internal/platform/logger"
	"github.com/avaldes/memoria/internal/store"
)

// Configuration keys recognized in the config collection.
const (
	// TimerDurationKey stores the preparation countdown in seconds.
	TimerDurationKey = "timerDuration"
)

// Bounds for the preparation timer, in seconds.
const (
	TimerDurationMin = 30
	TimerDurationMax = 600
)

// SettingsService reads and writes user-facing settings backed by the
// config collection.
type SettingsService struct {
	config       store.ConfigStore
	timerDefault int
	logger       *slog.Logger
}

// NewSettingsService creates a SettingsService with the given fallback
// timer duration.
func NewSettingsService(config store.ConfigStore, timerDefault int, log *slog.Logger) *SettingsService {
	if log == nil {
		log = slog.Default()
	}
	return &SettingsService{
		config:       config,
		timerDefault: timerDefault,
		logger:       log.With(slog.String("component", "settings_service")),
	}
}

// TimerDuration returns the configured preparation countdown in seconds,
// falling back to the default when the setting is unset or unreadable.
func (s *SettingsService) TimerDuration(ctx context.Context) int {
	raw, err := s.config.Get(ctx, TimerDurationKey)
	if errors.Is(err, store.ErrConfigNotFound) {
		return s.timerDefault
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to read timer duration, using default",
			slog.String("error", err.Error()))
		return s.timerDefault
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < TimerDurationMin || seconds > TimerDurationMax {
		logger.FromContextOrDefault(ctx, s.logger).Warn("stored timer duration is invalid, using default",
			slog.String("value", raw))
		return s.timerDefault
	}
	return seconds
}

// SetTimerDuration validates and stores the preparation countdown.
// Out-of-range values are rejected with domain.ErrInvalidTimerDuration so
// the caller can prompt again.
func (s *SettingsService) SetTimerDuration(ctx context.Context, seconds int) error {
	if seconds < TimerDurationMin || seconds > TimerDurationMax {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidTimerDuration, seconds)
	}
	return s.config.Set(ctx, TimerDurationKey, strconv.Itoa(seconds))
}

// FormatSeconds renders a duration as m:ss for display.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ParseClock parses an m:ss or mm:ss string into seconds.
// Returns domain.ErrValidation on malformed input.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: expected m:ss, got %q", domain.ErrValidation, s)
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: minutes in %q", domain.ErrValidation, s)
	}
	sec, err := strconv.Atoi(parts[1])
	if err != nil || sec < 0 || sec > 59 || m < 0 {
		return 0, fmt.Errorf("%w: seconds in %q", domain.ErrValidation, s)
	}
	return m*60 + sec, nil
}
