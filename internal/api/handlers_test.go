package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/avaldes/memoria/internal/platform/sqlite"
	"github.com/avaldes/memoria/internal/service"
)

// newTestRouter wires the handlers over a throwaway database, mirroring
// the production route table.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "api_test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rng := rand.New(rand.NewSource(7))
	settings := service.NewSettingsService(sqlite.NewConfigStore(db, nil), 180, nil)
	casillero := service.NewCasilleroService(sqlite.NewSessionStore(db, nil), sqlite.NewSlotStore(db, nil), nil, rng)
	exercises := service.NewExerciseService(sqlite.NewExerciseStore(db, nil), settings, nil, rng, nil)

	casilleroHandler := NewCasilleroHandler(casillero, nil)
	exerciseHandler := NewExerciseHandler(exercises, nil)
	settingsHandler := NewSettingsHandler(settings, nil)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/casillero", casilleroHandler.GetCard)
		r.Post("/casillero/advance", casilleroHandler.Advance)
		r.Post("/casillero/retreat", casilleroHandler.Retreat)
		r.Get("/slots", casilleroHandler.ListSlots)
		r.Put("/slots/{index}", casilleroHandler.UpdateSlot)
		r.Get("/exercises/{module}/today", exerciseHandler.GetToday)
		r.Get("/exercises/{module}/history", exerciseHandler.GetHistory)
		r.Post("/exercises/{module}", exerciseHandler.Start)
		r.Post("/exercises/retest/{id}", exerciseHandler.Retest)
		r.Get("/attempts/{attemptID}/item", exerciseHandler.GetCurrentItem)
		r.Post("/attempts/{attemptID}/next", exerciseHandler.NextItem)
		r.Post("/attempts/{attemptID}/save", exerciseHandler.Save)
		r.Post("/attempts/{attemptID}/save-and-test", exerciseHandler.SaveAndTest)
		r.Get("/attempts/{attemptID}/prepare", exerciseHandler.GetPrepare)
		r.Post("/attempts/{attemptID}/test", exerciseHandler.BeginTest)
		r.Post("/attempts/{attemptID}/answers", exerciseHandler.SubmitAnswers)
		r.Get("/attempts/{attemptID}/results", exerciseHandler.GetResults)
		r.Delete("/attempts/{attemptID}", exerciseHandler.Abandon)
		r.Get("/settings/timer", settingsHandler.GetTimer)
		r.Put("/settings/timer", settingsHandler.UpdateTimer)
	})
	return r
}

// doJSON performs one request against the router and decodes the JSON
// response into out when it is non-nil.
func doJSON(t *testing.T, router http.Handler, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out),
			"decoding %s %s response: %s", method, path, rec.Body.String())
	}
	return rec
}
