package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avaldes/memoria/internal/api"
	apiMiddleware "github.com/avaldes/memoria/internal/api/middleware"
)

// setupRouter creates the application router: the JSON API under /api, a
// health probe, and the offline gateway for everything else.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	casilleroHandler := api.NewCasilleroHandler(app.casilleroService, app.logger)
	exerciseHandler := api.NewExerciseHandler(app.exerciseService, app.logger)
	settingsHandler := api.NewSettingsHandler(app.settingsService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Casillero review cycle
		r.Get("/casillero", casilleroHandler.GetCard)
		r.Post("/casillero/advance", casilleroHandler.Advance)
		r.Post("/casillero/retreat", casilleroHandler.Retreat)

		// Mental slot collection
		r.Get("/slots", casilleroHandler.ListSlots)
		r.Put("/slots/{index}", casilleroHandler.UpdateSlot)

		// Exercise history and setup
		r.Get("/exercises/{module}/today", exerciseHandler.GetToday)
		r.Get("/exercises/{module}/history", exerciseHandler.GetHistory)
		r.Post("/exercises/{module}", exerciseHandler.Start)
		r.Post("/exercises/retest/{id}", exerciseHandler.Retest)

		// Attempt lifecycle
		r.Get("/attempts/{attemptID}/item", exerciseHandler.GetCurrentItem)
		r.Post("/attempts/{attemptID}/next", exerciseHandler.NextItem)
		r.Post("/attempts/{attemptID}/save", exerciseHandler.Save)
		r.Post("/attempts/{attemptID}/save-and-test", exerciseHandler.SaveAndTest)
		r.Get("/attempts/{attemptID}/prepare", exerciseHandler.GetPrepare)
		r.Post("/attempts/{attemptID}/test", exerciseHandler.BeginTest)
		r.Post("/attempts/{attemptID}/answers", exerciseHandler.SubmitAnswers)
		r.Get("/attempts/{attemptID}/results", exerciseHandler.GetResults)
		r.Delete("/attempts/{attemptID}", exerciseHandler.Abandon)

		// Settings
		r.Get("/settings/timer", settingsHandler.GetTimer)
		r.Put("/settings/timer", settingsHandler.UpdateTimer)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	// Everything else is the application shell, served cache first.
	r.NotFound(app.gateway.ServeHTTP)
	r.MethodNotAllowed(app.gateway.ServeHTTP)

	return r
}
