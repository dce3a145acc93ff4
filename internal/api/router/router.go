// Package router assembles the HTTP surface.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/voxline-ai/sales-triage/internal/http/middleware"
	"github.com/voxline-ai/sales-triage/internal/triage"
	"github.com/voxline-ai/sales-triage/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	TriageHandler  *triage.Handler
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/v1", func(v1 chi.Router) {
		v1.Route("/triage", func(t chi.Router) {
			t.Post("/decide", cfg.TriageHandler.Decide)
			t.Post("/route", cfg.TriageHandler.Route)
			t.Get("/conversations/{conversationID}/decisions", cfg.TriageHandler.History)
		})
		v1.Post("/responses/validate", cfg.TriageHandler.Validate)
	})

	return r
}
