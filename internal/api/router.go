// Package api exposes workbook analysis over HTTP.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ukaji3/namedeps-go/internal/api/handler"
)

func NewRouter(logger *slog.Logger, analyze *handler.AnalyzeHandler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", handler.Healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", analyze.Analyze)
	})

	return r
}
