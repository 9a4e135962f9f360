// Package api exposes the calculation engine over HTTP for form front-ends.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with every route configured. allowedOrigins
// feeds the CORS policy; an empty list allows any origin.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Post("/eligibility", h.Eligibility)
		r.Post("/premiums", h.Premium)
		r.Post("/bonus-premiums", h.BonusPremium)
		r.Post("/derive", h.Derive)

		r.Get("/grades", h.ResolveGrade)
		r.Get("/grade-combinations", h.CheckCombination)
	})

	return r
}
