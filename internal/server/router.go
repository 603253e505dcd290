package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"termcalc/internal/handlers"
	"termcalc/internal/observability"
	"termcalc/internal/remote"
	"termcalc/internal/session"
)

// NewRouter wires the probe endpoints and the session API for store.
func NewRouter(store *session.Store) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	remote.RegisterRoutes(r, remote.NewHandler(store))

	return r
}
