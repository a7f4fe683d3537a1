package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-feed/internal/api"
	apiMiddleware "github.com/phrazzld/scry-feed/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter wires the HTTP routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	feedHandler := api.NewFeedHandler(app.feed)
	topicsHandler := api.NewTopicsHandler(app.popularity)
	viewers := apiMiddleware.NewViewerMiddleware(app.config.Auth.JWTSecret, app.config.Auth.IssueSessions)

	r.Route("/api", func(r chi.Router) {
		r.With(viewers.Identify).Get("/feed", feedHandler.GetFeed)
		r.Get("/topics/popular", topicsHandler.GetPopular)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	return r
}
