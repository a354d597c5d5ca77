// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/ccatrack/internal/config"
	"github.com/tomtom215/ccatrack/internal/middleware"
)

// Router assembles the handler and middleware into a served mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for the given handler using the security
// settings from the loaded configuration.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{
		handler: handler,
		chiMiddleware: NewChiMiddlewareFromConfig(
			cfg.Security.CORSOrigins,
			cfg.Security.RateLimitReqs,
			cfg.Security.RateLimitWindow,
			cfg.Security.RateLimitDisabled,
		),
	}
}

// chiMiddlewareAdapter adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so it can be used with r.Use().
func chiMiddlewareAdapter(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order. CORS must be
	// global so OPTIONS preflight from any frontend origin succeeds.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Health endpoints with permissive rate limiting so monitoring tools
	// can poll freely.
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/", router.handler.Health)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Event submission and statistics share the default rate limit.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddlewareAdapter(middleware.PrometheusMetrics))

		r.Post("/events", router.handler.SubmitEvent)
		r.Get("/stats", router.handler.Stats)
		r.Delete("/stats", router.handler.ClearStats)
	})

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Browsers request this against bare API hosts; answer quietly.
	r.Get("/favicon.ico", router.handler.Favicon)

	return r
}
