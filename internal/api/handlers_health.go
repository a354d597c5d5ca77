// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

package api

import (
	"net/http"

	"github.com/tomtom215/ccatrack/internal/models"
)

// Health handles GET /health. It reports process liveness only and never
// touches the store, so it stays green while the database is down.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.HealthResponse{OK: true})
}

// HealthReady handles GET /health/ready. It pings the store, so it tells
// load balancers whether the service can actually serve traffic.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.ReadyResponse{
		OK:       true,
		Database: "up",
	})
}

// Favicon handles GET /favicon.ico with an empty 204 so browser tabs
// pointed at the API do not litter the logs with 404s.
func (h *Handler) Favicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
