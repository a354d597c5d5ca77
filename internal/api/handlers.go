// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

// Package api provides the HTTP surface: event submission, aggregate
// statistics, destructive reset, and health probes. Responses use flat
// JSON shapes that the browser frontend depends on byte-for-byte.
package api

import (
	"github.com/tomtom215/ccatrack/internal/database"
	"github.com/tomtom215/ccatrack/internal/ingest"
	"github.com/tomtom215/ccatrack/internal/stats"
)

// Handler holds the services behind the HTTP endpoints.
type Handler struct {
	store  database.Store
	ingest *ingest.Service
	stats  *stats.Service
}

// NewHandler creates a handler wired to the given services.
func NewHandler(store database.Store, ingestSvc *ingest.Service, statsSvc *stats.Service) *Handler {
	return &Handler{
		store:  store,
		ingest: ingestSvc,
		stats:  statsSvc,
	}
}
