// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

package api

import (
	"net/http"

	"github.com/tomtom215/ccatrack/internal/models"
)

// Stats handles GET /stats. The summary is recomputed from the full event
// log on every call; there is no caching layer between the store and the
// response.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stats.Summary(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute stats", err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// ClearStats handles DELETE /stats. The wipe is unconditional; any caller
// who can reach the endpoint can reset the dataset.
func (h *Handler) ClearStats(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.stats.Clear(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to clear events", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.ClearResponse{
		OK:      true,
		Deleted: deleted,
	})
}
