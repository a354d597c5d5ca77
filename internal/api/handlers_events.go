// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/tomtom215/ccatrack/internal/ingest"
	"github.com/tomtom215/ccatrack/internal/logging"
	"github.com/tomtom215/ccatrack/internal/models"
)

// maxEventBodyBytes caps submission payloads. Normalized events are tiny;
// anything near this limit is garbage or abuse.
const maxEventBodyBytes = 1 << 20

// SubmitEvent handles POST /events. The body is treated permissively:
// unknown fields are ignored, wrong-typed fields are coerced or dropped,
// and an unreadable body degrades to an empty submission. The only hard
// rejection is a missing or unrecognized eventType.
func (h *Handler) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBodyBytes))
	if err != nil {
		// An unreadable body falls through as an empty one; the kind
		// check below produces the rejection.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to read event body")
		body = nil
	}

	receipt, err := h.ingest.Submit(r.Context(), body)
	if err != nil {
		if errors.Is(err, ingest.ErrInvalidEventKind) {
			respondError(w, http.StatusBadRequest, "eventType must be 'generate' or 'shortlist'", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to record event", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.SubmitResponse{
		OK:             true,
		TotalEventsNow: receipt.TotalEvents,
	})
}
