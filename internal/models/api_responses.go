// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

package models

// Response shapes are a frozen external contract: existing clients consume
// these exact field names, so changes here are breaking changes.

// SubmitResponse acknowledges an accepted event.
//
// TotalEventsNow is the post-insert row count. It is a diagnostic
// convenience, not a correctness-critical value: concurrent writers may
// observe each other's inserts.
type SubmitResponse struct {
	OK             bool `json:"ok"`
	TotalEventsNow int  `json:"totalEventsNow"`
}

// ClearResponse acknowledges a clear-all operation.
type ClearResponse struct {
	OK      bool `json:"ok"`
	Deleted int  `json:"deleted"`
}

// HealthResponse is the unconditional liveness probe body.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// ReadyResponse reports readiness including store connectivity. Database
// is a state word ("up"), not a boolean, so the probe output stays
// readable in dashboards.
type ReadyResponse struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// ErrorResponse is the body for every 4xx/5xx response.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
