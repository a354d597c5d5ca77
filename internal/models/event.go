// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

package models

import (
	"github.com/google/uuid"
)

// EventKind discriminates the two tracked actions.
type EventKind string

const (
	// KindGenerate records that a set of recommendations was generated.
	KindGenerate EventKind = "generate"

	// KindShortlist records that a single recommendation was shortlisted.
	KindShortlist EventKind = "shortlist"
)

// Valid reports whether the kind is one of the two known values.
// Every stored event has a valid kind; ingestion rejects anything else.
func (k EventKind) Valid() bool {
	return k == KindGenerate || k == KindShortlist
}

// List caps applied at ingestion time before events are persisted.
const (
	// MaxInterests bounds the interests list on a generate event.
	MaxInterests = 200

	// MaxShownItems bounds the shown-candidates list on a generate event.
	MaxShownItems = 50
)

// Event is the single persisted entity: one immutable record of either a
// recommendation-generation action or a shortlist action. Events are
// append-only; the only delete is the unconditional clear-all.
//
// Optional scalar fields are nil when the client omitted them or sent a
// blank value. Fields outside the kind's relevant subset may be present
// but are ignored by aggregation.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Timestamp int64     `json:"timestamp"` // milliseconds since epoch
	Kind      EventKind `json:"kind"`

	// Generate-event dimensions.
	StudentID    *string  `json:"studentId,omitempty"`
	Category     *string  `json:"category,omitempty"`
	ActivityType *string  `json:"activityType,omitempty"`
	Grade        *string  `json:"grade,omitempty"`
	Gender       *string  `json:"gender,omitempty"`
	Interests    []string `json:"interests,omitempty"`

	// ShownItems holds the raw candidate names shown to the client.
	// Stored for later analysis but never aggregated.
	ShownItems []string `json:"shownItems,omitempty"`

	// Shortlist-event payload.
	ShortlistedItem *string `json:"shortlistedItem,omitempty"`
}

// EventEnvelope is the untrusted inbound payload for POST /events. Every
// field is deliberately untyped: clients send partial or malformed shapes
// and the contract is to never hard-fail on shape, only on eventType. A
// single normalization pass maps absence and wrong types to defined
// defaults.
type EventEnvelope struct {
	EventType            any `json:"eventType"`
	StudentID            any `json:"studentId"`
	CategorySelected     any `json:"categorySelected"`
	ActivityTypeSelected any `json:"activityTypeSelected"`
	Grade                any `json:"grade"`
	Gender               any `json:"gender"`
	Interests            any `json:"interests"`
	ShownCCAs            any `json:"shownCCAs"`
	ShortlistedCCA       any `json:"shortlistedCCA"`
}
