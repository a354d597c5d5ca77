// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

// Package ingest validates and normalizes incoming event envelopes and
// appends them to the event store.
//
// The ingestion contract is permissive: a malformed or non-object
// body degrades to an all-fields-absent envelope rather than an error, and
// the only rejection in the whole flow is an invalid eventType. Clients
// sending partial payloads rely on this.
//
// There are no retries and no idempotency key: a client retrying after a
// timeout can create duplicate events. Callers needing exactly-once
// semantics must deduplicate on their side.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ccatrack/internal/database"
	"github.com/tomtom215/ccatrack/internal/logging"
	"github.com/tomtom215/ccatrack/internal/metrics"
	"github.com/tomtom215/ccatrack/internal/models"
	"github.com/tomtom215/ccatrack/internal/normalize"
	"github.com/tomtom215/ccatrack/internal/validation"
)

// ErrInvalidEventKind rejects a submission whose eventType is missing or
// not one of the known kinds. This is the only client-error path in
// ingestion.
var ErrInvalidEventKind = errors.New("invalid eventType")

// Receipt acknowledges one accepted event.
type Receipt struct {
	Kind models.EventKind

	// TotalEvents is the post-insert row count. Concurrent writers race on
	// this value; it is diagnostic, not load-bearing.
	TotalEvents int
}

// Service is the ingestion service. The store is injected at construction
// time so tests can swap backends.
type Service struct {
	store database.Store
	now   func() time.Time
}

// NewService creates an ingestion service backed by the given store.
func NewService(store database.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// submission carries the one validated field of the envelope.
type submission struct {
	EventType string `validate:"required,oneof=generate shortlist"`
}

// Submit parses, validates, normalizes, and persists one raw event body.
// Body shape errors never fail; only an invalid eventType returns
// ErrInvalidEventKind, and store failures propagate wrapped.
func (s *Service) Submit(ctx context.Context, body []byte) (*Receipt, error) {
	envelope := parseEnvelope(body)

	kind := normalize.Scalar(envelope.EventType)
	if verr := validation.ValidateStruct(&submission{EventType: kind}); verr != nil {
		metrics.RecordEventRejected()
		return nil, fmt.Errorf("%w: %s", ErrInvalidEventKind, verr.Error())
	}

	event := s.buildEvent(envelope, models.EventKind(kind))
	if err := s.store.InsertEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to persist event: %w", err)
	}
	metrics.RecordEventIngested(kind)

	total, err := s.store.CountEvents(ctx)
	if err != nil {
		// The event is already stored; surface the count failure rather
		// than pretending a total we do not have.
		return nil, fmt.Errorf("failed to count events after insert: %w", err)
	}

	logging.Ctx(ctx).Debug().
		Str("kind", kind).
		Int("total_events", total).
		Msg("Event stored")

	return &Receipt{Kind: event.Kind, TotalEvents: total}, nil
}

// parseEnvelope decodes the untrusted body. Any decode failure, including
// a non-object top-level value, yields the zero envelope so that shape
// errors surface later as an eventType rejection, never a parse error.
func parseEnvelope(body []byte) models.EventEnvelope {
	var envelope models.EventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return models.EventEnvelope{}
	}
	return envelope
}

// buildEvent maps the envelope to the canonical persisted form. Blank
// scalars become NULL at storage time; the "(blank)" sentinel exists only
// in aggregation output.
func (s *Service) buildEvent(envelope models.EventEnvelope, kind models.EventKind) *models.Event {
	return &models.Event{
		Timestamp:       s.now().UnixMilli(),
		Kind:            kind,
		StudentID:       optionalScalar(envelope.StudentID),
		Category:        optionalScalar(envelope.CategorySelected),
		ActivityType:    optionalScalar(envelope.ActivityTypeSelected),
		Grade:           optionalScalar(envelope.Grade),
		Gender:          optionalScalar(envelope.Gender),
		Interests:       truncateList(normalize.StringList(envelope.Interests), models.MaxInterests),
		ShownItems:      truncateList(normalize.StringList(envelope.ShownCCAs), models.MaxShownItems),
		ShortlistedItem: optionalScalar(envelope.ShortlistedCCA),
	}
}

// optionalScalar normalizes a raw value, mapping empty results to nil.
func optionalScalar(v any) *string {
	if s := normalize.Scalar(v); s != "" {
		return &s
	}
	return nil
}

// truncateList caps a list at max elements, preserving order.
func truncateList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}
