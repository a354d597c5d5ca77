// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

package stats

import (
	"context"
	"fmt"

	"github.com/tomtom215/ccatrack/internal/database"
	"github.com/tomtom215/ccatrack/internal/logging"
	"github.com/tomtom215/ccatrack/internal/metrics"
	"github.com/tomtom215/ccatrack/internal/models"
)

// topClickedLimit caps the click leaderboard returned in a summary.
const topClickedLimit = 10

// Service answers summary and reset requests against the event store.
type Service struct {
	store database.Store
}

// NewService returns a stats service backed by the given store.
func NewService(store database.Store) *Service {
	return &Service{store: store}
}

// Summary scans the full event log and aggregates it. The distributions
// come from the in-memory aggregation pass; the click leaderboard comes
// straight from a store-side GROUP BY over raw shortlisted values, so its
// tie ordering follows the store's rather than the case-insensitive law
// the other distributions obey.
func (s *Service) Summary(ctx context.Context) (*models.StatsSummary, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	summary := Aggregate(events)

	topClicked, err := s.store.TopShortlisted(ctx, topClickedLimit)
	if err != nil {
		return nil, fmt.Errorf("querying top shortlisted: %w", err)
	}
	summary.TopClicked = topClicked

	logging.Ctx(ctx).Debug().
		Int("total_events", summary.TotalEvents).
		Int("generate_events", summary.GenerateEvents).
		Int("shortlist_events", summary.ShortlistEvents).
		Msg("Stats summary computed")

	return summary, nil
}

// Clear deletes every stored event and reports how many were removed.
// There is no confirmation step and no soft delete; the caller owns any
// guardrails.
func (s *Service) Clear(ctx context.Context) (int, error) {
	deleted, err := s.store.DeleteAllEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("clearing events: %w", err)
	}

	metrics.RecordEventsCleared(deleted)
	logging.Ctx(ctx).Info().Int("deleted", deleted).Msg("All events cleared")

	return deleted, nil
}
