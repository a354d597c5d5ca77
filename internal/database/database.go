// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

// Package database implements the append-only event store behind a single
// Store interface with two backends: an embedded DuckDB file store and a
// networked Postgres store. The backend is selected from configuration at
// open time and injected into the services, never read from ambient state.
//
// The store's contract is deliberately small: insert one event, scan all
// events (descending by timestamp; the ordering is cosmetic, aggregation
// is order-independent), count, unconditional clear-all, and the raw-key
// top-clicked table. Events are never updated after insertion.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomtom215/ccatrack/internal/config"
	"github.com/tomtom215/ccatrack/internal/logging"
	"github.com/tomtom215/ccatrack/internal/models"
)

// ErrNotConfigured indicates neither a DSN nor a file path was supplied.
var ErrNotConfigured = errors.New("no event store backend configured")

// Store is the event store collaborator. All methods take a context for
// cancellation; blocking happens only at this boundary.
type Store interface {
	// InsertEvent appends one event. The store never mutates events after
	// insertion.
	InsertEvent(ctx context.Context, event *models.Event) error

	// ListEvents returns every stored event ordered by timestamp descending.
	ListEvents(ctx context.Context) ([]models.Event, error)

	// CountEvents returns the current total row count.
	CountEvents(ctx context.Context) (int, error)

	// DeleteAllEvents removes every event unconditionally and returns the
	// number deleted. There is no filtered or partial delete.
	DeleteAllEvents(ctx context.Context) (int, error)

	// TopShortlisted returns the most-clicked items keyed by raw stored
	// value, ordered by count descending. Tie order among equal counts is
	// whatever the engine returns.
	TopShortlisted(ctx context.Context, limit int) ([]models.Bucket, error)

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Close releases the underlying connection pool.
	Close() error
}

// Open creates the store selected by configuration: a non-empty DSN
// selects Postgres, otherwise the embedded DuckDB file at cfg.Path.
func Open(cfg *config.DatabaseConfig) (Store, error) {
	log := logging.WithComponent("store")
	switch {
	case cfg.UsesPostgres():
		log.Info().Str("backend", "postgres").Msg("Opening event store")
		return openPostgres(cfg)
	case cfg.Path != "":
		log.Info().Str("backend", "duckdb").Str("path", cfg.Path).Msg("Opening event store")
		return openDuckDB(cfg)
	default:
		return nil, ErrNotConfigured
	}
}

// closeQuietly closes a connection, logging any error instead of returning it.
func closeQuietly(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database connection")
	}
}

// initSchema runs the table and index bootstrap statements.
func initSchema(ctx context.Context, conn *sql.DB, statements []string) error {
	for _, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %s: %w", stmt, err)
		}
	}
	return nil
}
