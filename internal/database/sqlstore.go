// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/ccatrack/internal/metrics"
	"github.com/tomtom215/ccatrack/internal/models"
)

// dialect distinguishes placeholder syntax between the two backends.
type dialect int

const (
	dialectDuckDB dialect = iota
	dialectPostgres
)

// rebind converts `?` placeholders to `$n` for Postgres. Queries are
// written once in DuckDB form and rebound per backend.
func (d dialect) rebind(query string) string {
	if d == dialectDuckDB {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DB implements Store on top of database/sql for both backends.
type DB struct {
	conn    *sql.DB
	dialect dialect
}

// newDB wraps an open connection. Used by both backend constructors and
// by tests that inject a mocked connection.
func newDB(conn *sql.DB, d dialect) *DB {
	return &DB{conn: conn, dialect: d}
}

// defaultQueryTimeout bounds store calls that arrive without a deadline.
const defaultQueryTimeout = 30 * time.Second

// ensureContext adds the default timeout when the caller supplied none.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// schemaStatements is the unified single-table schema. The per-event-type
// split used by earlier deployments was collapsed into one events table
// with a kind discriminator; the CHECK constraint enforces the stored-kind
// invariant at the engine level too.
func schemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			ts BIGINT NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('generate', 'shortlist')),
			student_id TEXT,
			category TEXT,
			activity_type TEXT,
			grade TEXT,
			gender TEXT,
			interests TEXT,
			shown_ccas TEXT,
			shortlisted_cca TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_ts ON events (ts)`,
		`CREATE INDEX IF NOT EXISTS idx_events_kind ON events (kind)`,
	}
}

// InsertEvent appends one event. List fields are serialized as JSON text;
// optional scalars are stored as NULL when nil.
func (db *DB) InsertEvent(ctx context.Context, event *models.Event) error {
	start := time.Now()
	var err error
	defer func() { metrics.RecordStoreQuery("insert", time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	interests, err := json.Marshal(event.Interests)
	if err != nil {
		return fmt.Errorf("failed to serialize interests: %w", err)
	}
	shown, err := json.Marshal(event.ShownItems)
	if err != nil {
		return fmt.Errorf("failed to serialize shown items: %w", err)
	}

	query := db.dialect.rebind(`INSERT INTO events (
		id, ts, kind, student_id, category, activity_type, grade, gender,
		interests, shown_ccas, shortlisted_cca
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = db.conn.ExecContext(ctx, query,
		event.ID.String(),
		event.Timestamp,
		string(event.Kind),
		event.StudentID,
		event.Category,
		event.ActivityType,
		event.Grade,
		event.Gender,
		string(interests),
		string(shown),
		event.ShortlistedItem,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ListEvents returns the full event scan ordered by timestamp descending.
func (db *DB) ListEvents(ctx context.Context) ([]models.Event, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordStoreQuery("list", time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, ts, kind, student_id, category, activity_type, grade, gender,
		interests, shown_ccas, shortlisted_cca
	FROM events ORDER BY ts DESC`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	var events []models.Event
	for rows.Next() {
		event, scanErr := scanEvent(rows)
		if scanErr != nil {
			err = fmt.Errorf("failed to scan event: %w", scanErr)
			return nil, err
		}
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// scanEvent reads one row into an Event, decoding JSON list columns and
// mapping NULLs to nil pointers.
func scanEvent(rows *sql.Rows) (models.Event, error) {
	var (
		event     models.Event
		id        string
		kind      string
		studentID sql.NullString
		category  sql.NullString
		activity  sql.NullString
		grade     sql.NullString
		gender    sql.NullString
		interests sql.NullString
		shown     sql.NullString
		item      sql.NullString
	)

	if err := rows.Scan(&id, &event.Timestamp, &kind, &studentID, &category,
		&activity, &grade, &gender, &interests, &shown, &item); err != nil {
		return models.Event{}, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return models.Event{}, fmt.Errorf("invalid event id %q: %w", id, err)
	}
	event.ID = parsed
	event.Kind = models.EventKind(kind)
	event.StudentID = nullableString(studentID)
	event.Category = nullableString(category)
	event.ActivityType = nullableString(activity)
	event.Grade = nullableString(grade)
	event.Gender = nullableString(gender)
	event.ShortlistedItem = nullableString(item)

	if interests.Valid && interests.String != "" {
		if err := json.Unmarshal([]byte(interests.String), &event.Interests); err != nil {
			return models.Event{}, fmt.Errorf("invalid interests payload: %w", err)
		}
	}
	if shown.Valid && shown.String != "" {
		if err := json.Unmarshal([]byte(shown.String), &event.ShownItems); err != nil {
			return models.Event{}, fmt.Errorf("invalid shown items payload: %w", err)
		}
	}

	return event, nil
}

// nullableString converts a NullString to an optional field value.
func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// CountEvents returns the current total row count.
func (db *DB) CountEvents(ctx context.Context) (int, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordStoreQuery("count", time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var count int
	err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// DeleteAllEvents removes every event and returns the number deleted.
// All or nothing: there is no filtered variant.
func (db *DB) DeleteAllEvents(ctx context.Context) (int, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordStoreQuery("clear", time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	result, err := db.conn.ExecContext(ctx, `DELETE FROM events`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete events: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted row count: %w", err)
	}
	return int(deleted), nil
}

// TopShortlisted returns the raw-key click frequency table.
func (db *DB) TopShortlisted(ctx context.Context, limit int) ([]models.Bucket, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordStoreQuery("top", time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := db.dialect.rebind(`SELECT shortlisted_cca, COUNT(*) AS c
	FROM events
	WHERE kind = 'shortlist' AND shortlisted_cca IS NOT NULL AND shortlisted_cca != ''
	GROUP BY shortlisted_cca
	ORDER BY c DESC
	LIMIT ?`)

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top shortlisted: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	buckets := make([]models.Bucket, 0, limit)
	for rows.Next() {
		var b models.Bucket
		if scanErr := rows.Scan(&b.Key, &b.Count); scanErr != nil {
			err = fmt.Errorf("failed to scan top shortlisted row: %w", scanErr)
			return nil, err
		}
		buckets = append(buckets, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate top shortlisted: %w", err)
	}
	return buckets, nil
}

// Ping verifies connectivity.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// Close releases the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}
