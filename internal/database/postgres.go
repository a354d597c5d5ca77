// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tomtom215/ccatrack/internal/config"
)

// openPostgres opens the networked relational backend via the pgx stdlib
// driver and bootstraps the schema.
func openPostgres(cfg *config.DatabaseConfig) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres store: %w", err)
	}

	configurePool(conn, runtime.NumCPU())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to reach postgres store: %w", err)
	}
	if err := initSchema(ctx, conn, schemaStatements()); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize postgres schema: %w", err)
	}

	return newDB(conn, dialectPostgres), nil
}
