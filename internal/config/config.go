// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

// Package config loads and validates application configuration using
// Koanf v2 with layered sources: built-in defaults, an optional YAML
// config file, and environment variables (highest priority).
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_PORT: Listen port (default: 8000)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig selects and tunes the event store backend.
//
// Backend selection: a non-empty DSN selects the networked Postgres
// backend; otherwise the embedded DuckDB file store at Path is used.
//
// Environment Variables:
//   - DATABASE_DSN: Postgres connection string (optional)
//   - DUCKDB_PATH: Embedded store file path (default: /data/ccatrack.duckdb)
//   - DUCKDB_MAX_MEMORY: DuckDB memory cap (default: 512MB)
//   - DUCKDB_THREADS: DuckDB thread count, 0 = runtime.NumCPU()
type DatabaseConfig struct {
	DSN       string `koanf:"dsn"`
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// SecurityConfig holds CORS and rate-limit settings.
//
// The tracker is intentionally unauthenticated: it records anonymous usage
// and its destructive clear-all endpoint is exposed without access control
// for compatibility with existing deployments. CORS defaults to allow-all
// origins without credentials.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d: must be 1-65535", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("invalid HTTP_TIMEOUT %s: must be positive", c.Server.Timeout)
	}

	if c.Database.DSN == "" && c.Database.Path == "" {
		return fmt.Errorf("no event store configured: set DATABASE_DSN or DUCKDB_PATH")
	}
	if c.Database.DSN != "" && !strings.HasPrefix(c.Database.DSN, "postgres://") && !strings.HasPrefix(c.Database.DSN, "postgresql://") {
		return fmt.Errorf("invalid DATABASE_DSN: expected postgres:// or postgresql:// scheme")
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("invalid RATE_LIMIT_REQUESTS %d: must be positive", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("invalid RATE_LIMIT_WINDOW %s: must be positive", c.Security.RateLimitWindow)
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: expected json or console", c.Logging.Format)
	}

	return nil
}

// UsesPostgres reports whether the networked relational backend is selected.
func (c *DatabaseConfig) UsesPostgres() bool {
	return c.DSN != ""
}
