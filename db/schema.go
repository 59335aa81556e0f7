// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are portable between SQLite and PostgreSQL.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Timestamps are unix milliseconds so both drivers scan them the same way.
var schema = []string{
	// Versioned key-value records (compare-and-swap on version)
	`CREATE TABLE IF NOT EXISTS kv_record (
		name TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		version BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,

	// Accepted submissions
	`CREATE TABLE IF NOT EXISTS submission (
		session_id TEXT PRIMARY KEY,
		score INTEGER NOT NULL CHECK (score >= 0 AND score <= 100),
		strategy TEXT NOT NULL,
		payload TEXT NOT NULL,
		ip_hash TEXT,
		user_agent TEXT,
		created_at BIGINT NOT NULL,
		expires_at BIGINT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_submission_expires_at ON submission(expires_at)`,
}
