// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/body-perception/stats"
)

// KVStore implements stats.Store on the kv_record table.
// A write succeeds only when the row still carries the version that was read.
type KVStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db, now: time.Now}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	var payload string
	var version int64
	err := s.db.QueryRowContext(ctx, `
		SELECT payload, version FROM kv_record WHERE name = $1
	`, key).Scan(&payload, &version)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, stats.ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return []byte(payload), version, nil
}

func (s *KVStore) CompareAndSwap(ctx context.Context, key string, value []byte, version int64) (bool, error) {
	now := s.now().UnixMilli()

	var res sql.Result
	var err error
	if version == 0 {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO kv_record (name, payload, version, updated_at)
			VALUES ($1, $2, 1, $3)
			ON CONFLICT (name) DO NOTHING
		`, key, string(value), now)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE kv_record
			SET payload = $1, version = version + 1, updated_at = $2
			WHERE name = $3 AND version = $4
		`, string(value), now, key, version)
	}
	if err != nil {
		return false, fmt.Errorf("failed to write %s: %w", key, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to write %s: %w", key, err)
	}
	return n == 1, nil
}
