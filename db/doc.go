// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation and persistence.

# Connecting

Open selects the driver, pings and creates the schema:

	conn, err := db.Open(ctx, "sqlite", "file:perception.db")

Supported types:

  - sqlite: modernc.org/sqlite (pure Go, default)
  - postgres: github.com/lib/pq
  - pgx: github.com/jackc/pgx/v5/stdlib

SQLite connections are limited to one open connection.

# Schema Creation

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes. The same statements run on SQLite and PostgreSQL.

# Tables

  - kv_record: versioned key-value records (the population aggregate)
  - submission: accepted submissions with retention deadline

# Aggregate Store

KVStore implements stats.Store. CompareAndSwap with version 0 inserts a
new record; otherwise it updates only if the stored version still matches:

	store := db.NewKVStore(conn)
	engine := stats.NewEngine(store)

# Submissions

	subs := db.NewSubmissions(conn)
	err := subs.Save(ctx, record)
	rec, err := subs.Get(ctx, sessionID, time.Now())
	n, err := subs.PurgeExpired(ctx, time.Now())

Get ignores expired rows. PurgeExpired deletes them.
*/
package db
