// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the body-perception API.

# Handler Types

Each handler is a struct with its storage and config dependencies:

  - SubmissionHandler: scores and stores completed assessments
  - StatsHandler: population aggregate and per-session lookups

Handlers are created via constructor functions that share one submission
store and one statistics engine:

	subs := db.NewSubmissions(conn)
	engine := stats.NewEngine(db.NewKVStore(conn))
	submitHandler := handlers.NewSubmissionHandler(subs, engine, cfg)

# Submission Flow

	POST /api/submit → Submit

The body is validated against the configured image count, scored with the
configured strategy and stored under a fresh session id. The percentile is
placed against the aggregate before the new score is ingested. If the
aggregate cannot be read or updated the submission still succeeds; the raw
score (clamped to 1..99) stands in for the percentile.

# Statistics

	GET /api/stats              → aggregate record
	GET /api/stats?session={id} → that session against the current aggregate

Unknown or expired sessions return 404, as do malformed ids.
*/
package handlers
