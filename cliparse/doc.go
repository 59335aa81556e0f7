// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p            Server port (default: 3318)
	-d            Database URL
	-t            Database type: sqlite, postgres, pgx (default: sqlite)
	-env-file     Load environment variables from a file
	-log-level    debug, info, warn, error (default: info)
	-n            Images per session (default: 12)
	-strategy     weighted or unweighted (default: weighted)
	-categories   server or fallback (default: server)
	-variance     legacy or welford (default: legacy)
	-retries      Max retries for aggregate updates (default: 10)
	-ttl          Submission retention (default: 8760h)
	-cors         Comma-separated allowed origins (default: *)
	-ip-salt      IP hash salt

# Environment Variables

Flags fall back to environment variables:

	PORT, DATABASE_URL, DATABASE_TYPE, ENV_FILE, LOG_LEVEL,
	IMAGE_COUNT, SCORE_STRATEGY, CATEGORY_TABLE, VARIANCE_METHOD,
	INGEST_MAX_RETRIES, SUBMISSION_TTL, CORS_ORIGINS, IP_HASH_SALT

CLI flags take precedence over environment variables, and variables already
set take precedence over the env file.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing for postgres or pgx
  - a strategy, category table or variance method name is unknown
  - a numeric or duration value does not parse

Without IP_HASH_SALT, client addresses are not recorded.
*/
package cliparse
