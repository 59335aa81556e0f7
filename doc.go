// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the body-perception API server.

A participant judges a fixed set of body images, shown in random order, as
fat or not fat. The server turns the judgments into a 0..100 score, places
it against every score seen so far and returns a percentile with a
plain-language category.

# Starting the Server

With no configuration the server uses a local SQLite file:

	go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Settings come from flags, then the environment, then an optional env file
(-env-file or ENV_FILE):

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or pgx (default: sqlite)
  - DATABASE_URL (-d): Connection string (required unless sqlite)
  - IMAGE_COUNT (-n): Images per session (default: 12)
  - SCORE_STRATEGY (-strategy): weighted or unweighted
  - CATEGORY_TABLE (-categories): server or fallback
  - VARIANCE_METHOD (-variance): legacy or welford
  - INGEST_MAX_RETRIES (-retries): Aggregate update retries (default: 10)
  - SUBMISSION_TTL (-ttl): Retention for stored submissions (default: 8760h)
  - CORS_ORIGINS (-cors): Comma-separated origins (default: *)
  - IP_HASH_SALT (-ip-salt): Enables salted IP hashes on submissions
  - LOG_LEVEL (-log-level): debug, info, warn or error

# Architecture

  - scoring: Sessions, submission validation, score strategies
  - stats: Population aggregate, percentile, compare-and-swap engine
  - category: Percentile bands and labels
  - fallback: Offline percentile estimate
  - client: HTTP client with fallback
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing, CORS
  - middleware: Logging, JSON helpers
  - db: Drivers, schema, aggregate and submission storage
  - auth: Session ids and IP hashing
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
