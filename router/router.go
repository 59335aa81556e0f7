// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"github.com/danielhkuo/body-perception/cliparse"
	"github.com/danielhkuo/body-perception/db"
	"github.com/danielhkuo/body-perception/handlers"
	"github.com/danielhkuo/body-perception/middleware"
	"github.com/danielhkuo/body-perception/stats"
)

// PreflightMaxAge is how long browsers may cache a preflight, in seconds
const PreflightMaxAge = 86400

// NewEngine builds the statistics engine over the SQL aggregate store
func NewEngine(conn *sql.DB, cfg cliparse.Config) *stats.Engine {
	method, err := stats.ParseVarianceMethod(cfg.VarianceMethod)
	if err != nil {
		slog.Warn("unknown variance method, using legacy", "method", cfg.VarianceMethod)
		method = stats.VarianceLegacy
	}

	return stats.NewEngine(db.NewKVStore(conn),
		stats.WithVarianceMethod(method),
		stats.WithMaxRetries(cfg.IngestMaxRetries),
	)
}

func NewRouter(conn *sql.DB, cfg cliparse.Config) http.Handler {
	return NewRouterWithEngine(conn, NewEngine(conn, cfg), cfg)
}

// NewRouterWithEngine wires the routes around an existing engine
func NewRouterWithEngine(conn *sql.DB, engine *stats.Engine, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	subs := db.NewSubmissions(conn)
	submissionHandler := handlers.NewSubmissionHandler(subs, engine, cfg)
	statsHandler := handlers.NewStatsHandler(subs, engine)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Assessment
	mux.HandleFunc("POST /api/submit", middleware.WithLogging(submissionHandler.Submit))
	mux.HandleFunc("GET /api/stats", middleware.WithLogging(statsHandler.GetStats))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("body-perception API v1"))
	})

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         PreflightMaxAge,
	}).Handler(mux)
}
