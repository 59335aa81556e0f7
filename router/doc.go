// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the body-perception API.

# Route Registration

NewRouter builds the statistics engine from config and returns the
CORS-wrapped http.ServeMux with all endpoints:

	handler := router.NewRouter(conn, cfg)

NewRouterWithEngine accepts an existing engine, for callers that share it.

# Endpoints

	GET  /health    - Liveness
	GET  /          - API banner
	POST /api/submit - Score and store a completed assessment
	GET  /api/stats  - Population aggregate, or ?session={id}

# CORS

Requests pass through github.com/rs/cors allowing GET, POST and OPTIONS with
the Content-Type header from cfg.CORSOrigins (default "*"). Preflights are
cached for PreflightMaxAge seconds.
*/
package router
