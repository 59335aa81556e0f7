// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusCreated, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies, limited to MaxBodyBytes:

	var req models.SubmitRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles CF-Connecting-IP, X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used for salted IP hashing on stored submissions. CORS is configured in
the router package.
*/
package middleware
