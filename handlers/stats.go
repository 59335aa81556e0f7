// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/body-perception/auth"
	"github.com/danielhkuo/body-perception/db"
	"github.com/danielhkuo/body-perception/middleware"
	"github.com/danielhkuo/body-perception/models"
	"github.com/danielhkuo/body-perception/stats"
)

type StatsHandler struct {
	subs   SubmissionStore
	engine *stats.Engine
	now    func() time.Time
}

func NewStatsHandler(subs SubmissionStore, engine *stats.Engine) *StatsHandler {
	return &StatsHandler{subs: subs, engine: engine, now: time.Now}
}

// GetStats handles GET /api/stats
// With ?session=<id> it returns that submission placed against the current aggregate
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if sessionID := r.URL.Query().Get("session"); sessionID != "" {
		h.getSession(w, r, sessionID)
		return
	}

	agg, err := h.engine.Aggregate(r.Context())
	if err != nil {
		slog.Error("failed to read aggregate", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Statistics unavailable")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, agg)
}

func (h *StatsHandler) getSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := auth.ValidateSessionID(sessionID); err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	rec, err := h.subs.Get(r.Context(), sessionID, h.now())
	if errors.Is(err, db.ErrSubmissionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query submission", "error", err, "session_id", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	agg, err := h.engine.Aggregate(r.Context())
	if err != nil {
		slog.Error("failed to read aggregate", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Statistics unavailable")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionStatsResponse{
		SessionID:  rec.SessionID,
		Score:      rec.Score,
		Percentile: agg.Percentile(rec.Score),
		Timestamp:  rec.Timestamp.Format(time.RFC3339),
	})
}
