// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/body-perception/auth"
	"github.com/danielhkuo/body-perception/category"
	"github.com/danielhkuo/body-perception/cliparse"
	"github.com/danielhkuo/body-perception/middleware"
	"github.com/danielhkuo/body-perception/models"
	"github.com/danielhkuo/body-perception/scoring"
	"github.com/danielhkuo/body-perception/stats"
)

// SubmissionStore persists accepted submissions
type SubmissionStore interface {
	Save(ctx context.Context, rec models.SubmissionRecord) error
	Get(ctx context.Context, sessionID string, now time.Time) (models.SubmissionRecord, error)
}

type SubmissionHandler struct {
	subs     SubmissionStore
	engine   *stats.Engine
	cfg      cliparse.Config
	strategy scoring.Strategy
	table    category.Table
	now      func() time.Time
}

// NewSubmissionHandler resolves the configured strategy and category table.
// Config is validated by cliparse, so unknown names fall back to the defaults.
func NewSubmissionHandler(subs SubmissionStore, engine *stats.Engine, cfg cliparse.Config) *SubmissionHandler {
	strategy, err := scoring.StrategyByName(cfg.ScoreStrategy)
	if err != nil {
		slog.Warn("unknown score strategy, using weighted", "strategy", cfg.ScoreStrategy)
		strategy = scoring.Weighted{}
	}
	table, err := category.ByName(cfg.CategoryTable)
	if err != nil {
		slog.Warn("unknown category table, using server", "table", cfg.CategoryTable)
		table = category.Server
	}
	if cfg.ImageCount == 0 {
		cfg.ImageCount = scoring.DefaultImageCount
	}

	return &SubmissionHandler{
		subs:     subs,
		engine:   engine,
		cfg:      cfg,
		strategy: strategy,
		table:    table,
		now:      time.Now,
	}
}

// Submit handles POST /api/submit
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse request
	var req models.SubmitRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sub, err := scoring.ParseSubmission(h.cfg.ImageCount, req)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	score := h.strategy.Score(sub.Responses, h.cfg.ImageCount)

	sessionID, err := auth.GenerateSessionID()
	if err != nil {
		slog.Error("failed to generate session id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate session")
		return
	}

	now := h.now().UTC()
	rec := models.SubmissionRecord{
		SessionID:  sessionID,
		Timestamp:  now,
		Responses:  req.Responses,
		ImageOrder: req.ImageOrder,
		TotalTime:  req.TotalTime,
		Score:      score,
		Strategy:   h.strategy.Name(),
		UserAgent:  r.UserAgent(),
		ExpiresAt:  now.Add(h.cfg.SubmissionTTL),
	}
	if h.cfg.IPHashSalt != "" {
		rec.IPHash = auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt)
	}

	if err := h.subs.Save(ctx, rec); err != nil {
		slog.Error("failed to save submission", "error", err, "session_id", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save submission")
		return
	}

	// Placed against the population before this score joins it
	percentile, err := h.engine.PercentileFor(ctx, score)
	if err != nil {
		slog.Warn("aggregate unavailable, using raw score as percentile", "error", err, "session_id", sessionID)
	}

	if err := h.engine.Ingest(ctx, score); err != nil {
		slog.Warn("failed to update aggregate", "error", err, "session_id", sessionID)
	}

	slog.Info("submission accepted",
		"session_id", sessionID,
		"score", score,
		"percentile", percentile,
		"strategy", h.strategy.Name(),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitResponse{
		Success:    true,
		SessionID:  sessionID,
		Score:      score,
		Percentile: percentile,
		Category:   h.table.Label(float64(percentile)),
		Timestamp:  now.Format(time.RFC3339),
	})
}
