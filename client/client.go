// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/body-perception/fallback"
	"github.com/danielhkuo/body-perception/models"
	"github.com/danielhkuo/body-perception/scoring"
)

// ErrEngineUnreachable covers transport failures, non-2xx replies and undecodable bodies
var ErrEngineUnreachable = errors.New("assessment engine unreachable")

const (
	defaultTimeout = 10 * time.Second
	submitPath     = "/api/submit"
	maxErrorBody   = 4 << 10
)

// Outcome is what a participant is shown after a session
type Outcome struct {
	SessionID    string
	Score        int
	Percentile   int
	Category     string
	Timestamp    time.Time
	UsedFallback bool
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	estimator  fallback.Estimator
	now        func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithEstimator(e fallback.Estimator) Option {
	return func(c *Client) { c.estimator = e }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		estimator:  fallback.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts a completed session and returns the server's outcome.
// An incomplete session fails with scoring.ErrInvalidInput before any request is made.
func (c *Client) Submit(ctx context.Context, s *scoring.Session) (Outcome, error) {
	req, err := s.Request(c.now().UTC())
	if err != nil {
		return Outcome{}, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("encode submission: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submitPath, bytes.NewReader(body))
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrEngineUnreachable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrEngineUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr models.ErrorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return Outcome{}, fmt.Errorf("%w: status %d: %s", ErrEngineUnreachable, resp.StatusCode, apiErr.Message)
		}
		return Outcome{}, fmt.Errorf("%w: status %d", ErrEngineUnreachable, resp.StatusCode)
	}

	var out models.SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Outcome{}, fmt.Errorf("%w: decode response: %w", ErrEngineUnreachable, err)
	}
	if !out.Success {
		return Outcome{}, fmt.Errorf("%w: submission not accepted", ErrEngineUnreachable)
	}

	ts, err := time.Parse(time.RFC3339, out.Timestamp)
	if err != nil {
		ts = c.now().UTC()
	}

	return Outcome{
		SessionID:  out.SessionID,
		Score:      out.Score,
		Percentile: out.Percentile,
		Category:   out.Category,
		Timestamp:  ts,
	}, nil
}

// Assess submits the session and falls back to a local estimate on any failure.
// It never returns an error.
func (c *Client) Assess(ctx context.Context, s *scoring.Session) Outcome {
	out, err := c.Submit(ctx, s)
	if err == nil {
		return out
	}

	slog.Warn("assessment engine unavailable, using local estimate", "error", err)
	est := c.estimator.Estimate(s.Responses())
	return Outcome{
		Score:        est.Score,
		Percentile:   est.Percentile,
		Category:     est.Category,
		Timestamp:    c.now().UTC(),
		UsedFallback: true,
	}
}

// AssessAll assesses sessions with at most limit requests in flight.
// Outcomes are returned in input order.
func (c *Client) AssessAll(ctx context.Context, sessions []*scoring.Session, limit int) []Outcome {
	outcomes := make([]Outcome, len(sessions))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, s := range sessions {
		g.Go(func() error {
			outcomes[i] = c.Assess(ctx, s)
			return nil
		})
	}
	// Assess never fails, so there is no error to collect
	g.Wait()

	return outcomes
}
