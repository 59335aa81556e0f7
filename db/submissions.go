// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/body-perception/models"
)

var ErrSubmissionNotFound = errors.New("submission not found")

// submissionPayload is the JSON stored alongside the indexed columns
type submissionPayload struct {
	Responses  []models.ResponseRecord `json:"responses"`
	ImageOrder []int                   `json:"imageOrder"`
	TotalTime  int64                   `json:"totalTime"`
}

// Submissions persists accepted submissions
type Submissions struct {
	db *sql.DB
}

func NewSubmissions(db *sql.DB) *Submissions {
	return &Submissions{db: db}
}

// Save inserts a submission record
func (s *Submissions) Save(ctx context.Context, rec models.SubmissionRecord) error {
	payload, err := json.Marshal(submissionPayload{
		Responses:  rec.Responses,
		ImageOrder: rec.ImageOrder,
		TotalTime:  rec.TotalTime,
	})
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	var ipHash, userAgent sql.NullString
	if rec.IPHash != "" {
		ipHash = sql.NullString{String: rec.IPHash, Valid: true}
	}
	if rec.UserAgent != "" {
		userAgent = sql.NullString{String: rec.UserAgent, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submission (session_id, score, strategy, payload, ip_hash, user_agent, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.SessionID, rec.Score, rec.Strategy, string(payload), ipHash, userAgent,
		rec.Timestamp.UnixMilli(), rec.ExpiresAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}

	return nil
}

// Get returns an unexpired submission by session ID
func (s *Submissions) Get(ctx context.Context, sessionID string, now time.Time) (models.SubmissionRecord, error) {
	var rec models.SubmissionRecord
	var payload string
	var ipHash, userAgent sql.NullString
	var createdAt, expiresAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, score, strategy, payload, ip_hash, user_agent, created_at, expires_at
		FROM submission
		WHERE session_id = $1 AND expires_at > $2
	`, sessionID, now.UnixMilli()).Scan(
		&rec.SessionID, &rec.Score, &rec.Strategy, &payload,
		&ipHash, &userAgent, &createdAt, &expiresAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return models.SubmissionRecord{}, ErrSubmissionNotFound
	}
	if err != nil {
		return models.SubmissionRecord{}, fmt.Errorf("failed to query submission: %w", err)
	}

	var p submissionPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return models.SubmissionRecord{}, fmt.Errorf("failed to decode submission: %w", err)
	}

	rec.Responses = p.Responses
	rec.ImageOrder = p.ImageOrder
	rec.TotalTime = p.TotalTime
	rec.IPHash = ipHash.String
	rec.UserAgent = userAgent.String
	rec.Timestamp = time.UnixMilli(createdAt).UTC()
	rec.ExpiresAt = time.UnixMilli(expiresAt).UTC()

	return rec, nil
}

// PurgeExpired deletes submissions past their retention and returns how many were removed
func (s *Submissions) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM submission WHERE expires_at <= $1
	`, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge submissions: %w", err)
	}
	return res.RowsAffected()
}
