package models

import "time"

// Score strategy names
const (
	StrategyWeighted   = "weighted"
	StrategyUnweighted = "unweighted"
)

// Key under which the population aggregate is stored
const GlobalStatsKey = "global:stats"

// Request types

// ResponseRecord is one judgment as sent by the client
type ResponseRecord struct {
	ImageNumber  int   `json:"imageNumber"`
	IsFat        bool  `json:"isFat"`
	ResponseTime int64 `json:"responseTime"` // ms since session start
	Position     int   `json:"position"`
}

type SubmitRequest struct {
	Responses  []ResponseRecord `json:"responses"`
	ImageOrder []int            `json:"imageOrder"`
	TotalTime  int64            `json:"totalTime"` // ms
	Timestamp  string           `json:"timestamp,omitempty"`
}

// Response types

type SubmitResponse struct {
	Success    bool   `json:"success"`
	SessionID  string `json:"sessionId"`
	Score      int    `json:"score"`
	Percentile int    `json:"percentile"`
	Category   string `json:"category"`
	Timestamp  string `json:"timestamp"`
}

type SessionStatsResponse struct {
	SessionID  string `json:"sessionId"`
	Score      int    `json:"score"`
	Percentile int    `json:"percentile"`
	Timestamp  string `json:"timestamp"`
}

// Domain types

// SubmissionRecord is the stored form of an accepted submission
type SubmissionRecord struct {
	SessionID  string           `json:"sessionId"`
	Timestamp  time.Time        `json:"timestamp"`
	Responses  []ResponseRecord `json:"responses"`
	ImageOrder []int            `json:"imageOrder"`
	TotalTime  int64            `json:"totalTime"`
	Score      int              `json:"score"`
	Strategy   string           `json:"strategy"`
	IPHash     string           `json:"-"` // Never expose in JSON
	UserAgent  string           `json:"-"` // Never expose in JSON
	ExpiresAt  time.Time        `json:"-"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
