// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/body-perception/cliparse"
	"github.com/danielhkuo/body-perception/db"
	"github.com/danielhkuo/body-perception/models"
	"github.com/danielhkuo/body-perception/stats"
)

// TestDBURL is an in-memory SQLite database, private to each connection
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), cliparse.DatabaseSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      TestDBURL,
		DatabaseType:     cliparse.DatabaseSQLite,
		LogLevel:         "info",
		ImageCount:       12,
		ScoreStrategy:    models.StrategyWeighted,
		CategoryTable:    "server",
		VarianceMethod:   string(stats.VarianceLegacy),
		IngestMaxRetries: 10,
		SubmissionTTL:    365 * 24 * time.Hour,
		CORSOrigins:      []string{"*"},
		IPHashSalt:       "test-ip-salt",
	}
}

// NewTestEngine returns an engine over store with short backoff
func NewTestEngine(store stats.Store) *stats.Engine {
	return stats.NewEngine(store,
		stats.WithBackOff(time.Millisecond, 10*time.Millisecond),
		stats.WithMaxRetries(50),
	)
}

// SubmitRequest builds a valid 12-image submission shown in image order,
// judging the listed images as fat
func SubmitRequest(fat ...int) models.SubmitRequest {
	marked := make(map[int]bool)
	for _, id := range fat {
		marked[id] = true
	}

	req := models.SubmitRequest{
		TotalTime: 24000,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for i := 1; i <= 12; i++ {
		req.Responses = append(req.Responses, models.ResponseRecord{
			ImageNumber:  i,
			IsFat:        marked[i],
			ResponseTime: int64(i) * 2000,
			Position:     i,
		})
		req.ImageOrder = append(req.ImageOrder, i)
	}
	return req
}

// SeedAggregate stores agg as the current population aggregate
func SeedAggregate(t *testing.T, store stats.Store, agg stats.AggregateStatistics) {
	t.Helper()

	data, err := json.Marshal(agg)
	if err != nil {
		t.Fatalf("Failed to encode aggregate: %v", err)
	}

	_, version, err := store.Get(context.Background(), models.GlobalStatsKey)
	if err != nil && !errors.Is(err, stats.ErrNotFound) {
		t.Fatalf("Failed to read aggregate: %v", err)
	}
	ok, err := store.CompareAndSwap(context.Background(), models.GlobalStatsKey, data, version)
	if err != nil || !ok {
		t.Fatalf("Failed to seed aggregate: ok=%v err=%v", ok, err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// FailingStore is a stats.Store whose every call fails
type FailingStore struct{}

func (FailingStore) Get(context.Context, string) ([]byte, int64, error) {
	return nil, 0, errors.New("dial tcp: connection refused")
}

func (FailingStore) CompareAndSwap(context.Context, string, []byte, int64) (bool, error) {
	return false, errors.New("dial tcp: connection refused")
}
