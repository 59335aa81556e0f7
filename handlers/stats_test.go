// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/body-perception/db"
	"github.com/danielhkuo/body-perception/models"
	"github.com/danielhkuo/body-perception/stats"
	"github.com/danielhkuo/body-perception/testutil"
)

func TestGetStats_DefaultsOnFirstAccess(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewStatsHandler(db.NewSubmissions(conn), testutil.NewTestEngine(db.NewKVStore(conn)))

	w := httptest.NewRecorder()
	handler.GetStats(w, testutil.MakeRequest("GET", "/api/stats", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var body map[string]interface{}
	testutil.AssertJSON(t, w, &body)

	if body["totalSubmissions"] != float64(0) {
		t.Errorf("Expected totalSubmissions 0, got %v", body["totalSubmissions"])
	}
	if body["averageScore"] != float64(stats.DefaultMean) {
		t.Errorf("Expected averageScore 50, got %v", body["averageScore"])
	}
	if body["scoreStdDev"] != float64(stats.DefaultStdDev) {
		t.Errorf("Expected scoreStdDev 20, got %v", body["scoreStdDev"])
	}
	if _, ok := body["scoreDistribution"]; !ok {
		t.Error("Expected scoreDistribution in response")
	}
	if _, ok := body["lastUpdated"]; !ok {
		t.Error("Expected lastUpdated in response")
	}
}

func TestGetStats_AggregateUnavailable(t *testing.T) {
	engine := stats.NewEngine(testutil.FailingStore{},
		stats.WithBackOff(time.Millisecond, time.Millisecond),
		stats.WithMaxRetries(1),
	)
	handler := NewStatsHandler(db.NewSubmissions(testutil.SetupTestDB(t)), engine)

	w := httptest.NewRecorder()
	handler.GetStats(w, testutil.MakeRequest("GET", "/api/stats", nil, nil))
	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
}

func TestGetStats_Session(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	subs := db.NewSubmissions(conn)
	store := db.NewKVStore(conn)
	engine := testutil.NewTestEngine(store)
	submitHandler := NewSubmissionHandler(subs, engine, testutil.GetTestConfig())
	statsHandler := NewStatsHandler(subs, engine)

	w := httptest.NewRecorder()
	submitHandler.Submit(w, testutil.MakeRequest("POST", "/api/submit", testutil.SubmitRequest(1, 2, 3), nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var submitted models.SubmitResponse
	testutil.AssertJSON(t, w, &submitted)

	// Same population: the session reads back as submitted
	w = httptest.NewRecorder()
	statsHandler.GetStats(w, testutil.MakeRequest("GET", "/api/stats?session="+submitted.SessionID, nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var session models.SessionStatsResponse
	testutil.AssertJSON(t, w, &session)
	if session.SessionID != submitted.SessionID || session.Score != 33 || session.Percentile != 33 {
		t.Errorf("Unexpected session stats: %+v", session)
	}
	if session.Timestamp != submitted.Timestamp {
		t.Errorf("Expected timestamp %s, got %s", submitted.Timestamp, session.Timestamp)
	}

	// Population grows: the percentile is recomputed, the score is not
	testutil.SeedAggregate(t, store, stats.AggregateStatistics{
		Count:       40,
		Mean:        50,
		StdDev:      20,
		Histogram:   map[string]int{"50": 40},
		LastUpdated: time.Now().UTC(),
	})

	w = httptest.NewRecorder()
	statsHandler.GetStats(w, testutil.MakeRequest("GET", "/api/stats?session="+submitted.SessionID, nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	session = models.SessionStatsResponse{}
	testutil.AssertJSON(t, w, &session)
	// z = -0.85 -> 37.25
	if session.Score != 33 || session.Percentile != 37 {
		t.Errorf("Expected score 33 percentile 37, got %d/%d", session.Score, session.Percentile)
	}
}

func TestGetStats_SessionNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	subs := db.NewSubmissions(conn)
	handler := NewStatsHandler(subs, testutil.NewTestEngine(db.NewKVStore(conn)))

	now := time.Now().UTC()
	expired := models.SubmissionRecord{
		SessionID: "0b7e4c55-3f0a-4a8e-9a43-6d1f2c8b9e10",
		Timestamp: now.Add(-2 * time.Hour),
		Responses: testutil.SubmitRequest().Responses,
		Score:     10,
		Strategy:  models.StrategyWeighted,
		ExpiresAt: now.Add(-time.Hour),
	}
	if err := subs.Save(context.Background(), expired); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name    string
		session string
	}{
		{"unknown", "9d7c2f7e-7a55-4c1b-8a3e-0e5b8d7f6a21"},
		{"malformed", "not-a-session"},
		{"expired", expired.SessionID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.GetStats(w, testutil.MakeRequest("GET", "/api/stats?session="+tc.session, nil, nil))
			testutil.AssertStatus(t, w, http.StatusNotFound)

			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Message != "Session not found" {
				t.Errorf("Unexpected message %q", resp.Message)
			}
		})
	}
}
