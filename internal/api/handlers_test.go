// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ccatrack/internal/config"
	"github.com/tomtom215/ccatrack/internal/ingest"
	"github.com/tomtom215/ccatrack/internal/models"
	"github.com/tomtom215/ccatrack/internal/stats"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	events  []models.Event
	pingErr error
}

func (f *fakeStore) InsertEvent(_ context.Context, event *models.Event) error {
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeStore) ListEvents(_ context.Context) ([]models.Event, error) {
	return f.events, nil
}

func (f *fakeStore) CountEvents(_ context.Context) (int, error) {
	return len(f.events), nil
}

func (f *fakeStore) DeleteAllEvents(_ context.Context) (int, error) {
	deleted := len(f.events)
	f.events = nil
	return deleted, nil
}

func (f *fakeStore) TopShortlisted(_ context.Context, limit int) ([]models.Bucket, error) {
	counts := map[string]int{}
	for _, e := range f.events {
		if e.Kind == models.KindShortlist && e.ShortlistedItem != nil && *e.ShortlistedItem != "" {
			counts[*e.ShortlistedItem]++
		}
	}
	buckets := make([]models.Bucket, 0, limit)
	for key, count := range counts {
		if len(buckets) < limit {
			buckets = append(buckets, models.Bucket{Key: key, Count: count})
		}
	}
	return buckets, nil
}

func (f *fakeStore) Ping(_ context.Context) error { return f.pingErr }

func (f *fakeStore) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8000, Timeout: 30 * time.Second},
		Database: config.DatabaseConfig{
			Path: "/tmp/test.duckdb",
		},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     1000,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
	}
}

// setupTestRouter builds the full routed handler over a fake store.
func setupTestRouter(t *testing.T, store *fakeStore) http.Handler {
	t.Helper()
	handler := NewHandler(store, ingest.NewService(store), stats.NewService(store))
	return NewRouter(handler, testConfig()).SetupChi()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, rec.Body.String())
	}
	return body
}

func TestSubmitEvent_Generate(t *testing.T) {
	router := setupTestRouter(t, &fakeStore{})

	req := httptest.NewRequest(http.MethodPost, "/events",
		strings.NewReader(`{"eventType": "generate", "categorySelected": "Sports"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["ok"] != true {
		t.Errorf("ok = %v, want true", body["ok"])
	}
	if body["totalEventsNow"] != float64(1) {
		t.Errorf("totalEventsNow = %v, want 1", body["totalEventsNow"])
	}
}

func TestSubmitEvent_InvalidType(t *testing.T) {
	store := &fakeStore{}
	router := setupTestRouter(t, store)

	req := httptest.NewRequest(http.MethodPost, "/events",
		strings.NewReader(`{"eventType": "click"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["ok"] != false {
		t.Errorf("ok = %v, want false", body["ok"])
	}
	if _, present := body["error"]; !present {
		t.Error("error field missing from rejection")
	}
	if len(store.events) != 0 {
		t.Errorf("rejected submission persisted %d events", len(store.events))
	}
}

func TestSubmitEvent_MalformedBody(t *testing.T) {
	router := setupTestRouter(t, &fakeStore{})

	// A malformed body degrades to an empty envelope, which fails only
	// the eventType check
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStats_Shape(t *testing.T) {
	store := &fakeStore{}
	router := setupTestRouter(t, store)

	submit := func(payload string) {
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("seed submission failed: %d %s", rec.Code, rec.Body.String())
		}
	}
	submit(`{"eventType": "generate", "categorySelected": "Sports", "interests": ["Coding"]}`)
	submit(`{"eventType": "shortlist", "shortlistedCCA": "Chess Club"}`)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["totalEvents"] != float64(2) {
		t.Errorf("totalEvents = %v, want 2", body["totalEvents"])
	}
	if body["generateEvents"] != float64(1) || body["shortlistEvents"] != float64(1) {
		t.Errorf("per-kind counts = %v/%v, want 1/1", body["generateEvents"], body["shortlistEvents"])
	}

	// The flat response carries every distribution key, present even when empty
	for _, key := range []string{
		"categories", "activityTypes", "grades", "genders",
		"interests", "shortlisted", "topClicked",
	} {
		dist, present := body[key]
		if !present {
			t.Errorf("distribution %q missing from response", key)
			continue
		}
		if _, ok := dist.([]any); !ok {
			t.Errorf("distribution %q = %T, want array", key, dist)
		}
	}

	categories := body["categories"].([]any)
	first := categories[0].(map[string]any)
	if first["key"] != "Sports" || first["count"] != float64(1) {
		t.Errorf("categories[0] = %v, want {key: Sports, count: 1}", first)
	}
}

func TestClearStats(t *testing.T) {
	store := &fakeStore{
		events: []models.Event{
			{Kind: models.KindGenerate},
			{Kind: models.KindShortlist},
		},
	}
	router := setupTestRouter(t, store)

	req := httptest.NewRequest(http.MethodDelete, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["ok"] != true {
		t.Errorf("ok = %v, want true", body["ok"])
	}
	if body["deleted"] != float64(2) {
		t.Errorf("deleted = %v, want 2", body["deleted"])
	}
	if len(store.events) != 0 {
		t.Errorf("%d events survived the clear", len(store.events))
	}
}

func TestClearStats_Empty(t *testing.T) {
	router := setupTestRouter(t, &fakeStore{})

	req := httptest.NewRequest(http.MethodDelete, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even with nothing to delete", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["deleted"] != float64(0) {
		t.Errorf("deleted = %v, want 0", body["deleted"])
	}
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(t, &fakeStore{pingErr: errors.New("db down")})

	// Liveness never touches the store
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["ok"] != true {
		t.Errorf("ok = %v, want true", body["ok"])
	}
}

func TestHealthReady(t *testing.T) {
	t.Run("store up", func(t *testing.T) {
		router := setupTestRouter(t, &fakeStore{})

		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["ok"] != true {
			t.Errorf("ok = %v, want true", body["ok"])
		}
		// database is a state word, not a boolean
		if body["database"] != "up" {
			t.Errorf("database = %v, want \"up\"", body["database"])
		}
	})

	t.Run("store down", func(t *testing.T) {
		router := setupTestRouter(t, &fakeStore{pingErr: errors.New("db down")})

		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
	})
}

func TestFavicon(t *testing.T) {
	router := setupTestRouter(t, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/favicon.ico", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := setupTestRouter(t, &fakeStore{})

	req := httptest.NewRequest(http.MethodOptions, "/events", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRespondJSON_SetsETag(t *testing.T) {
	rec := httptest.NewRecorder()
	respondJSON(rec, http.StatusOK, &models.HealthResponse{OK: true})

	if rec.Header().Get("ETag") == "" {
		t.Error("ETag header missing")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestGenerateETag_Stable(t *testing.T) {
	a := generateETag([]byte(`{"ok":true}`))
	b := generateETag([]byte(`{"ok":true}`))
	c := generateETag([]byte(`{"ok":false}`))

	if a != b {
		t.Errorf("same payload produced different ETags: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different payloads produced the same ETag")
	}
}

func TestSanitizeLogValue(t *testing.T) {
	got := sanitizeLogValue("line1\nline2\tend")
	if strings.ContainsAny(got, "\n\t") {
		t.Errorf("control characters survived sanitization: %q", got)
	}
}
