// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/reelnotes/internal/models"
)

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/health", nil, "", false)
	expectStatus(t, rec, http.StatusOK)
	status := decodeBody[models.HealthStatus](t, rec)
	if status.Status != "healthy" || !status.Database || status.Version != "test" {
		t.Errorf("health = %+v", status)
	}

	_ = s.db.Close()
	rec = s.do(http.MethodGet, "/api/health", nil, "", false)
	expectStatus(t, rec, http.StatusServiceUnavailable)
	if status := decodeBody[models.HealthStatus](t, rec); status.Status != "degraded" || status.Database {
		t.Errorf("health after close = %+v", status)
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/nowhere", nil, "", false)
	expectStatus(t, rec, http.StatusNotFound)
	if resp := decodeBody[models.ErrorResponse](t, rec); resp.Code != CodeNotFound || resp.RequestID == "" {
		t.Errorf("response = %+v", resp)
	}

	rec = s.do(http.MethodPatch, "/api/movies", nil, "", false)
	expectStatus(t, rec, http.StatusMethodNotAllowed)
}

func TestRouter_Headers(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	req := newRequest(http.MethodGet, "/api/movies", nil, "")
	req.Header.Set("X-Request-ID", "trace-123")
	rec := serve(s, req)
	expectStatus(t, rec, http.StatusOK)

	if got := rec.Header().Get("X-Request-ID"); got != "trace-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Errorf("Content-Type = %q", got)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty list body = %q", rec.Body.String())
	}
}

func TestRouter_CORS(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	preflight := func(origin string) *http.Response {
		req := newRequest(http.MethodOptions, "/api/movies", nil, "")
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		return serve(s, req).Result()
	}

	resp := preflight("https://reelnotes.example")
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://reelnotes.example" {
		t.Errorf("allowed origin = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("allow credentials = %q", got)
	}

	resp = preflight("https://evil.example")
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
}

func TestRouter_MetricsAndDocs(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	s.do(http.MethodGet, "/api/movies", nil, "", false)

	rec := s.do(http.MethodGet, "/metrics", nil, "", false)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "reelnotes_api_requests_total") {
		t.Error("metrics output lacks request counter")
	}

	rec = s.do(http.MethodGet, "/swagger/index.html", nil, "", false)
	expectStatus(t, rec, http.StatusOK)
}

func TestRouter_RateLimits(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, withRateLimits(
		RateLimitConfig{Requests: 3, Window: time.Minute},
		RateLimitConfig{Requests: 1, Window: time.Minute},
		RateLimitConfig{Requests: 2, Window: time.Minute},
	))

	for i := 0; i < 3; i++ {
		expectStatus(t, s.do(http.MethodGet, "/api/movies", nil, "", false), http.StatusOK)
	}
	rec := s.do(http.MethodGet, "/api/movies", nil, "", false)
	expectStatus(t, rec, http.StatusTooManyRequests)
	if resp := decodeBody[models.ErrorResponse](t, rec); resp.Code != CodeTooManyRequests {
		t.Errorf("code = %q", resp.Code)
	}

	// Limits are per client address.
	req := newRequest(http.MethodGet, "/api/movies", nil, "")
	req.RemoteAddr = "198.51.100.7:4000"
	expectStatus(t, serve(s, req), http.StatusOK)

	login := func() int {
		req := newRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`), "application/json")
		req.RemoteAddr = "203.0.113.9:5000"
		return serve(s, req).Code
	}
	if code := login(); code != http.StatusUnauthorized {
		t.Fatalf("first login = %d", code)
	}
	if code := login(); code != http.StatusUnauthorized {
		t.Fatalf("second login = %d", code)
	}
	if code := login(); code != http.StatusTooManyRequests {
		t.Errorf("third login = %d, want 429", code)
	}
}
