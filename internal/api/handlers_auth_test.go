// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/tomtom215/reelnotes/internal/auth"
	"github.com/tomtom215/reelnotes/internal/models"
)

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "  ADMIN@example.com ",
		"password": testAdminPassword,
	}, false)
	expectStatus(t, rec, http.StatusOK)

	resp := decodeBody[models.LoginResponse](t, rec)
	if resp.Token == "" || resp.Email != testAdminEmail || resp.ExpiresAt.IsZero() {
		t.Fatalf("response = %+v", resp)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q", cc)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.TokenCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != resp.Token || !cookie.HttpOnly || cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("cookie = %+v", cookie)
	}

	// The issued token opens the gate, by header or by cookie.
	req := newRequest(http.MethodGet, "/api/auth/verify", nil, "")
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = serve(s, req)
	expectStatus(t, rec, http.StatusOK)
	if info := decodeBody[models.TokenInfo](t, rec); info.Email != testAdminEmail || info.ExpiresAt.IsZero() {
		t.Errorf("verify = %+v", info)
	}

	req = newRequest(http.MethodGet, "/api/auth/verify", nil, "")
	req.AddCookie(cookie)
	expectStatus(t, serve(s, req), http.StatusOK)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	for _, creds := range []map[string]string{
		{"email": testAdminEmail, "password": "wrong"},
		{"email": "nobody@example.com", "password": testAdminPassword},
	} {
		rec := s.doJSON(http.MethodPost, "/api/auth/login", creds, false)
		expectStatus(t, rec, http.StatusUnauthorized)
		resp := decodeBody[models.ErrorResponse](t, rec)
		if resp.Code != CodeInvalidCredentials || resp.Message != msgInvalidCreds {
			t.Errorf("response = %+v", resp)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Error("failed login must not set a cookie")
		}
	}

	rec := s.doJSON(http.MethodPost, "/api/auth/login", map[string]string{"email": testAdminEmail}, false)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestLogin_Lockout(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	attempts := auth.DefaultLockoutConfig().MaxAttempts
	for i := 1; i < attempts; i++ {
		rec := s.doJSON(http.MethodPost, "/api/auth/login", map[string]string{"email": testAdminEmail, "password": "nope"}, false)
		expectStatus(t, rec, http.StatusUnauthorized)
	}

	rec := s.doJSON(http.MethodPost, "/api/auth/login", map[string]string{"email": testAdminEmail, "password": "nope"}, false)
	expectStatus(t, rec, http.StatusTooManyRequests)
	if resp := decodeBody[models.ErrorResponse](t, rec); resp.Code != CodeAccountLocked {
		t.Errorf("code = %q", resp.Code)
	}

	// Correct credentials are refused while locked.
	rec = s.doJSON(http.MethodPost, "/api/auth/login", map[string]string{"email": testAdminEmail, "password": testAdminPassword}, false)
	expectStatus(t, rec, http.StatusTooManyRequests)
	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	if err != nil || retry <= 0 {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
}
