// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/afero"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/reelnotes/internal/auth"
	"github.com/tomtom215/reelnotes/internal/cache"
	"github.com/tomtom215/reelnotes/internal/config"
	"github.com/tomtom215/reelnotes/internal/database"
	"github.com/tomtom215/reelnotes/internal/models"
	"github.com/tomtom215/reelnotes/internal/storage"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "correct-horse-battery"
	testSecret        = "test-secret-that-is-at-least-32-characters-long"
)

// pngBytes is a 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// gifBytes is a 1x1 GIF.
var gifBytes = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")

type testServer struct {
	t       *testing.T
	db      *database.DB
	fs      afero.Fs
	store   *storage.Store
	jwt     *auth.JWTManager
	lockout *auth.Lockout
	api     *Handler
	handler http.Handler
	token   string
}

type serverOption func(*ChiMiddlewareConfig)

func withRateLimits(api, write, login RateLimitConfig) serverOption {
	return func(c *ChiMiddlewareConfig) {
		c.RateLimitDisabled = false
		c.RateLimitAPI = api
		c.RateLimitWrite = write
		c.RateLimitLogin = login
	}
}

// newTestServer builds the full router over an in-memory store and an
// in-memory uploads directory, with one seeded admin.
func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	bdb, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	db := database.NewWithBadger(bdb)
	t.Cleanup(func() { _ = db.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.UpsertAdmin(context.Background(), &models.AdminCredential{
		Email:        testAdminEmail,
		PasswordHash: string(hash),
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	fs := afero.NewMemMapFs()
	store := storage.New(fs, storage.DefaultMaxBytes)

	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, TokenTTL: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	lockout := auth.NewLockout(auth.DefaultLockoutConfig())
	authSvc := auth.NewService(db, jwtManager, lockout, func(err error) bool {
		return errors.Is(err, database.ErrNotFound)
	})

	handler := NewHandler(HandlerConfig{
		DB:        db,
		Store:     store,
		Auth:      authSvc,
		JWT:       jwtManager,
		FacetsTTL: time.Minute,
		Version:   "test",
	})

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = []string{"https://reelnotes.example"}
	mwCfg.CORSAllowCredentials = true
	mwCfg.RateLimitDisabled = true
	for _, opt := range opts {
		opt(mwCfg)
	}
	router := NewRouter(handler, auth.NewMiddleware(jwtManager), NewChiMiddleware(mwCfg))

	token, _, err := jwtManager.GenerateToken(testAdminEmail)
	if err != nil {
		t.Fatal(err)
	}

	return &testServer{
		t:       t,
		db:      db,
		fs:      fs,
		store:   store,
		jwt:     jwtManager,
		lockout: lockout,
		api:     handler,
		handler: router.Setup(),
		token:   token,
	}
}

func newRequest(method, path string, body io.Reader, contentType string) *http.Request {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// do sends a request. authed adds the admin bearer token.
func (s *testServer) do(method, path string, body io.Reader, contentType string, authed bool) *httptest.ResponseRecorder {
	s.t.Helper()
	req := newRequest(method, path, body, contentType)
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	return serve(s, req)
}

func (s *testServer) handlerFacetsStats() cache.Stats {
	return s.api.FacetsCache().Stats()
}

// newForeignToken returns a well-formed token for the admin signed with a
// different key.
func newForeignToken() (string, error) {
	other, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: "another-secret-that-is-also-32-chars-long"})
	if err != nil {
		return "", err
	}
	token, _, err := other.GenerateToken(testAdminEmail)
	return token, err
}

// newExpiredToken signs an admin token with the test key that expired an
// hour ago.
func newExpiredToken() (string, error) {
	past := time.Now().Add(-2 * time.Hour)
	claims := &auth.Claims{
		Email: testAdminEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    auth.Issuer,
			Subject:   testAdminEmail,
			IssuedAt:  jwt.NewNumericDate(past),
			NotBefore: jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
}

func (s *testServer) doJSON(method, path string, v interface{}, authed bool) *httptest.ResponseRecorder {
	s.t.Helper()
	var body io.Reader
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			s.t.Fatal(err)
		}
		body = bytes.NewReader(data)
	}
	return s.do(method, path, body, "application/json", authed)
}

// fileExists reports whether a public /uploads path is present in the fs.
func (s *testServer) fileExists(publicPath string) bool {
	s.t.Helper()
	ok, err := s.store.Exists(publicPath)
	if err != nil {
		s.t.Fatalf("Exists(%q): %v", publicPath, err)
	}
	return ok
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, want, rec.Body.String())
	}
}

// filePart describes a file part of a multipart request.
type filePart struct {
	field, name, contentType string
	data                     []byte
}

// multipartBody encodes fields and an optional file. Repeated values of a
// field become repeated parts.
func multipartBody(t *testing.T, fields map[string][]string, file *filePart) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(k, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, file.field, file.name))
		h.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(file.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func longText(n int) string {
	return strings.Repeat("r", n)
}

func movieFields(title, releaseDate string, genres ...string) map[string][]string {
	return map[string][]string{
		"title":       {title},
		"releaseDate": {releaseDate},
		"duration":    {"2h 10m"},
		"genre":       genres,
		"description": {longText(220)},
		"trailerLink": {"https://video.example/trailer"},
	}
}

// createMovie creates a movie over HTTP with a PNG poster.
func (s *testServer) createMovie(title, releaseDate string, genres ...string) models.Movie {
	s.t.Helper()
	body, ct := multipartBody(s.t, movieFields(title, releaseDate, genres...),
		&filePart{field: "posterImage", name: "poster.png", contentType: "image/png", data: pngBytes})
	rec := s.do(http.MethodPost, "/api/movies", body, ct, true)
	expectStatus(s.t, rec, http.StatusCreated)
	return decodeBody[models.Movie](s.t, rec)
}
