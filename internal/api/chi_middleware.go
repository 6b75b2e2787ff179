// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/reelnotes/internal/auth"
	"github.com/tomtom215/reelnotes/internal/config"
	"github.com/tomtom215/reelnotes/internal/metrics"
)

// RateLimitConfig is a per-IP request budget.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Endpoint rate limits.
var (
	// RateLimitAPI is the default for every /api route.
	RateLimitAPI = RateLimitConfig{Requests: 100, Window: time.Minute}

	// RateLimitWrite applies to mutations and contact submissions.
	RateLimitWrite = RateLimitConfig{Requests: 30, Window: time.Minute}

	// RateLimitLogin is the per-IP login budget.
	RateLimitLogin = RateLimitConfig{Requests: 5, Window: 5 * time.Minute}
)

// ChiMiddlewareConfig configures CORS and rate limiting.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSExposedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int

	RateLimitAPI      RateLimitConfig
	RateLimitWrite    RateLimitConfig
	RateLimitLogin    RateLimitConfig
	RateLimitDisabled bool
}

// DefaultChiMiddlewareConfig returns the production defaults. CORS origins
// start empty and must be configured.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		CORSMaxAge:         86400,

		RateLimitAPI:   RateLimitAPI,
		RateLimitWrite: RateLimitWrite,
		RateLimitLogin: RateLimitLogin,
	}
}

// ChiMiddlewareConfigFrom builds the middleware configuration from the
// security settings. The configured request budget replaces the API default.
func ChiMiddlewareConfigFrom(cfg *config.SecurityConfig) *ChiMiddlewareConfig {
	mc := DefaultChiMiddlewareConfig()
	mc.CORSAllowedOrigins = cfg.CORSOrigins
	// Credentialed CORS is only valid with explicit origins.
	mc.CORSAllowCredentials = !hasWildcard(cfg.CORSOrigins)
	if cfg.RateLimitReqs > 0 && cfg.RateLimitWindow > 0 {
		mc.RateLimitAPI = RateLimitConfig{Requests: cfg.RateLimitReqs, Window: cfg.RateLimitWindow}
	}
	mc.RateLimitDisabled = cfg.RateLimitDisabled
	return mc
}

func hasWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// ChiMiddleware builds CORS and rate limiting middleware from one config.
type ChiMiddleware struct {
	config       *ChiMiddlewareConfig
	cors         func(http.Handler) http.Handler
	loginLimiter *auth.RateLimiter
}

// NewChiMiddleware creates the factory. A nil config uses the defaults.
func NewChiMiddleware(cfg *ChiMiddlewareConfig) *ChiMiddleware {
	if cfg == nil {
		cfg = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		ExposedHeaders:   cfg.CORSExposedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	})

	return &ChiMiddleware{
		config:       cfg,
		cors:         corsHandler,
		loginLimiter: auth.NewRateLimiter(cfg.RateLimitLogin.Requests, cfg.RateLimitLogin.Window),
	}
}

// CORS returns the go-chi/cors handler. It must run globally so that
// preflight requests reach it.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimitAPI limits every API request per IP.
func (m *ChiMiddleware) RateLimitAPI() func(http.Handler) http.Handler {
	return m.limit("api", m.config.RateLimitAPI)
}

// RateLimitWrite limits mutations per IP.
func (m *ChiMiddleware) RateLimitWrite() func(http.Handler) http.Handler {
	return m.limit("write", m.config.RateLimitWrite)
}

// LoginLimiter exposes the login token buckets for periodic cleanup.
func (m *ChiMiddleware) LoginLimiter() *auth.RateLimiter {
	return m.loginLimiter
}

// RateLimitLogin limits login attempts per IP with token buckets that also
// refill gradually, unlike the fixed windows of httprate.
func (m *ChiMiddleware) RateLimitLogin() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return passthrough
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.loginLimiter.Allow(clientIP(r)) {
				tooManyRequests("login", m.config.RateLimitLogin.Window)(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *ChiMiddleware) limit(name string, rl RateLimitConfig) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return passthrough
	}
	return httprate.Limit(
		rl.Requests,
		rl.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(tooManyRequests(name, rl.Window)),
	)
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// tooManyRequests answers a rate limited request and counts it.
func tooManyRequests(limiter string, window time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.RecordRateLimitHit(limiter)
		if w.Header().Get("Retry-After") == "" {
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
		}
		respondError(w, r, http.StatusTooManyRequests, CodeTooManyRequests, msgTooManyRequests, nil)
	}
}
