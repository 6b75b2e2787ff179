// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelnotes/internal/logging"
	"github.com/tomtom215/reelnotes/internal/models"
)

type contextKey string

// ClaimsContextKey holds the validated *Claims of an authenticated request.
const ClaimsContextKey contextKey = "claims"

// TokenCookieName is the cookie set at login and accepted by the gate.
const TokenCookieName = "token"

// CodeUnauthorized is the error code of 401 responses from the gate.
const CodeUnauthorized = "UNAUTHORIZED"

var (
	errMissingToken = errors.New("missing token")
	errBadHeader    = errors.New("invalid authorization header")
)

// Middleware is the bearer token gate for admin-only routes.
type Middleware struct {
	jwtManager *JWTManager
}

// NewMiddleware creates the gate around jwtManager.
func NewMiddleware(jwtManager *JWTManager) *Middleware {
	return &Middleware{jwtManager: jwtManager}
}

// Authenticate rejects requests without a valid token with 401 and stores
// the claims in the request context otherwise.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractToken(r)
		if err != nil {
			writeUnauthorized(w, r, "Authentication required")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			writeUnauthorized(w, r, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// extractToken reads the bearer token from the Authorization header and
// falls back to the token cookie when no header is sent.
func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		cookie, err := r.Cookie(TokenCookieName)
		if err != nil || cookie.Value == "" {
			return "", errMissingToken
		}
		return cookie.Value, nil
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errBadHeader
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errBadHeader
	}
	return token, nil
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="reelnotes"`)
	w.WriteHeader(http.StatusUnauthorized)

	resp := models.ErrorResponse{
		Message:   message,
		Code:      CodeUnauthorized,
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Error encoding unauthorized response")
	}
}
