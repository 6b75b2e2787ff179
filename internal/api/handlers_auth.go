// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/reelnotes/internal/auth"
	"github.com/tomtom215/reelnotes/internal/models"
	"github.com/tomtom215/reelnotes/internal/validation"
)

// Login exchanges the admin credentials for a bearer token. The token is
// also set as an HttpOnly cookie.
//
// @Summary Admin login
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse "Invalid credentials"
// @Failure 429 {object} models.ErrorResponse "Locked out or rate limited"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondStoreError(w, r, err, "")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	resp, err := h.authSvc.Login(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		h.respondStoreError(w, r, err, "")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    resp.Token,
		Path:     "/",
		Expires:  resp.ExpiresAt,
		MaxAge:   int(time.Until(resp.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, resp)
}

// VerifyToken describes the token that passed the auth gate.
//
// @Summary Verify token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.TokenInfo
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/verify [get]
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
		return
	}

	info := models.TokenInfo{Email: claims.Email}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	respondJSON(w, http.StatusOK, info)
}
