// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/reelnotes/internal/auth"
	"github.com/tomtom215/reelnotes/internal/database"
	"github.com/tomtom215/reelnotes/internal/logging"
	"github.com/tomtom215/reelnotes/internal/models"
	"github.com/tomtom215/reelnotes/internal/storage"
	"github.com/tomtom215/reelnotes/internal/validation"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = auth.CodeUnauthorized
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
	CodeUnsupportedMedia   = "UNSUPPORTED_MEDIA_TYPE"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeInternal           = "INTERNAL_ERROR"
)

// User-facing messages.
const (
	msgRequiredFields  = "Please provide all required fields"
	msgServerError     = "Server error"
	msgMovieNotFound   = "Movie not found"
	msgPostNotFound    = "Post not found"
	msgOnlyImages      = "Only image files are allowed"
	msgInvalidBody     = "Invalid request body"
	msgInvalidCreds    = "Invalid credentials"
	msgTooManyRequests = "Too many requests, please try again later"
)

var (
	// errMalformedBody is returned when a request body cannot be decoded.
	errMalformedBody = errors.New("malformed request body")

	// errInvalidYear is returned for a year filter that is not a positive integer.
	errInvalidYear = errors.New("year must be a positive number")
)

// respondError writes an error response. err is logged, never sent.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Debug()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.
			Str("code", code).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.ErrorResponse{
		Message:   message,
		Code:      code,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
}

// respondValidationError writes a 400 carrying the per-field messages.
func respondValidationError(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	message := verr.Error()
	for _, fe := range verr.Errors() {
		if fe.Tag() == "required" || fe.Tag() == "notblank" {
			message = msgRequiredFields
			break
		}
	}

	respondJSON(w, http.StatusBadRequest, &models.ErrorResponse{
		Message:   message,
		Code:      CodeValidation,
		RequestID: logging.RequestIDFromContext(r.Context()),
		Fields:    verr.Fields(),
	})
}

// respondStoreError maps store, file and auth errors to responses.
// notFound is the message used for database.ErrNotFound.
func (h *Handler) respondStoreError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var (
		verr     *validation.RequestValidationError
		maxBytes *http.MaxBytesError
	)

	switch {
	case errors.As(err, &verr):
		respondValidationError(w, r, verr)
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, notFound, nil)
	case errors.Is(err, storage.ErrUnsupportedMediaType):
		respondError(w, r, http.StatusUnsupportedMediaType, CodeUnsupportedMedia, msgOnlyImages, err)
	case errors.Is(err, storage.ErrPayloadTooLarge), errors.As(err, &maxBytes):
		respondError(w, r, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, h.tooLargeMessage(), err)
	case errors.Is(err, errMalformedBody):
		respondError(w, r, http.StatusBadRequest, CodeValidation, msgInvalidBody, err)
	case errors.Is(err, errInvalidYear):
		respondJSON(w, http.StatusBadRequest, &models.ErrorResponse{
			Message:   "Year must be a positive number",
			Code:      CodeValidation,
			RequestID: logging.RequestIDFromContext(r.Context()),
			Fields:    map[string]string{"year": "year must be a positive number"},
		})
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, r, http.StatusUnauthorized, CodeInvalidCredentials, msgInvalidCreds, nil)
	case errors.Is(err, auth.ErrAccountLocked):
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfterSeconds(err)))
		respondError(w, r, http.StatusTooManyRequests, CodeAccountLocked,
			"Too many failed login attempts, please try again later", nil)
	case errors.Is(err, context.Canceled):
		// The client is gone; nothing useful can be written.
		logging.Ctx(r.Context()).Debug().Str("path", r.URL.Path).Msg("Request canceled")
	default:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, msgServerError, err)
	}
}

func (h *Handler) tooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum size is %dMB", h.store.MaxBytes()>>20)
}

// retryAfterSeconds rounds the remaining lock time of err up to at least one
// second while the lock holds.
func retryAfterSeconds(err error) int64 {
	remaining, _ := auth.RetryAfter(err)
	secs := int64(remaining.Seconds())
	if remaining > 0 && secs == 0 {
		secs = 1
	}
	return secs
}
