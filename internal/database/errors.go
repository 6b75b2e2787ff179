// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package database

import (
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/reelnotes/internal/metrics"
	"github.com/tomtom215/reelnotes/internal/validation"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrClosed is returned when the store has been closed.
	ErrClosed = errors.New("document store closed")
)

//nolint:gochecknoinits // metrics label classification must be registered before first use
func init() {
	metrics.RegisterErrorClassifier(classifyError)
}

// classifyError maps store errors to stable metric labels.
func classifyError(err error) (string, bool) {
	var verr *validation.RequestValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found", true
	case errors.Is(err, badger.ErrConflict):
		return "conflict", true
	case errors.Is(err, ErrClosed), errors.Is(err, badger.ErrDBClosed):
		return "closed", true
	case errors.As(err, &verr):
		return "invalid", true
	}
	return "", false
}

// IsValidationError reports whether err carries field validation failures.
func IsValidationError(err error) bool {
	var verr *validation.RequestValidationError
	return errors.As(err, &verr)
}
