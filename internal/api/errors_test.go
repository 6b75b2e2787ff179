// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/reelnotes/internal/auth"
)

func TestRetryAfterSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int64
	}{
		{"whole seconds", &auth.LockedError{Remaining: 90 * time.Second}, 90},
		{"under a second rounds up", &auth.LockedError{Remaining: 300 * time.Millisecond}, 1},
		{"wrapped", fmt.Errorf("login: %w", &auth.LockedError{Remaining: 15 * time.Minute}), 900},
		{"expired lock", &auth.LockedError{}, 0},
		{"not a lock", errors.New("boom"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryAfterSeconds(tt.err); got != tt.want {
				t.Errorf("retryAfterSeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}
