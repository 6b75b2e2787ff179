// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

// Package seed reconciles the configured admin account at startup.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/reelnotes/internal/auth"
	"github.com/tomtom215/reelnotes/internal/database"
	"github.com/tomtom215/reelnotes/internal/logging"
	"github.com/tomtom215/reelnotes/internal/models"
)

// Outcome describes what EnsureAdmin did.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeSkipped   Outcome = "skipped"
)

// AdminStore is the subset of the document store used for seeding.
type AdminStore interface {
	GetAdmin(ctx context.Context, email string) (*models.AdminCredential, error)
	UpsertAdmin(ctx context.Context, cred *models.AdminCredential) (bool, error)
}

// Seeder creates or updates the admin credential.
type Seeder struct {
	store AdminStore
	hash  func(password string) (string, error)
}

// New creates a Seeder hashing with auth.HashPassword.
func New(store AdminStore) *Seeder {
	return &Seeder{store: store, hash: auth.HashPassword}
}

// EnsureAdmin makes sure an admin with email exists and accepts password.
// Running it repeatedly with the same input leaves the stored credential
// untouched; the hash is only rewritten when password no longer verifies.
// Empty email or password skips seeding.
func (s *Seeder) EnsureAdmin(ctx context.Context, email, password string) (Outcome, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		logging.Warn().Msg("Admin email or password not configured, skipping admin seed")
		return OutcomeSkipped, nil
	}

	existing, err := s.store.GetAdmin(ctx, email)
	switch {
	case err == nil:
		if auth.VerifyPassword(existing.PasswordHash, password) {
			logging.Debug().Str("email", email).Msg("Admin credential up to date")
			return OutcomeUnchanged, nil
		}
	case errors.Is(err, database.ErrNotFound):
	default:
		return "", fmt.Errorf("load admin %s: %w", email, err)
	}

	hash, err := s.hash(password)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}

	created, err := s.store.UpsertAdmin(ctx, &models.AdminCredential{Email: email, PasswordHash: hash})
	if err != nil {
		return "", err
	}

	outcome := OutcomeUpdated
	if created {
		outcome = OutcomeCreated
	}
	logging.Info().Str("email", email).Str("outcome", string(outcome)).Msg("Admin credential reconciled")
	return outcome, nil
}
