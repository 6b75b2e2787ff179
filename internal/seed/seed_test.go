// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/reelnotes/internal/auth"
	"github.com/tomtom215/reelnotes/internal/database"
	"github.com/tomtom215/reelnotes/internal/models"
)

func setupSeeder(t *testing.T) (*Seeder, *database.DB) {
	t.Helper()
	bdb, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	db := database.NewWithBadger(bdb)
	t.Cleanup(func() { _ = db.Close() })

	s := New(db)
	s.hash = func(pw string) (string, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		return string(h), err
	}
	return s, db
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	s, db := setupSeeder(t)
	ctx := context.Background()

	outcome, err := s.EnsureAdmin(ctx, "Admin@Example.com", "first-password-123")
	if err != nil || outcome != OutcomeCreated {
		t.Fatalf("first run = %v, %v; want created", outcome, err)
	}
	first, err := db.GetAdmin(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("GetAdmin: %v", err)
	}

	for i := 0; i < 3; i++ {
		outcome, err = s.EnsureAdmin(ctx, "admin@example.com", "first-password-123")
		if err != nil || outcome != OutcomeUnchanged {
			t.Fatalf("repeat run %d = %v, %v; want unchanged", i, outcome, err)
		}
	}
	again, _ := db.GetAdmin(ctx, "admin@example.com")
	if again.PasswordHash != first.PasswordHash || !again.UpdatedAt.Equal(first.UpdatedAt) {
		t.Error("repeat run rewrote the credential")
	}

	outcome, err = s.EnsureAdmin(ctx, "admin@example.com", "second-password-456")
	if err != nil || outcome != OutcomeUpdated {
		t.Fatalf("password change = %v, %v; want updated", outcome, err)
	}
	updated, _ := db.GetAdmin(ctx, "admin@example.com")
	if !auth.VerifyPassword(updated.PasswordHash, "second-password-456") {
		t.Error("new password does not verify")
	}
	if auth.VerifyPassword(updated.PasswordHash, "first-password-123") {
		t.Error("old password still verifies")
	}
	if !updated.CreatedAt.Equal(first.CreatedAt) {
		t.Error("CreatedAt changed on update")
	}
}

func TestEnsureAdmin_Skipped(t *testing.T) {
	s, db := setupSeeder(t)
	ctx := context.Background()

	for _, tc := range []struct{ email, password string }{
		{"", "password"},
		{"admin@example.com", ""},
		{"   ", "password"},
	} {
		outcome, err := s.EnsureAdmin(ctx, tc.email, tc.password)
		if err != nil || outcome != OutcomeSkipped {
			t.Errorf("EnsureAdmin(%q, %q) = %v, %v; want skipped", tc.email, tc.password, outcome, err)
		}
	}
	if _, err := db.GetAdmin(ctx, "admin@example.com"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("admin created despite skip: %v", err)
	}
}

type failingStore struct{ err error }

func (f failingStore) GetAdmin(context.Context, string) (*models.AdminCredential, error) {
	return nil, f.err
}

func (f failingStore) UpsertAdmin(context.Context, *models.AdminCredential) (bool, error) {
	return false, f.err
}

func TestEnsureAdmin_StoreError(t *testing.T) {
	boom := errors.New("store unavailable")
	s := New(failingStore{err: boom})

	if _, err := s.EnsureAdmin(context.Background(), "admin@example.com", "pw"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
