// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package database

import (
	"context"
	"testing"

	"github.com/tomtom215/reelnotes/internal/models"
)

func TestContactMessages(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.CreateContactMessage(ctx, &models.ContactRequest{Name: "Sam", Email: "", Message: "hi"}); !IsValidationError(err) {
		t.Errorf("missing email err = %v, want validation error", err)
	}

	first, err := db.CreateContactMessage(ctx, &models.ContactRequest{Name: "Sam", Email: "sam@example.com", Message: "Loved the review"})
	if err != nil {
		t.Fatalf("CreateContactMessage: %v", err)
	}
	second, err := db.CreateContactMessage(ctx, &models.ContactRequest{Name: " Alex ", Email: "alex@example.com", Message: "Typo in post"})
	if err != nil {
		t.Fatalf("CreateContactMessage: %v", err)
	}
	if second.Name != "Alex" {
		t.Errorf("Name = %q, want trimmed", second.Name)
	}

	msgs, err := db.ListContactMessages(ctx)
	if err != nil {
		t.Fatalf("ListContactMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].ID != second.ID || msgs[1].ID != first.ID {
		t.Errorf("messages not newest first: %+v", msgs)
	}
}
