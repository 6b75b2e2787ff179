// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package database

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/tomtom215/reelnotes/internal/models"
)

// CreateContactMessage persists a contact form submission. Messages are
// never modified after creation.
func (d *DB) CreateContactMessage(ctx context.Context, req *models.ContactRequest) (_ *models.ContactMessage, err error) {
	defer d.observe("create", collContacts, time.Now(), &err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg := models.ContactMessage{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Message:   req.Message,
		CreatedAt: d.timestamp(),
	}
	if err := validateDoc(&msg); err != nil {
		return nil, err
	}

	err = d.db.Update(func(txn *badger.Txn) error {
		return putDoc(txn, contactKeyPrefix+msg.ID, &msg)
	})
	if err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return &msg, nil
}

// ListContactMessages returns every message, newest first.
func (d *DB) ListContactMessages(ctx context.Context) (_ []models.ContactMessage, err error) {
	defer d.observe("list", collContacts, time.Now(), &err)

	msgs, err := scanPrefix[models.ContactMessage](ctx, d, contactKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	slices.SortStableFunc(msgs, func(a, b models.ContactMessage) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if msgs == nil {
		msgs = []models.ContactMessage{}
	}
	return msgs, nil
}
