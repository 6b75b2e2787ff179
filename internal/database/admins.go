// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/reelnotes/internal/models"
)

func adminKey(email string) string {
	return adminKeyPrefix + models.NormalizeEmail(email)
}

// GetAdmin returns the credential for email. Lookup is case-insensitive.
func (d *DB) GetAdmin(ctx context.Context, email string) (_ *models.AdminCredential, err error) {
	defer d.observe("get", collAdmins, time.Now(), &err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cred models.AdminCredential
	err = d.db.View(func(txn *badger.Txn) error {
		return getDoc(txn, adminKey(email), &cred)
	})
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// UpsertAdmin creates or replaces the credential keyed by its email. The
// original CreatedAt is preserved on replace. It reports whether a new
// credential was created.
func (d *DB) UpsertAdmin(ctx context.Context, cred *models.AdminCredential) (created bool, err error) {
	defer d.observe("upsert", collAdmins, time.Now(), &err)

	email := models.NormalizeEmail(cred.Email)
	if email == "" || cred.PasswordHash == "" {
		return false, errors.New("upsert admin: email and password hash are required")
	}

	err = d.updateWithRetry(ctx, func(txn *badger.Txn) error {
		now := d.timestamp()
		doc := models.AdminCredential{
			Email:        email,
			PasswordHash: cred.PasswordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		var existing models.AdminCredential
		switch err := getDoc(txn, adminKey(email), &existing); {
		case err == nil:
			doc.CreatedAt = existing.CreatedAt
			created = false
		case errors.Is(err, ErrNotFound):
			created = true
		default:
			return err
		}
		return putDoc(txn, adminKey(email), &doc)
	}, nil)
	if err != nil {
		return false, fmt.Errorf("upsert admin: %w", err)
	}
	return created, nil
}
