// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package database

import (
	"context"
	"fmt"
	"io"
)

// restorePendingWrites bounds the batches Badger keeps in flight on Load.
const restorePendingWrites = 256

// Backup streams a full snapshot of every document to w and returns the
// store version it covers.
func (d *DB) Backup(ctx context.Context, w io.Writer) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if d.db.IsClosed() {
		return 0, ErrClosed
	}
	version, err := d.db.Backup(w, 0)
	if err != nil {
		return 0, fmt.Errorf("backup: %w", err)
	}
	return version, nil
}

// Restore loads a snapshot written by Backup. Keys in the snapshot replace
// existing keys; keys absent from it are left alone.
func (d *DB) Restore(ctx context.Context, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.db.IsClosed() {
		return ErrClosed
	}
	if err := d.db.Load(r, restorePendingWrites); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}
