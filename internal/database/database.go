// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/reelnotes/internal/config"
	"github.com/tomtom215/reelnotes/internal/logging"
)

// DB wraps the Badger handle and exposes the document collections.
type DB struct {
	db       *badger.DB
	inMemory bool

	// maxAttempts bounds conflict retries for read-modify-write operations.
	maxAttempts uint

	// now is the clock used for document timestamps.
	now func() time.Time
}

// Option customizes a DB.
type Option func(*DB)

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *DB) {
		d.now = now
	}
}

// WithMaxAttempts sets how many times a conflicting transaction is attempted.
func WithMaxAttempts(n uint) Option {
	return func(d *DB) {
		if n > 0 {
			d.maxAttempts = n
		}
	}
}

// New opens the Badger store described by cfg.
func New(cfg *config.DatabaseConfig, opts ...Option) (*DB, error) {
	var bopts badger.Options
	if cfg.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// 0750: owner rwx, group rx, other none
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", cfg.Path, err)
		}
		bopts = badger.DefaultOptions(cfg.Path)
		bopts.SyncWrites = cfg.SyncWrites
	}

	// Badger's own logger is too chatty for the process log.
	bopts.Logger = nil

	bdb, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", cfg.Path, err)
	}

	d := newDB(bdb, cfg.InMemory, opts...)

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("Document store opened")

	return d, nil
}

// NewWithBadger wraps an already opened Badger handle. The caller keeps
// ownership of the handle until Close is called on the returned DB.
func NewWithBadger(bdb *badger.DB, opts ...Option) *DB {
	return newDB(bdb, bdb.Opts().InMemory, opts...)
}

func newDB(bdb *badger.DB, inMemory bool, opts ...Option) *DB {
	d := &DB{
		db:          bdb,
		inMemory:    inMemory,
		maxAttempts: defaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Close flushes and closes the store.
func (d *DB) Close() error {
	if d == nil || d.db == nil || d.db.IsClosed() {
		return nil
	}
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}

// Ping verifies the store accepts reads.
func (d *DB) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.db.IsClosed() {
		return ErrClosed
	}
	return d.db.View(func(_ *badger.Txn) error { return nil })
}

// RunGC runs value log garbage collection until Badger reports there is
// nothing left to rewrite. It returns the number of rewritten files.
func (d *DB) RunGC(ctx context.Context, discardRatio float64) (int, error) {
	if d.inMemory {
		return 0, nil
	}

	rewritten := 0
	for {
		if err := ctx.Err(); err != nil {
			return rewritten, err
		}
		err := d.db.RunValueLogGC(discardRatio)
		switch {
		case err == nil:
			rewritten++
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrRejected):
			return rewritten, nil
		default:
			return rewritten, fmt.Errorf("value log gc: %w", err)
		}
	}
}

// timestamp returns the current time in UTC.
func (d *DB) timestamp() time.Time {
	return d.now().UTC()
}
