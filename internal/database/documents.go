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

	"github.com/avast/retry-go/v4"
	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/reelnotes/internal/metrics"
	"github.com/tomtom215/reelnotes/internal/validation"
)

// Collection key prefixes.
const (
	movieKeyPrefix   = "movie:"
	blogKeyPrefix    = "blog:"
	contactKeyPrefix = "contact:"
	adminKeyPrefix   = "admin:"
)

// Collection names used in metric labels.
const (
	collMovies   = "movies"
	collBlog     = "blog"
	collContacts = "contacts"
	collAdmins   = "admins"
)

const (
	defaultMaxAttempts = 10
	retryBaseDelay     = 2 * time.Millisecond
	retryMaxJitter     = 5 * time.Millisecond
	retryMaxDelay      = 250 * time.Millisecond
)

// observe records the duration and outcome of a store operation. Use it as
//
//	defer d.observe("get", collMovies, time.Now(), &err)
func (d *DB) observe(operation, collection string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	metrics.RecordStoreOperation(operation, collection, time.Since(start), err)
}

// validateDoc runs struct tag validation on a document about to be written.
func validateDoc(doc interface{}) error {
	if verr := validation.ValidateStruct(doc); verr != nil {
		return verr
	}
	return nil
}

// getDoc loads and decodes the document at key inside txn.
func getDoc(txn *badger.Txn, key string, out interface{}) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

// putDoc encodes doc and stores it at key inside txn.
func putDoc(txn *badger.Txn, key string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := txn.Set([]byte(key), data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// deleteDoc removes key, failing with ErrNotFound when it is absent.
func deleteDoc(txn *badger.Txn, key string) error {
	if _, err := txn.Get([]byte(key)); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := txn.Delete([]byte(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// scanPrefix decodes every document under prefix in key order.
func scanPrefix[T any](ctx context.Context, d *DB, prefix string) ([]T, error) {
	var docs []T
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc T
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// updateWithRetry runs fn in an update transaction, retrying when the commit
// loses a write conflict. onRetry may be nil.
func (d *DB) updateWithRetry(ctx context.Context, fn func(txn *badger.Txn) error, onRetry func(n uint, err error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(d.maxAttempts),
		retry.Delay(retryBaseDelay),
		retry.MaxJitter(retryMaxJitter),
		retry.MaxDelay(retryMaxDelay),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, badger.ErrConflict)
		}),
		retry.LastErrorOnly(true),
	}
	if onRetry != nil {
		opts = append(opts, retry.OnRetry(onRetry))
	}

	return retry.Do(func() error {
		return d.db.Update(fn)
	}, opts...)
}
