// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

/*
Package database is the Reelnotes document store.

Documents are JSON-encoded with goccy/go-json and kept in an embedded
BadgerDB under one key prefix per collection:

	movie:<id>     models.Movie
	blog:<id>      models.BlogPost
	contact:<id>   models.ContactMessage
	admin:<email>  models.AdminCredential

Every document is validated against its struct tags before it is written, so
an invalid document never reaches disk. Validation failures are returned as
*validation.RequestValidationError; a missing document yields ErrNotFound.

# Concurrency

Badger provides snapshot isolation with optimistic conflict detection. All
read-modify-write operations (movie and post updates, ratings) run inside a
single update transaction and are retried when the commit fails with
badger.ErrConflict, so concurrent raters never lose an update:

	result, err := db.RateMovie(ctx, id, 8)

# Maintenance

RunGC reclaims value log space and is driven periodically by the supervisor.
It is a no-op for in-memory stores.
*/
package database
