// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package database

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/tomtom215/reelnotes/internal/metrics"
	"github.com/tomtom215/reelnotes/internal/models"
	"github.com/tomtom215/reelnotes/internal/validation"
)

func movieKey(id string) string {
	return movieKeyPrefix + id
}

// CreateMovie assigns an ID and timestamps, resets the rating aggregate and
// stores m. The stored document is returned.
func (d *DB) CreateMovie(ctx context.Context, m *models.Movie) (_ *models.Movie, err error) {
	defer d.observe("create", collMovies, time.Now(), &err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := *m
	now := d.timestamp()
	doc.ID = uuid.NewString()
	doc.Title = strings.TrimSpace(doc.Title)
	doc.Genre = append([]string(nil), m.Genre...)
	doc.Rating = 0
	doc.TotalRatings = 0
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if err := validateDoc(&doc); err != nil {
		return nil, err
	}

	err = d.db.Update(func(txn *badger.Txn) error {
		return putDoc(txn, movieKey(doc.ID), &doc)
	})
	if err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	return &doc, nil
}

// GetMovie returns the movie with the given id.
func (d *DB) GetMovie(ctx context.Context, id string) (_ *models.Movie, err error) {
	defer d.observe("get", collMovies, time.Now(), &err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var m models.Movie
	err = d.db.View(func(txn *badger.Txn) error {
		return getDoc(txn, movieKey(id), &m)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMovies returns the movies matching filter, ordered by filter.Sort.
// Unknown sort values fall back to newest first.
func (d *DB) ListMovies(ctx context.Context, filter models.MovieFilter) (_ []models.Movie, err error) {
	defer d.observe("list", collMovies, time.Now(), &err)

	all, err := scanPrefix[models.Movie](ctx, d, movieKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	movies := make([]models.Movie, 0, len(all))
	for i := range all {
		if filter.Matches(&all[i]) {
			movies = append(movies, all[i])
		}
	}

	if filter.Sort == models.SortByRating {
		slices.SortStableFunc(movies, func(a, b models.Movie) int {
			if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
				return c
			}
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	} else {
		slices.SortStableFunc(movies, func(a, b models.Movie) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return movies, nil
}

// UpdateMovie applies upd to the stored movie and returns the updated
// document together with the version it replaced.
func (d *DB) UpdateMovie(ctx context.Context, id string, upd *models.MovieUpdate) (updated, previous *models.Movie, err error) {
	defer d.observe("update", collMovies, time.Now(), &err)

	err = d.updateWithRetry(ctx, func(txn *badger.Txn) error {
		var cur models.Movie
		if err := getDoc(txn, movieKey(id), &cur); err != nil {
			return err
		}
		prev := cur
		prev.Genre = append([]string(nil), cur.Genre...)

		upd.Apply(&cur, d.timestamp())
		if err := validateDoc(&cur); err != nil {
			return err
		}
		if err := putDoc(txn, movieKey(id), &cur); err != nil {
			return err
		}
		updated, previous = &cur, &prev
		return nil
	}, nil)
	if err != nil {
		return nil, nil, err
	}
	return updated, previous, nil
}

// DeleteMovie removes the movie and returns the deleted document so the
// caller can release its poster.
func (d *DB) DeleteMovie(ctx context.Context, id string) (_ *models.Movie, err error) {
	defer d.observe("delete", collMovies, time.Now(), &err)

	var deleted models.Movie
	err = d.updateWithRetry(ctx, func(txn *badger.Txn) error {
		if err := getDoc(txn, movieKey(id), &deleted); err != nil {
			return err
		}
		return deleteDoc(txn, movieKey(id))
	}, nil)
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// RateMovie folds rating into the movie's running mean. The read and write
// happen in one transaction that is retried on conflict, so concurrent
// ratings are all counted. updatedAt is left untouched.
func (d *DB) RateMovie(ctx context.Context, id string, rating int) (_ *models.RatingResult, err error) {
	defer d.observe("rate", collMovies, time.Now(), &err)

	if rating < 1 || rating > 10 {
		return nil, validation.NewFieldError("rating", models.RatingRangeMessage)
	}

	var result models.RatingResult
	err = d.updateWithRetry(ctx, func(txn *badger.Txn) error {
		var m models.Movie
		if err := getDoc(txn, movieKey(id), &m); err != nil {
			return err
		}
		m.AddRating(rating)
		if err := putDoc(txn, movieKey(id), &m); err != nil {
			return err
		}
		result = models.RatingResult{Rating: m.Rating, TotalRatings: m.TotalRatings}
		return nil
	}, func(_ uint, _ error) {
		metrics.RatingConflictRetries.Inc()
	})
	if err != nil {
		return nil, err
	}

	metrics.RatingsSubmitted.Inc()
	return &result, nil
}

// MovieFacets returns the distinct genres (sorted case-insensitively, first
// spelling wins) and release years (newest first) across all movies.
func (d *DB) MovieFacets(ctx context.Context) (_ *models.MovieFacets, err error) {
	defer d.observe("facets", collMovies, time.Now(), &err)

	all, err := scanPrefix[models.Movie](ctx, d, movieKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("movie facets: %w", err)
	}

	// Oldest first so the earliest spelling of a genre is kept.
	slices.SortStableFunc(all, func(a, b models.Movie) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	genres := make(map[string]string)
	years := make(map[int]struct{})
	for i := range all {
		for _, g := range all[i].Genre {
			k := strings.ToLower(g)
			if _, ok := genres[k]; !ok {
				genres[k] = g
			}
		}
		years[all[i].ReleaseYear()] = struct{}{}
	}

	facets := &models.MovieFacets{
		Genres: make([]string, 0, len(genres)),
		Years:  make([]int, 0, len(years)),
	}
	for _, g := range genres {
		facets.Genres = append(facets.Genres, g)
	}
	slices.SortFunc(facets.Genres, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	for y := range years {
		facets.Years = append(facets.Years, y)
	}
	slices.SortFunc(facets.Years, func(a, b int) int { return cmp.Compare(b, a) })

	return facets, nil
}
