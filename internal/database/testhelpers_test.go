// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package database

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/reelnotes/internal/models"
)

// testClock hands out strictly increasing timestamps.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// setupTestDB opens an in-memory store closed at test cleanup.
func setupTestDB(t *testing.T, opts ...Option) *DB {
	t.Helper()

	bdb, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open in-memory badger: %v", err)
	}
	opts = append([]Option{WithClock(newTestClock().Now)}, opts...)
	db := NewWithBadger(bdb, opts...)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return db
}

func longText(n int) string {
	return strings.Repeat("x", n)
}

func sampleMovie(title string, year int, genres ...string) *models.Movie {
	if len(genres) == 0 {
		genres = []string{"Drama"}
	}
	return &models.Movie{
		Title:       title,
		ReleaseDate: time.Date(year, 6, 15, 0, 0, 0, 0, time.UTC),
		Duration:    "2h 10m",
		Genre:       genres,
		Description: title + " " + longText(200),
		PosterImage: "/uploads/movie-1-1.jpg",
		TrailerLink: "https://example.com/trailer",
	}
}

func samplePost(title string) *models.BlogPost {
	return &models.BlogPost{
		Title:      title,
		CoverImage: "/uploads/blog-1-1.png",
		Content:    longText(200),
		Excerpt:    "A short teaser",
	}
}
