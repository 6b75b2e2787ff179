// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

// Package models defines the documents persisted by Reelnotes and the
// request/response shapes exchanged over the HTTP API.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Movie is a catalog entry. Rating is the running mean of all submitted
// ratings and TotalRatings the number of ratings folded into it.
type Movie struct {
	ID           string    `json:"id"`
	Title        string    `json:"title" validate:"notblank"`
	ReleaseDate  time.Time `json:"releaseDate" validate:"required"`
	Duration     string    `json:"duration" validate:"notblank"`
	Genre        []string  `json:"genre" validate:"min=1,dive,notblank"`
	Description  string    `json:"description" validate:"min=200"`
	PosterImage  string    `json:"posterImage" validate:"notblank"`
	TrailerLink  string    `json:"trailerLink" validate:"notblank"`
	Rating       float64   `json:"rating" validate:"gte=0,lte=10"`
	TotalRatings int       `json:"totalRatings" validate:"gte=0"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ReleaseYear returns the UTC calendar year of the release date.
func (m *Movie) ReleaseYear() int {
	return m.ReleaseDate.UTC().Year()
}

// HasGenre reports whether genre is one of the movie's tags, ignoring case.
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.Genre {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// AddRating folds a rating into the running mean.
func (m *Movie) AddRating(rating int) {
	n := float64(m.TotalRatings)
	m.Rating = (m.Rating*n + float64(rating)) / (n + 1)
	m.TotalRatings++
}

// MovieUpdate carries a partial movie update. A nil field is left unchanged.
type MovieUpdate struct {
	Title       *string    `json:"title" validate:"omitempty,notblank"`
	ReleaseDate *time.Time `json:"releaseDate"`
	Duration    *string    `json:"duration" validate:"omitempty,notblank"`
	Genre       *[]string  `json:"genre" validate:"omitempty,min=1,dive,notblank"`
	Description *string    `json:"description" validate:"omitempty,min=200"`
	PosterImage *string    `json:"posterImage" validate:"omitempty,notblank"`
	TrailerLink *string    `json:"trailerLink" validate:"omitempty,notblank"`
}

// IsEmpty reports whether the update changes nothing.
func (u *MovieUpdate) IsEmpty() bool {
	return u.Title == nil && u.ReleaseDate == nil && u.Duration == nil && u.Genre == nil &&
		u.Description == nil && u.PosterImage == nil && u.TrailerLink == nil
}

// Apply copies every present field onto m and refreshes UpdatedAt.
func (u *MovieUpdate) Apply(m *Movie, now time.Time) {
	if u.Title != nil {
		m.Title = strings.TrimSpace(*u.Title)
	}
	if u.ReleaseDate != nil {
		m.ReleaseDate = *u.ReleaseDate
	}
	if u.Duration != nil {
		m.Duration = *u.Duration
	}
	if u.Genre != nil {
		m.Genre = append([]string(nil), (*u.Genre)...)
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.PosterImage != nil {
		m.PosterImage = *u.PosterImage
	}
	if u.TrailerLink != nil {
		m.TrailerLink = *u.TrailerLink
	}
	m.UpdatedAt = now
}

// Movie sort orders accepted by the list endpoint.
const (
	SortByCreatedAt = "createdAt"
	SortByRating    = "rating"
)

// MovieFilter selects movies for listing. Zero-valued fields do not filter.
type MovieFilter struct {
	Search string
	Genre  string
	Year   int
	Sort   string
}

// Matches reports whether m satisfies every set predicate.
func (f MovieFilter) Matches(m *Movie) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(m.Title), needle) &&
			!strings.Contains(strings.ToLower(m.Description), needle) {
			return false
		}
	}
	if f.Genre != "" && !m.HasGenre(f.Genre) {
		return false
	}
	if f.Year != 0 && m.ReleaseYear() != f.Year {
		return false
	}
	return true
}

// MovieFacets lists the distinct filter values present in the catalog.
type MovieFacets struct {
	Genres []string `json:"genres"`
	Years  []int    `json:"years"`
}

// RatingRangeMessage is reported when a rating falls outside 1..10.
const RatingRangeMessage = "Rating must be between 1 and 10"

// RatingRequest documents the body of a rating submission for the API docs.
// The handler decodes any JSON number and rejects values that are not whole
// numbers in 1..10.
type RatingRequest struct {
	Rating int `json:"rating" minimum:"1" maximum:"10" example:"8"`
}

// RatingResult is the aggregate returned after a rating is recorded.
type RatingResult struct {
	Rating       float64 `json:"rating"`
	TotalRatings int     `json:"totalRatings"`
}

// releaseDateLayouts are tried in order when parsing a release date.
var releaseDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseReleaseDate parses a YYYY-MM-DD or RFC3339 date and normalizes it to
// UTC midnight of that calendar day.
func ParseReleaseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range releaseDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			y, mo, d := t.Date()
			return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid release date %q: expected YYYY-MM-DD", s)
}

// NormalizeGenres turns raw genre form values into a clean tag list.
// A single value containing commas is split; blanks are dropped.
func NormalizeGenres(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
