// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"time"

	"github.com/tomtom215/reelnotes/internal/auth"
	"github.com/tomtom215/reelnotes/internal/cache"
	"github.com/tomtom215/reelnotes/internal/database"
	"github.com/tomtom215/reelnotes/internal/models"
	"github.com/tomtom215/reelnotes/internal/storage"
)

// facetsKey is the single entry of the facets cache.
const facetsKey = "all"

// Handler holds the dependencies of the API handlers.
//
// Handler methods are split by resource:
//   - handlers_movies.go: movie CRUD, rating and facets
//   - handlers_blog.go: blog post CRUD
//   - handlers_contact.go: contact form
//   - handlers_auth.go: login and token verification
//   - handlers_health.go: health
type Handler struct {
	db        *database.DB
	store     *storage.Store
	authSvc   *auth.Service
	jwt       *auth.JWTManager
	facets    *cache.TTL[*models.MovieFacets]
	startTime time.Time
	version   string

	// cookieSecure marks the login cookie Secure.
	cookieSecure bool
}

// HandlerConfig carries the dependencies of NewHandler.
type HandlerConfig struct {
	DB           *database.DB
	Store        *storage.Store
	Auth         *auth.Service
	JWT          *auth.JWTManager
	FacetsTTL    time.Duration
	Version      string
	CookieSecure bool
}

// NewHandler creates the API handlers.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		db:           cfg.DB,
		store:        cfg.Store,
		authSvc:      cfg.Auth,
		jwt:          cfg.JWT,
		facets:       cache.New[*models.MovieFacets]("movie_facets", cfg.FacetsTTL),
		startTime:    time.Now(),
		version:      cfg.Version,
		cookieSecure: cfg.CookieSecure,
	}
}

// FacetsCache exposes the facets cache for periodic cleanup.
func (h *Handler) FacetsCache() *cache.TTL[*models.MovieFacets] {
	return h.facets
}

// invalidateMovieCaches drops cached data derived from the movie catalog.
func (h *Handler) invalidateMovieCaches() {
	h.facets.Clear()
}
