// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/reelnotes/internal/logging"
	"github.com/tomtom215/reelnotes/internal/models"
	"github.com/tomtom215/reelnotes/internal/storage"
	"github.com/tomtom215/reelnotes/internal/validation"
)

// ListMovies returns movies matching the query filters.
//
// @Summary List movies
// @Description Case-insensitive search over title and description, exact genre membership and release year. Filters combine with AND.
// @Tags Movies
// @Produce json
// @Param search query string false "Substring of title or description"
// @Param genre query string false "Genre"
// @Param year query int false "Release year"
// @Param sort query string false "createdAt (default) or rating" Enums(createdAt, rating)
// @Success 200 {array} models.Movie
// @Failure 400 {object} models.ErrorResponse "Year is not a positive number"
// @Failure 500 {object} models.ErrorResponse
// @Router /movies [get]
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.MovieFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Genre:  strings.TrimSpace(q.Get("genre")),
		Sort:   q.Get("sort"),
	}
	if year := strings.TrimSpace(q.Get("year")); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil || y < 1 {
			h.respondStoreError(w, r, errInvalidYear, "")
			return
		}
		filter.Year = y
	}

	movies, err := h.db.ListMovies(r.Context(), filter)
	if err != nil {
		h.respondStoreError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, movies)
}

// MovieFacets returns the genres and years present in the catalog.
//
// @Summary Movie filter facets
// @Description Distinct genres (alphabetical) and release years (newest first) for filter dropdowns.
// @Tags Movies
// @Produce json
// @Success 200 {object} models.MovieFacets
// @Failure 500 {object} models.ErrorResponse
// @Router /movies/facets [get]
func (h *Handler) MovieFacets(w http.ResponseWriter, r *http.Request) {
	if facets, ok := h.facets.Get(facetsKey); ok {
		respondJSON(w, http.StatusOK, facets)
		return
	}

	gen := h.facets.Generation()
	facets, err := h.db.MovieFacets(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err, "")
		return
	}
	h.facets.SetIfGeneration(facetsKey, facets, gen)
	respondJSON(w, http.StatusOK, facets)
}

// GetMovie returns a single movie.
//
// @Summary Get movie
// @Tags Movies
// @Produce json
// @Param id path string true "Movie id"
// @Success 200 {object} models.Movie
// @Failure 404 {object} models.ErrorResponse
// @Router /movies/{id} [get]
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.db.GetMovie(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, r, err, msgMovieNotFound)
		return
	}
	respondJSON(w, http.StatusOK, movie)
}

// CreateMovie adds a movie. The poster is either a posterImage file part
// or a posterImage string.
//
// @Summary Create movie
// @Description Accepts multipart/form-data (with an optional posterImage file) or JSON. genre may repeat or be comma separated.
// @Tags Movies
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param releaseDate formData string true "Release date (YYYY-MM-DD)"
// @Param duration formData string true "Duration, e.g. 2h 30m"
// @Param genre formData []string true "Genres" collectionFormat(multi)
// @Param description formData string true "At least 200 characters"
// @Param trailerLink formData string true "Trailer URL"
// @Param posterImage formData file false "Poster image, at most 5MB"
// @Success 201 {object} models.Movie
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Failure 415 {object} models.ErrorResponse
// @Router /movies [post]
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	in, err := h.readMovieInput(w, r)
	if err != nil {
		h.respondStoreError(w, r, err, "")
		return
	}
	defer in.poster.Close()

	movie, verr := in.toMovie()
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	var stored string
	if in.poster != nil {
		stored, err = h.saveUpload(in.poster, storage.PrefixMovie)
		if err != nil {
			h.respondStoreError(w, r, err, "")
			return
		}
		movie.PosterImage = stored
	}

	created, err := h.db.CreateMovie(r.Context(), movie)
	if err != nil {
		h.discardUpload(r, stored)
		h.respondStoreError(w, r, err, "")
		return
	}
	h.invalidateMovieCaches()

	logging.Ctx(r.Context()).Info().Str("movie_id", created.ID).Str("title", created.Title).Msg("Movie created")
	respondJSON(w, http.StatusCreated, created)
}

// UpdateMovie applies a partial update. A new poster file is stored first,
// then the document is updated, then the old local poster is removed.
//
// @Summary Update movie
// @Description Only fields that are sent and non-blank are changed.
// @Tags Movies
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie id"
// @Param posterImage formData file false "Replacement poster image"
// @Success 200 {object} models.Movie
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /movies/{id} [put]
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	in, err := h.readMovieInput(w, r)
	if err != nil {
		h.respondStoreError(w, r, err, "")
		return
	}
	defer in.poster.Close()

	upd, verr := in.toUpdate()
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	// Fail fast before storing a file for a movie that does not exist, and
	// never let a movie adopt another document's stored poster.
	if in.poster != nil || namesStoredFile(upd.PosterImage) {
		current, err := h.db.GetMovie(r.Context(), id)
		if err != nil {
			h.respondStoreError(w, r, err, msgMovieNotFound)
			return
		}
		if verr := keepOwnImage("posterImage", &upd.PosterImage, current.PosterImage); verr != nil {
			respondValidationError(w, r, verr)
			return
		}
	}

	var stored string
	if in.poster != nil {
		stored, err = h.saveUpload(in.poster, storage.PrefixMovie)
		if err != nil {
			h.respondStoreError(w, r, err, "")
			return
		}
		upd.PosterImage = &stored
	}

	updated, previous, err := h.db.UpdateMovie(r.Context(), id, upd)
	if err != nil {
		h.discardUpload(r, stored)
		h.respondStoreError(w, r, err, msgMovieNotFound)
		return
	}
	h.releaseImage(r, previous.PosterImage, updated.PosterImage)
	h.invalidateMovieCaches()

	logging.Ctx(r.Context()).Info().Str("movie_id", id).Msg("Movie updated")
	respondJSON(w, http.StatusOK, updated)
}

// DeleteMovie removes a movie and then its local poster.
//
// @Summary Delete movie
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie id"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /movies/{id} [delete]
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.db.DeleteMovie(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, msgMovieNotFound)
		return
	}
	h.releaseImage(r, deleted.PosterImage, "")
	h.invalidateMovieCaches()

	logging.Ctx(r.Context()).Info().Str("movie_id", id).Msg("Movie deleted")
	respondMessage(w, http.StatusOK, "Movie deleted successfully")
}

// rateRequest accepts any JSON number so that fractions can be rejected
// with the range message rather than a decode error.
type rateRequest struct {
	Rating *float64 `json:"rating"`
}

// RateMovie folds a rating into the movie's running mean.
//
// @Summary Rate movie
// @Description Anonymous. Concurrent ratings are all counted.
// @Tags Movies
// @Accept json
// @Produce json
// @Param id path string true "Movie id"
// @Param body body models.RatingRequest true "Integer rating 1..10"
// @Success 200 {object} models.RatingResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /movies/{id}/rate [post]
func (h *Handler) RateMovie(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondStoreError(w, r, err, "")
		return
	}
	if req.Rating == nil || *req.Rating != math.Trunc(*req.Rating) || *req.Rating < 1 || *req.Rating > 10 {
		respondValidationError(w, r, validation.NewFieldError("rating", models.RatingRangeMessage))
		return
	}

	result, err := h.db.RateMovie(r.Context(), chi.URLParam(r, "id"), int(*req.Rating))
	if err != nil {
		h.respondStoreError(w, r, err, msgMovieNotFound)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
