// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/reelnotes/internal/logging"
	"github.com/tomtom215/reelnotes/internal/storage"
)

// ListBlogPosts returns every post, newest first.
//
// @Summary List blog posts
// @Tags Blog
// @Produce json
// @Success 200 {array} models.BlogPost
// @Failure 500 {object} models.ErrorResponse
// @Router /blog [get]
func (h *Handler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.db.ListBlogPosts(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// GetBlogPost returns a single post.
//
// @Summary Get blog post
// @Tags Blog
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} models.ErrorResponse
// @Router /blog/{id} [get]
func (h *Handler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.db.GetBlogPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, r, err, msgPostNotFound)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// CreateBlogPost adds a post.
//
// @Summary Create blog post
// @Description content must be at least 200 characters. author defaults to "Reelnotes Team".
// @Tags Blog
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param content formData string true "Body, at least 200 characters"
// @Param excerpt formData string true "Excerpt"
// @Param author formData string false "Author"
// @Param coverImage formData file false "Cover image, at most 5MB"
// @Success 201 {object} models.BlogPost
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Failure 415 {object} models.ErrorResponse
// @Router /blog [post]
func (h *Handler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	in, err := h.readBlogInput(w, r)
	if err != nil {
		h.respondStoreError(w, r, err, "")
		return
	}
	defer in.cover.Close()

	post, verr := in.toPost()
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	var stored string
	if in.cover != nil {
		stored, err = h.saveUpload(in.cover, storage.PrefixBlog)
		if err != nil {
			h.respondStoreError(w, r, err, "")
			return
		}
		post.CoverImage = stored
	}

	created, err := h.db.CreateBlogPost(r.Context(), post)
	if err != nil {
		h.discardUpload(r, stored)
		h.respondStoreError(w, r, err, "")
		return
	}

	logging.Ctx(r.Context()).Info().Str("post_id", created.ID).Msg("Blog post created")
	respondJSON(w, http.StatusCreated, created)
}

// UpdateBlogPost applies a partial update with the same file ordering as
// movies.
//
// @Summary Update blog post
// @Tags Blog
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post id"
// @Param coverImage formData file false "Replacement cover image"
// @Success 200 {object} models.BlogPost
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blog/{id} [put]
func (h *Handler) UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	in, err := h.readBlogInput(w, r)
	if err != nil {
		h.respondStoreError(w, r, err, "")
		return
	}
	defer in.cover.Close()

	upd, verr := in.toUpdate()
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	if in.cover != nil || namesStoredFile(upd.CoverImage) {
		current, err := h.db.GetBlogPost(r.Context(), id)
		if err != nil {
			h.respondStoreError(w, r, err, msgPostNotFound)
			return
		}
		if verr := keepOwnImage("coverImage", &upd.CoverImage, current.CoverImage); verr != nil {
			respondValidationError(w, r, verr)
			return
		}
	}

	var stored string
	if in.cover != nil {
		stored, err = h.saveUpload(in.cover, storage.PrefixBlog)
		if err != nil {
			h.respondStoreError(w, r, err, "")
			return
		}
		upd.CoverImage = &stored
	}

	updated, previous, err := h.db.UpdateBlogPost(r.Context(), id, upd)
	if err != nil {
		h.discardUpload(r, stored)
		h.respondStoreError(w, r, err, msgPostNotFound)
		return
	}
	h.releaseImage(r, previous.CoverImage, updated.CoverImage)

	logging.Ctx(r.Context()).Info().Str("post_id", id).Msg("Blog post updated")
	respondJSON(w, http.StatusOK, updated)
}

// DeleteBlogPost removes a post and then its local cover image.
//
// @Summary Delete blog post
// @Tags Blog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post id"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blog/{id} [delete]
func (h *Handler) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.db.DeleteBlogPost(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, msgPostNotFound)
		return
	}
	h.releaseImage(r, deleted.CoverImage, "")

	logging.Ctx(r.Context()).Info().Str("post_id", id).Msg("Blog post deleted")
	respondMessage(w, http.StatusOK, "Post deleted successfully")
}
