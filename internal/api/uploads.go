// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/reelnotes/internal/logging"
)

// PublicUploadsPath is the router mount point of stored images.
const PublicUploadsPath = "/uploads"

// saveUpload stores u under prefix and returns its public path.
func (h *Handler) saveUpload(u *upload, prefix string) (string, error) {
	return h.store.Save(u.file, u.filename, u.contentType, prefix)
}

// discardUpload removes a file stored for a write that did not happen.
func (h *Handler) discardUpload(r *http.Request, path string) {
	if path == "" {
		return
	}
	if err := h.store.Delete(path); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("file", path).Msg("Failed to remove orphaned upload")
	}
}

// releaseImage removes the file behind old once a document no longer
// references it. External URLs are left alone by the store.
func (h *Handler) releaseImage(r *http.Request, old, current string) {
	if old == "" || old == current {
		return
	}
	if err := h.store.Delete(old); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("file", old).Msg("Failed to remove replaced image")
	}
}

// serveUploads serves stored images read-only. Directory listings are
// refused.
func (h *Handler) serveUploads() http.Handler {
	files := http.StripPrefix(PublicUploadsPath, http.FileServer(h.store.FileSystem()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(w, r)
	})
}
