// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelnotes/internal/models"
	"github.com/tomtom215/reelnotes/internal/storage"
	"github.com/tomtom215/reelnotes/internal/validation"
)

const (
	// multipartMemory is the part of a multipart body kept in memory.
	multipartMemory = 1 << 20

	// formOverhead is the room left above the upload limit for text fields.
	formOverhead = 1 << 20

	// msgExternalImage follows the field name when an image string names
	// a stored upload.
	msgExternalImage = " must be an uploaded file or an external URL"

	// pendingUpload stands in for an image path during validation when the
	// image arrives as a file that is not stored yet.
	pendingUpload = storage.PublicPrefix + "pending"
)

// upload is an image file part of a multipart request.
type upload struct {
	file        multipart.File
	filename    string
	contentType string
}

func (u *upload) Close() {
	if u != nil && u.file != nil {
		_ = u.file.Close()
	}
}

// genreList accepts a JSON array of strings or a single string.
type genreList []string

func (g *genreList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*g = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("genre must be a string or a list of strings")
	}
	*g = genreList{s}
	return nil
}

// movieInput is a movie create or update request. Nil fields were not sent.
type movieInput struct {
	Title       *string    `json:"title"`
	ReleaseDate *string    `json:"releaseDate"`
	Duration    *string    `json:"duration"`
	Genre       *genreList `json:"genre"`
	Description *string    `json:"description"`
	PosterImage *string    `json:"posterImage"`
	TrailerLink *string    `json:"trailerLink"`

	poster *upload
}

// blogInput is a blog post create or update request.
type blogInput struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Excerpt    *string `json:"excerpt"`
	Author     *string `json:"author"`
	CoverImage *string `json:"coverImage"`

	cover *upload
}

// parseMultipart reads a bounded multipart body. Exceeding the bound
// surfaces as *http.MaxBytesError.
func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) (*multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.store.MaxBytes()+formOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	return r.MultipartForm, nil
}

// formValue returns the first value of key, or nil when it was not sent.
func formValue(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// formFile opens the first file part named key, or returns nil.
func formFile(form *multipart.Form, key string) (*upload, error) {
	headers := form.File[key]
	if len(headers) == 0 {
		return nil, nil
	}
	fh := headers[0]
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", key, err)
	}
	return &upload{
		file:        f,
		filename:    fh.Filename,
		contentType: fh.Header.Get("Content-Type"),
	}, nil
}

// readMovieInput decodes a multipart or JSON movie request. The caller must
// close in.poster.
func (h *Handler) readMovieInput(w http.ResponseWriter, r *http.Request) (*movieInput, error) {
	in := &movieInput{}
	if !isMultipart(r) {
		if err := decodeJSON(w, r, in); err != nil {
			return nil, err
		}
		return in, nil
	}

	form, err := h.parseMultipart(w, r)
	if err != nil {
		return nil, err
	}
	in.Title = formValue(form, "title")
	in.ReleaseDate = formValue(form, "releaseDate")
	in.Duration = formValue(form, "duration")
	in.Description = formValue(form, "description")
	in.PosterImage = formValue(form, "posterImage")
	in.TrailerLink = formValue(form, "trailerLink")
	if genres, ok := form.Value["genre"]; ok {
		g := genreList(genres)
		in.Genre = &g
	}

	in.poster, err = formFile(form, "posterImage")
	if err != nil {
		return nil, err
	}
	return in, nil
}

// readBlogInput decodes a multipart or JSON blog request. The caller must
// close in.cover.
func (h *Handler) readBlogInput(w http.ResponseWriter, r *http.Request) (*blogInput, error) {
	in := &blogInput{}
	if !isMultipart(r) {
		if err := decodeJSON(w, r, in); err != nil {
			return nil, err
		}
		return in, nil
	}

	form, err := h.parseMultipart(w, r)
	if err != nil {
		return nil, err
	}
	in.Title = formValue(form, "title")
	in.Content = formValue(form, "content")
	in.Excerpt = formValue(form, "excerpt")
	in.Author = formValue(form, "author")
	in.CoverImage = formValue(form, "coverImage")

	in.cover, err = formFile(form, "coverImage")
	if err != nil {
		return nil, err
	}
	return in, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// present treats blank strings as absent, so forms that resend every field
// only change what was filled in.
func present(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// externalImage rejects an image string that names a stored upload. Stored
// files belong to the document they were uploaded for.
func externalImage(field string, s *string) *validation.RequestValidationError {
	if namesStoredFile(s) {
		return validation.NewFieldError(field, field+msgExternalImage)
	}
	return nil
}

// keepOwnImage clears a requested image string that names a stored upload.
// The document's own current file is accepted and left as is; any other
// stored file is rejected.
func keepOwnImage(field string, requested **string, current string) *validation.RequestValidationError {
	if !namesStoredFile(*requested) {
		return nil
	}
	if strings.TrimSpace(**requested) != current {
		return validation.NewFieldError(field, field+msgExternalImage)
	}
	*requested = nil
	return nil
}

// namesStoredFile reports whether s is a sent image string under /uploads/.
func namesStoredFile(s *string) bool {
	return s != nil && storage.IsLocal(strings.TrimSpace(*s))
}

func parseReleaseDate(s string) (time.Time, *validation.RequestValidationError) {
	d, err := models.ParseReleaseDate(s)
	if err != nil {
		return time.Time{}, validation.NewFieldError("releaseDate", "releaseDate must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

// toMovie builds a new movie, checking every required field.
func (in *movieInput) toMovie() (*models.Movie, *validation.RequestValidationError) {
	m := &models.Movie{
		Title:       strings.TrimSpace(deref(in.Title)),
		Duration:    deref(in.Duration),
		Description: deref(in.Description),
		PosterImage: deref(in.PosterImage),
		TrailerLink: deref(in.TrailerLink),
	}
	if in.Genre != nil {
		m.Genre = models.NormalizeGenres(*in.Genre)
	}
	if in.poster != nil {
		m.PosterImage = pendingUpload
	} else if verr := externalImage("posterImage", in.PosterImage); verr != nil {
		return nil, verr
	}
	if s := present(in.ReleaseDate); s != nil {
		d, verr := parseReleaseDate(*s)
		if verr != nil {
			return nil, verr
		}
		m.ReleaseDate = d
	}

	if verr := validation.ValidateStruct(m); verr != nil {
		return nil, verr
	}
	return m, nil
}

// toUpdate builds a partial update from the fields that were sent.
func (in *movieInput) toUpdate() (*models.MovieUpdate, *validation.RequestValidationError) {
	upd := &models.MovieUpdate{
		Title:       present(in.Title),
		Duration:    present(in.Duration),
		Description: present(in.Description),
		PosterImage: present(in.PosterImage),
		TrailerLink: present(in.TrailerLink),
	}
	if in.Genre != nil {
		if g := models.NormalizeGenres(*in.Genre); len(g) > 0 {
			upd.Genre = &g
		}
	}
	if s := present(in.ReleaseDate); s != nil {
		d, verr := parseReleaseDate(*s)
		if verr != nil {
			return nil, verr
		}
		upd.ReleaseDate = &d
	}
	if in.poster != nil {
		// The uploaded file replaces any posterImage string.
		upd.PosterImage = nil
	}

	if verr := validation.ValidateStruct(upd); verr != nil {
		return nil, verr
	}
	return upd, nil
}

// toPost builds a new blog post, checking every required field.
func (in *blogInput) toPost() (*models.BlogPost, *validation.RequestValidationError) {
	p := &models.BlogPost{
		Title:      strings.TrimSpace(deref(in.Title)),
		Content:    deref(in.Content),
		Excerpt:    deref(in.Excerpt),
		Author:     models.AuthorOrDefault(deref(in.Author)),
		CoverImage: deref(in.CoverImage),
	}
	if in.cover != nil {
		p.CoverImage = pendingUpload
	} else if verr := externalImage("coverImage", in.CoverImage); verr != nil {
		return nil, verr
	}

	if verr := validation.ValidateStruct(p); verr != nil {
		return nil, verr
	}
	return p, nil
}

// toUpdate builds a partial blog update from the fields that were sent.
func (in *blogInput) toUpdate() (*models.BlogPostUpdate, *validation.RequestValidationError) {
	upd := &models.BlogPostUpdate{
		Title:      present(in.Title),
		Content:    present(in.Content),
		Excerpt:    present(in.Excerpt),
		Author:     present(in.Author),
		CoverImage: present(in.CoverImage),
	}
	if in.cover != nil {
		upd.CoverImage = nil
	}

	if verr := validation.ValidateStruct(upd); verr != nil {
		return nil, verr
	}
	return upd, nil
}
