// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

// Package storage keeps uploaded poster and cover images.
//
// Files live flat in the uploads directory under generated names and are
// addressed by their public path, /uploads/<name>. Only images are accepted:
// the filename extension, the declared content type and the sniffed content
// must all agree that the upload is an image.
//
//	path, err := store.Save(file, header.Filename, header.Header.Get("Content-Type"), storage.PrefixMovie)
//	...
//	_ = store.Delete(oldPath) // no-op for external URLs
package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"

	"github.com/tomtom215/reelnotes/internal/config"
	"github.com/tomtom215/reelnotes/internal/logging"
	"github.com/tomtom215/reelnotes/internal/metrics"
)

// PublicPrefix is the URL path under which stored files are served.
const PublicPrefix = "/uploads/"

// Name prefixes for stored files.
const (
	PrefixMovie = "movie"
	PrefixBlog  = "blog"
)

// DefaultMaxBytes is the upload size limit when none is configured.
const DefaultMaxBytes int64 = 5 << 20

var (
	// ErrUnsupportedMediaType is returned when an upload is not an image.
	ErrUnsupportedMediaType = errors.New("only image files are allowed")

	// ErrPayloadTooLarge is returned when an upload exceeds the size limit.
	ErrPayloadTooLarge = errors.New("file exceeds the maximum upload size")

	// ErrInvalidPath is returned for paths that would escape the uploads directory.
	ErrInvalidPath = errors.New("invalid upload path")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
	".bmp":  true,
}

// Store saves and removes images in an uploads directory.
type Store struct {
	fs       afero.Fs
	maxBytes int64
	now      func() time.Time
}

// New creates a Store on fs, which must be rooted at the uploads directory.
func New(fs afero.Fs, maxBytes int64) *Store {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{fs: fs, maxBytes: maxBytes, now: time.Now}
}

// NewOnDisk creates the configured uploads directory if needed and returns
// a Store confined to it.
func NewOnDisk(cfg *config.StorageConfig) (*Store, error) {
	// 0750: owner rwx, group rx, other none
	if err := os.MkdirAll(cfg.UploadsDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", cfg.UploadsDir, err)
	}
	fs := afero.NewBasePathFs(afero.NewOsFs(), cfg.UploadsDir)
	return New(fs, cfg.MaxUploadBytes()), nil
}

// MaxBytes returns the per-file size limit.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save validates r as an image and writes it under a generated name built
// from prefix. It returns the public path of the stored file.
func (s *Store) Save(r io.Reader, filename, contentType, prefix string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		metrics.RecordUpload(metrics.UploadRejectedType, 0)
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedMediaType, ext)
	}
	if !isImageType(contentType) {
		metrics.RecordUpload(metrics.UploadRejectedType, 0)
		return "", fmt.Errorf("%w: content type %q", ErrUnsupportedMediaType, contentType)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		metrics.RecordUpload(metrics.UploadError, 0)
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		metrics.RecordUpload(metrics.UploadTooLarge, 0)
		return "", ErrPayloadTooLarge
	}

	detected := mimetype.Detect(data)
	if !isImageType(detected.String()) {
		metrics.RecordUpload(metrics.UploadRejectedType, 0)
		return "", fmt.Errorf("%w: detected %s", ErrUnsupportedMediaType, detected.String())
	}

	name := s.generateName(prefix, ext)
	if err := afero.WriteFile(s.fs, "/"+name, data, 0o640); err != nil {
		metrics.RecordUpload(metrics.UploadError, 0)
		return "", fmt.Errorf("write upload %s: %w", name, err)
	}

	metrics.RecordUpload(metrics.UploadStored, int64(len(data)))
	logging.Debug().
		Str("file", name).
		Str("mime", detected.String()).
		Int("bytes", len(data)).
		Msg("Upload stored")

	return PublicPrefix + name, nil
}

// Delete removes the file behind a public path. Paths outside /uploads/
// (external URLs) and files that no longer exist are ignored.
func (s *Store) Delete(publicPath string) error {
	if !IsLocal(publicPath) {
		return nil
	}
	name, err := localName(publicPath)
	if err != nil {
		return err
	}

	exists, err := afero.Exists(s.fs, name)
	if err != nil {
		return fmt.Errorf("stat %s: %w", name, err)
	}
	if !exists {
		return nil
	}
	if err := s.fs.Remove(name); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the file behind a public path is present.
func (s *Store) Exists(publicPath string) (bool, error) {
	if !IsLocal(publicPath) {
		return false, nil
	}
	name, err := localName(publicPath)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, name)
}

// FileSystem exposes the uploads directory for read-only HTTP serving.
func (s *Store) FileSystem() http.FileSystem {
	return afero.NewHttpFs(afero.NewReadOnlyFs(s.fs))
}

// IsLocal reports whether p refers to a file managed by the store.
func IsLocal(p string) bool {
	return strings.HasPrefix(p, PublicPrefix)
}

// localName maps a public path to its absolute path inside the store fs.
func localName(publicPath string) (string, error) {
	name := strings.TrimPrefix(publicPath, PublicPrefix)
	if name == "" || name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, publicPath)
	}
	return "/" + name, nil
}

func (s *Store) generateName(prefix, ext string) string {
	//nolint:gosec // uniqueness only, not a secret
	return fmt.Sprintf("%s-%d-%d%s", prefix, s.now().UnixMilli(), rand.IntN(1_000_000_000), ext)
}

func isImageType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
}
