// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package backup

import (
	"context"
	"errors"
	"io"
	"time"
)

const (
	filePrefix    = "backup-"
	dataSuffix    = ".badger.gz"
	metaSuffix    = ".json"
	stampLayout   = "20060102T150405.000000000Z"
	tempSuffix    = ".tmp"
	filePerm      = 0o640
	directoryPerm = 0o750
)

var (
	// ErrNotFound is returned for an unknown backup id.
	ErrNotFound = errors.New("backup not found")

	// ErrChecksumMismatch is returned when a snapshot no longer matches the
	// checksum recorded when it was written.
	ErrChecksumMismatch = errors.New("backup checksum mismatch")
)

// Source streams a full snapshot of the store.
type Source interface {
	Backup(ctx context.Context, w io.Writer) (uint64, error)
}

// Target loads a snapshot stream into the store.
type Target interface {
	Restore(ctx context.Context, r io.Reader) error
}

// Backup describes one stored snapshot.
type Backup struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Duration  time.Duration `json:"duration_ms"`
	FileName  string        `json:"file_name"`
	FileSize  int64         `json:"file_size"`
	Checksum  string        `json:"checksum"`

	// Version is the store version the snapshot covers.
	Version uint64 `json:"version"`
}

// RetentionPolicy bounds how many snapshots are kept.
type RetentionPolicy struct {
	MinCount   int
	MaxCount   int
	MaxAgeDays int
}
