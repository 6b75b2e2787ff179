// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package backup

import (
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"

	"github.com/tomtom215/reelnotes/internal/config"
	"github.com/tomtom215/reelnotes/internal/logging"
	"github.com/tomtom215/reelnotes/internal/metrics"
)

// Manager creates, lists, prunes and restores snapshots in one directory.
type Manager struct {
	fs     afero.Fs
	dir    string
	source Source
	policy RetentionPolicy
	now    func() time.Time

	// mu serializes snapshot writes with pruning and restores.
	mu sync.Mutex
}

// NewManager creates the backup directory if needed.
func NewManager(fs afero.Fs, cfg *config.BackupConfig, source Source) (*Manager, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.New("backup directory is required")
	}
	if source == nil {
		return nil, errors.New("backup source is required")
	}
	if err := fs.MkdirAll(cfg.Dir, directoryPerm); err != nil {
		return nil, fmt.Errorf("failed to create backup directory %s: %w", cfg.Dir, err)
	}
	return &Manager{
		fs:     fs,
		dir:    cfg.Dir,
		source: source,
		policy: RetentionPolicy{
			MinCount:   cfg.MinCount,
			MaxCount:   cfg.MaxCount,
			MaxAgeDays: cfg.MaxAgeDays,
		},
		now: time.Now,
	}, nil
}

// Run creates a snapshot and then applies the retention policy. It is the
// task of the scheduled backup service.
func (m *Manager) Run(ctx context.Context) error {
	b, err := m.Create(ctx)
	if err != nil {
		metrics.RecordBackup(metrics.BackupFailed, 0)
		return err
	}
	metrics.RecordBackup(metrics.BackupCompleted, b.FileSize)
	logging.Info().
		Str("backup_id", b.ID).
		Int64("size_bytes", b.FileSize).
		Dur("duration", b.Duration).
		Msg("Store backup completed")

	removed, err := m.ApplyRetention()
	if err != nil {
		return err
	}
	if removed > 0 {
		logging.Info().Int("removed", removed).Msg("Old store backups removed")
	}
	return nil
}

// Create writes a new snapshot. A partial file never becomes visible: data
// is written under a temporary name and renamed once the metadata is saved.
func (m *Manager) Create(ctx context.Context) (*Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	started := m.now().UTC()
	id := started.Format(stampLayout)
	b := &Backup{
		ID:        id,
		CreatedAt: started,
		FileName:  filePrefix + id + dataSuffix,
	}
	dataPath := path.Join(m.dir, b.FileName)
	tmpPath := dataPath + tempSuffix

	f, err := m.fs.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup file: %w", err)
	}

	hasher := sha256.New()
	counter := &countingWriter{w: io.MultiWriter(f, hasher)}
	gz := gzip.NewWriter(counter)

	version, err := m.source.Backup(ctx, gz)
	if err == nil {
		err = gz.Close()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = m.fs.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}

	b.Version = version
	b.FileSize = counter.n
	b.Checksum = hex.EncodeToString(hasher.Sum(nil))
	b.Duration = m.now().UTC().Sub(started)

	if err := m.fs.Rename(tmpPath, dataPath); err != nil {
		_ = m.fs.Remove(tmpPath)
		return nil, fmt.Errorf("failed to finalize backup: %w", err)
	}
	if err := m.writeMetadata(b); err != nil {
		_ = m.fs.Remove(dataPath)
		return nil, err
	}
	return b, nil
}

func (m *Manager) writeMetadata(b *Backup) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode backup metadata: %w", err)
	}
	if err := afero.WriteFile(m.fs, m.metaPath(b.ID), data, filePerm); err != nil {
		return fmt.Errorf("failed to write backup metadata: %w", err)
	}
	return nil
}

func (m *Manager) metaPath(id string) string {
	return path.Join(m.dir, filePrefix+id+metaSuffix)
}

// List returns the stored snapshots, newest first. Sidecars that cannot be
// read are skipped with a warning.
func (m *Manager) List() ([]Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked()
}

func (m *Manager) listLocked() ([]Backup, error) {
	entries, err := afero.ReadDir(m.fs, m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := make([]Backup, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, metaSuffix) {
			continue
		}
		data, err := afero.ReadFile(m.fs, path.Join(m.dir, name))
		if err != nil {
			logging.Warn().Err(err).Str("file", name).Msg("Skipping unreadable backup metadata")
			continue
		}
		var b Backup
		if err := json.Unmarshal(data, &b); err != nil {
			logging.Warn().Err(err).Str("file", name).Msg("Skipping corrupt backup metadata")
			continue
		}
		backups = append(backups, b)
	}

	slices.SortFunc(backups, func(a, b Backup) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return backups, nil
}

// ApplyRetention removes snapshots outside the policy and returns how many
// were removed.
func (m *Manager) ApplyRetention() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	backups, err := m.listLocked()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, b := range selectExpired(backups, m.policy, m.now()) {
		if err := m.deleteLocked(b); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// selectExpired picks the snapshots to delete from a newest-first list.
func selectExpired(backups []Backup, policy RetentionPolicy, now time.Time) []Backup {
	var expired []Backup
	for i, b := range backups {
		if i < policy.MinCount {
			continue
		}
		tooMany := policy.MaxCount > 0 && i >= policy.MaxCount
		tooOld := policy.MaxAgeDays > 0 && now.Sub(b.CreatedAt) > time.Duration(policy.MaxAgeDays)*24*time.Hour
		if tooMany || tooOld {
			expired = append(expired, b)
		}
	}
	return expired
}

func (m *Manager) deleteLocked(b Backup) error {
	if err := m.fs.Remove(path.Join(m.dir, b.FileName)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete backup %s: %w", b.ID, err)
	}
	if err := m.fs.Remove(m.metaPath(b.ID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete backup metadata %s: %w", b.ID, err)
	}
	return nil
}

// Restore verifies the snapshot checksum and loads it into target.
func (m *Manager) Restore(ctx context.Context, id string, target Target) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := afero.ReadFile(m.fs, m.metaPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to read backup metadata: %w", err)
	}
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("failed to decode backup metadata: %w", err)
	}

	if err := m.verifyLocked(&b); err != nil {
		return err
	}

	f, err := m.fs.Open(path.Join(m.dir, b.FileName))
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	defer gz.Close()

	if err := target.Restore(ctx, gz); err != nil {
		return fmt.Errorf("failed to restore backup %s: %w", id, err)
	}
	logging.Info().Str("backup_id", id).Msg("Store restored from backup")
	return nil
}

func (m *Manager) verifyLocked(b *Backup) error {
	f, err := m.fs.Open(path.Join(m.dir, b.FileName))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, b.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return fmt.Errorf("failed to checksum backup: %w", err)
	}
	if hex.EncodeToString(hasher.Sum(nil)) != b.Checksum {
		return fmt.Errorf("%w: %s", ErrChecksumMismatch, b.ID)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
