// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package auth

import (
	"sync"
	"time"

	"github.com/tomtom215/reelnotes/internal/config"
	"github.com/tomtom215/reelnotes/internal/logging"
)

// LockoutConfig holds configuration for the login lockout tracker.
type LockoutConfig struct {
	// MaxAttempts is the number of consecutive failures that trigger a lockout.
	MaxAttempts int

	// LockoutDuration is the first lockout period. Each further lockout of
	// the same subject doubles it, up to MaxLockoutDuration.
	LockoutDuration time.Duration

	// MaxLockoutDuration caps the exponential backoff.
	MaxLockoutDuration time.Duration

	// Retention is how long an unlocked entry is kept after its last failure.
	Retention time.Duration
}

// DefaultLockoutConfig returns sensible defaults.
func DefaultLockoutConfig() LockoutConfig {
	return LockoutConfig{
		MaxAttempts:        5,
		LockoutDuration:    15 * time.Minute,
		MaxLockoutDuration: 24 * time.Hour,
		Retention:          24 * time.Hour,
	}
}

// LockoutConfigFrom derives the lockout policy from security settings.
func LockoutConfigFrom(cfg *config.SecurityConfig) LockoutConfig {
	lc := DefaultLockoutConfig()
	if cfg.LoginMaxAttempts > 0 {
		lc.MaxAttempts = cfg.LoginMaxAttempts
	}
	if cfg.LoginLockoutDuration > 0 {
		lc.LockoutDuration = cfg.LoginLockoutDuration
	}
	return lc
}

// lockoutEntry tracks failures for one subject (an email or "ip:<addr>").
type lockoutEntry struct {
	failures     int
	lockoutCount int
	lastFailure  time.Time
	lockedUntil  time.Time
}

// Lockout tracks failed logins per subject in memory.
type Lockout struct {
	cfg     LockoutConfig
	mu      sync.Mutex
	entries map[string]*lockoutEntry
	now     func() time.Time
}

// NewLockout creates an empty lockout tracker.
func NewLockout(cfg LockoutConfig) *Lockout {
	return &Lockout{
		cfg:     cfg,
		entries: make(map[string]*lockoutEntry),
		now:     time.Now,
	}
}

// Check reports whether any of subjects is locked and the longest remaining
// lock time among them.
func (l *Lockout) Check(subjects ...string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	var remaining time.Duration
	for _, s := range subjects {
		e, ok := l.entries[s]
		if !ok || !now.Before(e.lockedUntil) {
			continue
		}
		if r := e.lockedUntil.Sub(now); r > remaining {
			remaining = r
		}
	}
	return remaining > 0, remaining
}

// RecordFailure counts a failed attempt against each subject. It reports
// whether any subject is now locked and for how long.
func (l *Lockout) RecordFailure(subjects ...string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	var remaining time.Duration
	for _, s := range subjects {
		if s == "" {
			continue
		}
		e, ok := l.entries[s]
		if !ok {
			e = &lockoutEntry{}
			l.entries[s] = e
		}
		if now.Before(e.lockedUntil) {
			if r := e.lockedUntil.Sub(now); r > remaining {
				remaining = r
			}
			continue
		}

		e.failures++
		e.lastFailure = now
		if e.failures < l.cfg.MaxAttempts {
			continue
		}

		d := l.backoff(e.lockoutCount)
		e.lockedUntil = now.Add(d)
		e.lockoutCount++
		e.failures = 0

		logging.Warn().
			Str("subject", s).
			Dur("duration", d).
			Int("lockout_count", e.lockoutCount).
			Msg("Login locked")

		if d > remaining {
			remaining = d
		}
	}
	return remaining > 0, remaining
}

// RecordSuccess forgets the failure history of subject.
func (l *Lockout) RecordSuccess(subject string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, subject)
}

// Cleanup drops unlocked entries whose last failure is older than the
// retention period and returns how many were removed.
func (l *Lockout) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	threshold := now.Add(-l.cfg.Retention)
	removed := 0
	for s, e := range l.entries {
		if !now.Before(e.lockedUntil) && e.lastFailure.Before(threshold) {
			delete(l.entries, s)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked subjects.
func (l *Lockout) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// backoff doubles the base duration for every previous lockout.
func (l *Lockout) backoff(lockoutCount int) time.Duration {
	d := l.cfg.LockoutDuration
	for i := 0; i < lockoutCount; i++ {
		d *= 2
		if d >= l.cfg.MaxLockoutDuration {
			return l.cfg.MaxLockoutDuration
		}
	}
	return d
}
