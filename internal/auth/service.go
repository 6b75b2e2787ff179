// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/reelnotes/internal/logging"
	"github.com/tomtom215/reelnotes/internal/metrics"
	"github.com/tomtom215/reelnotes/internal/models"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountLocked is returned while a login subject is locked out.
	ErrAccountLocked = errors.New("too many failed login attempts")
)

// AdminStore looks up admin credentials by email.
type AdminStore interface {
	GetAdmin(ctx context.Context, email string) (*models.AdminCredential, error)
}

// LockedError carries the remaining lock time of a locked login.
type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrAccountLocked, e.Remaining.Round(time.Second))
}

// Unwrap lets errors.Is match ErrAccountLocked.
func (e *LockedError) Unwrap() error {
	return ErrAccountLocked
}

// RetryAfter returns the remaining lock time carried by err, if any.
func RetryAfter(err error) (time.Duration, bool) {
	var le *LockedError
	if errors.As(err, &le) {
		return le.Remaining, true
	}
	return 0, false
}

// Service performs admin logins.
type Service struct {
	store      AdminStore
	jwt        *JWTManager
	lockout    *Lockout
	isNotFound func(error) bool
}

// NewService creates a login service. isNotFound identifies the store's
// "no such admin" error.
func NewService(store AdminStore, jwtManager *JWTManager, lockout *Lockout, isNotFound func(error) bool) *Service {
	return &Service{
		store:      store,
		jwt:        jwtManager,
		lockout:    lockout,
		isNotFound: isNotFound,
	}
}

// Login checks the credentials and issues a token. An unknown email and a
// wrong password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password, clientIP string) (*models.LoginResponse, error) {
	email = models.NormalizeEmail(email)
	subjects := lockoutSubjects(email, clientIP)

	if locked, remaining := s.lockout.Check(subjects...); locked {
		metrics.RecordLogin(metrics.LoginLocked)
		return nil, &LockedError{Remaining: remaining}
	}

	cred, err := s.store.GetAdmin(ctx, email)
	switch {
	case err == nil:
	case s.isNotFound != nil && s.isNotFound(err):
		// Burn the same bcrypt work as a real comparison.
		VerifyPassword(dummyHash(), password)
		return nil, s.fail(ctx, email, subjects)
	default:
		return nil, fmt.Errorf("load admin: %w", err)
	}

	if !VerifyPassword(cred.PasswordHash, password) {
		return nil, s.fail(ctx, email, subjects)
	}

	token, expiresAt, err := s.jwt.GenerateToken(cred.Email)
	if err != nil {
		return nil, err
	}

	for _, subj := range subjects {
		s.lockout.RecordSuccess(subj)
	}
	metrics.RecordLogin(metrics.LoginSuccess)
	logging.Ctx(ctx).Info().Str("email", cred.Email).Msg("Admin logged in")

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Email:     cred.Email,
	}, nil
}

func (s *Service) fail(ctx context.Context, email string, subjects []string) error {
	metrics.RecordLogin(metrics.LoginInvalid)
	logging.Ctx(ctx).Warn().Str("email", email).Msg("Failed admin login")

	if locked, remaining := s.lockout.RecordFailure(subjects...); locked {
		return &LockedError{Remaining: remaining}
	}
	return ErrInvalidCredentials
}

func lockoutSubjects(email, clientIP string) []string {
	subjects := []string{email}
	if clientIP != "" {
		subjects = append(subjects, "ip:"+clientIP)
	}
	return subjects
}
