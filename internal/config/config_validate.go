// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package config

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const (
	minJWTSecretLength      = 32
	minProdAdminPasswordLen = 12
	maxUploadMBLimit        = 100
	minRateLimitRequests    = 1
	maxRateLimitRequests    = 100000
	minRateLimitWindow      = time.Second
	maxRateLimitWindow      = time.Hour
	minTokenTTL             = time.Minute
	maxTokenTTL             = 30 * 24 * time.Hour
	maxLoginAttemptsLimit   = 100
	minGCDiscardRatio       = 0.1
	maxGCDiscardRatio       = 0.99
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateBackup(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if !c.Database.InMemory && strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DATABASE_PATH is required unless BADGER_IN_MEMORY=true")
	}
	if c.Database.GCDiscardRatio < minGCDiscardRatio || c.Database.GCDiscardRatio > maxGCDiscardRatio {
		return fmt.Errorf("BADGER_GC_DISCARD must be between %.2f and %.2f", minGCDiscardRatio, maxGCDiscardRatio)
	}
	return nil
}

func (c *Config) validateBackup() error {
	if !c.Backup.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Backup.Dir) == "" {
		return fmt.Errorf("BACKUP_DIR is required when BACKUP_ENABLED=true")
	}
	if c.Backup.Interval < time.Minute {
		return fmt.Errorf("BACKUP_INTERVAL must be at least 1m")
	}
	if c.Backup.MinCount < 0 || c.Backup.MaxCount < 0 || c.Backup.MaxAgeDays < 0 {
		return fmt.Errorf("backup retention limits must not be negative")
	}
	if c.Backup.MaxCount > 0 && c.Backup.MaxCount < c.Backup.MinCount {
		return fmt.Errorf("BACKUP_MAX_COUNT (%d) must not be below BACKUP_MIN_COUNT (%d)", c.Backup.MaxCount, c.Backup.MinCount)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if strings.TrimSpace(c.Storage.UploadsDir) == "" {
		return fmt.Errorf("UPLOADS_DIR is required")
	}
	if c.Storage.MaxUploadMB < 1 || c.Storage.MaxUploadMB > maxUploadMBLimit {
		return fmt.Errorf("MAX_UPLOAD_MB must be between 1 and %d", maxUploadMBLimit)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}
	if c.Security.TokenTTL < minTokenTTL || c.Security.TokenTTL > maxTokenTTL {
		return fmt.Errorf("TOKEN_TTL must be between %v and %v", minTokenTTL, maxTokenTTL)
	}
	if err := c.validateAdminCredentials(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateLockout()
}

func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters for security", minJWTSecretLength)
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

func (c *Config) validateAdminCredentials() error {
	if c.Security.AdminEmail == "" {
		return fmt.Errorf("ADMIN_EMAIL is required to seed the admin account")
	}
	if _, err := mail.ParseAddress(c.Security.AdminEmail); err != nil {
		return fmt.Errorf("ADMIN_EMAIL is not a valid email address: %w", err)
	}
	if c.Security.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required to seed the admin account")
	}
	if c.IsProduction() {
		if len(c.Security.AdminPassword) < minProdAdminPasswordLen {
			return fmt.Errorf("ADMIN_PASSWORD must be at least %d characters in production", minProdAdminPasswordLen)
		}
		if containsPlaceholder(c.Security.AdminPassword) {
			return fmt.Errorf("ADMIN_PASSWORD contains a placeholder value - set a secure password")
		}
	}
	return nil
}

// validateCORS rejects wildcard origins in production, where the admin
// token cookie would otherwise be reachable from any site.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: CORS_ORIGINS=https://yourdomain.com " +
			"or use ENVIRONMENT=development for testing purposes")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports whether the CORS setup deserves a startup warning.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateLockout() error {
	if c.Security.LoginMaxAttempts < 1 || c.Security.LoginMaxAttempts > maxLoginAttemptsLimit {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be between 1 and %d", maxLoginAttemptsLimit)
	}
	if c.Security.LoginLockoutDuration < time.Second {
		return fmt.Errorf("LOGIN_LOCKOUT_DURATION must be at least 1s")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT selects production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment reports whether ENVIRONMENT selects development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// placeholderPatterns catch values copied verbatim from example configs.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"YOUR_PASSWORD",
	"PLACEHOLDER",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
