// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testJWTSecret
	cfg.Security.AdminEmail = "admin@example.org"
	cfg.Security.AdminPassword = "correct-horse-battery"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"missing db path", func(c *Config) { c.Database.Path = "" }, "DATABASE_PATH"},
		{"in-memory without path", func(c *Config) { c.Database.Path = ""; c.Database.InMemory = true }, ""},
		{"gc ratio too low", func(c *Config) { c.Database.GCDiscardRatio = 0 }, "BADGER_GC_DISCARD"},
		{"missing uploads dir", func(c *Config) { c.Storage.UploadsDir = " " }, "UPLOADS_DIR"},
		{"upload limit zero", func(c *Config) { c.Storage.MaxUploadMB = 0 }, "MAX_UPLOAD_MB"},
		{"missing jwt secret", func(c *Config) { c.Security.JWTSecret = "" }, "JWT_SECRET is required"},
		{"short jwt secret", func(c *Config) { c.Security.JWTSecret = "short" }, "at least 32"},
		{"placeholder jwt secret", func(c *Config) {
			c.Security.JWTSecret = "REPLACE_WITH_A_REAL_SECRET_VALUE_0123456789"
		}, "placeholder"},
		{"token ttl too short", func(c *Config) { c.Security.TokenTTL = time.Second }, "TOKEN_TTL"},
		{"missing admin email", func(c *Config) { c.Security.AdminEmail = "" }, "ADMIN_EMAIL is required"},
		{"invalid admin email", func(c *Config) { c.Security.AdminEmail = "not-an-email" }, "ADMIN_EMAIL is not a valid"},
		{"missing admin password", func(c *Config) { c.Security.AdminPassword = "" }, "ADMIN_PASSWORD is required"},
		{"short admin password in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"https://reelnotes.example"}
			c.Security.AdminPassword = "9094"
		}, "ADMIN_PASSWORD must be at least"},
		{"short admin password in development", func(c *Config) { c.Security.AdminPassword = "9094" }, ""},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
		{"rate limit zero", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitReqs = 0
			c.Security.RateLimitDisabled = true
		}, ""},
		{"rate window too long", func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour }, "RATE_LIMIT_WINDOW"},
		{"login attempts zero", func(c *Config) { c.Security.LoginMaxAttempts = 0 }, "LOGIN_MAX_ATTEMPTS"},
		{"lockout too short", func(c *Config) { c.Security.LoginLockoutDuration = 0 }, "LOGIN_LOCKOUT_DURATION"},
		{"backup disabled ignores bounds", func(c *Config) { c.Backup.Dir = "" }, ""},
		{"backup without dir", func(c *Config) { c.Backup.Enabled = true; c.Backup.Dir = "" }, "BACKUP_DIR"},
		{"backup interval too short", func(c *Config) {
			c.Backup.Enabled = true
			c.Backup.Interval = time.Second
		}, "BACKUP_INTERVAL"},
		{"backup max below min", func(c *Config) {
			c.Backup.Enabled = true
			c.Backup.MinCount = 5
			c.Backup.MaxCount = 2
		}, "BACKUP_MAX_COUNT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env        string
		production bool
		dev        bool
	}{
		{"production", true, false},
		{"PROD", true, false},
		{"development", false, true},
		{"dev", false, true},
		{"", false, true},
		{"staging", false, false},
	}
	for _, tt := range tests {
		cfg := &Config{Server: ServerConfig{Environment: tt.env}}
		if cfg.IsProduction() != tt.production {
			t.Errorf("IsProduction(%q) = %v, want %v", tt.env, cfg.IsProduction(), tt.production)
		}
		if cfg.IsDevelopment() != tt.dev {
			t.Errorf("IsDevelopment(%q) = %v, want %v", tt.env, cfg.IsDevelopment(), tt.dev)
		}
	}
}

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	a, err := GenerateSecret(40)
	if err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}
	b, err := GenerateSecret(40)
	if err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}
	if len(a) != 40 {
		t.Errorf("len = %d, want 40", len(a))
	}
	if a == b {
		t.Error("expected distinct secrets")
	}
}
