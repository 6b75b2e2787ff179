// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testJWTSecret = "k3v9s8d7f6g5h4j3k2l1q0w9e8r7t6y5u4i3o2p1"

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Server.Environment = %q, want development", cfg.Server.Environment)
	}
	if cfg.Storage.MaxUploadMB != 5 {
		t.Errorf("Storage.MaxUploadMB = %d, want 5", cfg.Storage.MaxUploadMB)
	}
	if cfg.Storage.MaxUploadBytes() != 5<<20 {
		t.Errorf("Storage.MaxUploadBytes() = %d, want %d", cfg.Storage.MaxUploadBytes(), 5<<20)
	}
	if cfg.Security.TokenTTL != 24*time.Hour {
		t.Errorf("Security.TokenTTL = %v, want 24h", cfg.Security.TokenTTL)
	}
	if cfg.Security.LoginMaxAttempts != 5 {
		t.Errorf("Security.LoginMaxAttempts = %d, want 5", cfg.Security.LoginMaxAttempts)
	}
	if cfg.Security.JWTSecret != "" {
		t.Error("Security.JWTSecret should be empty by default")
	}
	if cfg.Database.GCInterval != 10*time.Minute {
		t.Errorf("Database.GCInterval = %v, want 10m", cfg.Database.GCInterval)
	}
	if cfg.Cache.FacetsTTL != 5*time.Minute {
		t.Errorf("Cache.FacetsTTL = %v, want 5m", cfg.Cache.FacetsTTL)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"PORT", "server.port"},
		{"HTTP_PORT", "server.port"},
		{"HTTP_HOST", "server.host"},
		{"ENVIRONMENT", "server.environment"},
		{"DATABASE_PATH", "database.path"},
		{"DATA_DIR", "database.path"},
		{"BADGER_IN_MEMORY", "database.in_memory"},
		{"UPLOADS_DIR", "storage.uploads_dir"},
		{"MAX_UPLOAD_MB", "storage.max_upload_mb"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"TOKEN_TTL", "security.token_ttl"},
		{"ADMIN_EMAIL", "security.admin_email"},
		{"ADMIN_PASSWORD", "security.admin_password"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_reqs"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"LOGIN_MAX_ATTEMPTS", "security.login_max_attempts"},
		{"FACETS_CACHE_TTL", "cache.facets_ttl"},
		{"LOG_LEVEL", "logging.level"},
		{"LOG_FILE", "logging.file"},

		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("server:\n  port: 8080\n"), 0o600); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		t.Setenv(ConfigPathEnvVar, "")
		if got := findConfigFile(); got != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", got)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(customPath, []byte("server:\n  port: 8080\n"), 0o600); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		defer os.Remove(customPath)

		t.Setenv(ConfigPathEnvVar, customPath)
		if got := findConfigFile(); got != customPath {
			t.Errorf("findConfigFile() = %q, want %q", got, customPath)
		}
	})
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("ADMIN_EMAIL", "admin@example.org")
	t.Setenv("ADMIN_PASSWORD", "correct-horse-battery")
	t.Setenv("JWT_SECRET", testJWTSecret)
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://reelnotes.example, https://admin.reelnotes.example")
	t.Setenv("BADGER_IN_MEMORY", "true")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Security.TokenTTL != 2*time.Hour {
		t.Errorf("Security.TokenTTL = %v, want 2h", cfg.Security.TokenTTL)
	}
	if !cfg.Database.InMemory {
		t.Error("Database.InMemory should be true")
	}
	want := []string{"https://reelnotes.example", "https://admin.reelnotes.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
	if cfg.Security.JWTSecretGenerated {
		t.Error("JWTSecretGenerated should be false when JWT_SECRET is set")
	}
}

// TestLoadWithKoanfConfigFile tests that file values sit between defaults and env
func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	setRequiredEnv(t)

	yaml := "server:\n  port: 7000\n  host: 127.0.0.1\nstorage:\n  max_upload_mb: 8\n"
	path := filepath.Join(dir, "reelnotes.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("MAX_UPLOAD_MB", "3")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 from file", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "127.0.0.1:7000" {
		t.Errorf("Server.Addr() = %q, want 127.0.0.1:7000", cfg.Server.Addr())
	}
	if cfg.Storage.MaxUploadMB != 3 {
		t.Errorf("Storage.MaxUploadMB = %d, want 3 from env", cfg.Storage.MaxUploadMB)
	}
}

// TestLoadWithKoanfGeneratesDevSecret covers the development secret fallback
func TestLoadWithKoanfGeneratesDevSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if !cfg.Security.JWTSecretGenerated {
		t.Error("expected JWTSecretGenerated in development")
	}
	if len(cfg.Security.JWTSecret) != generatedSecretLength {
		t.Errorf("generated secret length = %d, want %d", len(cfg.Security.JWTSecret), generatedSecretLength)
	}
}

// TestLoadWithKoanfRequiresSecretInProduction ensures production never generates secrets
func TestLoadWithKoanfRequiresSecretInProduction(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CORS_ORIGINS", "https://reelnotes.example")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET in production")
	}
}
