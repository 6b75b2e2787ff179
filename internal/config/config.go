// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Loading order (later layers override earlier ones):
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/reelnotes/config.yaml)
//  3. Environment variables, including any loaded from a .env file by main
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Storage  StorageConfig  `koanf:"storage"`
	Security SecurityConfig `koanf:"security"`
	Cache    CacheConfig    `koanf:"cache"`
	Backup   BackupConfig   `koanf:"backup"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds BadgerDB document store settings.
type DatabaseConfig struct {
	// Path is the Badger data directory.
	Path string `koanf:"path"`

	// InMemory runs Badger without touching disk. Data is lost on exit.
	InMemory bool `koanf:"in_memory"`

	// SyncWrites fsyncs every write transaction.
	SyncWrites bool `koanf:"sync_writes"`

	// GCInterval is how often the value log garbage collector runs.
	GCInterval time.Duration `koanf:"gc_interval"`

	// GCDiscardRatio is passed to RunValueLogGC.
	GCDiscardRatio float64 `koanf:"gc_discard_ratio"`
}

// StorageConfig holds upload file store settings.
type StorageConfig struct {
	UploadsDir  string `koanf:"uploads_dir"`
	MaxUploadMB int    `koanf:"max_upload_mb"`
}

// MaxUploadBytes returns the upload ceiling in bytes.
func (s StorageConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// SecurityConfig holds authentication, CORS and rate limiting settings.
type SecurityConfig struct {
	JWTSecret     string        `koanf:"jwt_secret"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
	AdminEmail    string        `koanf:"admin_email"`
	AdminPassword string        `koanf:"admin_password"`
	CookieSecure  bool          `koanf:"cookie_secure"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	LoginMaxAttempts     int           `koanf:"login_max_attempts"`
	LoginLockoutDuration time.Duration `koanf:"login_lockout_duration"`

	// JWTSecretGenerated is set when the secret was generated at startup
	// because none was configured (development only).
	JWTSecretGenerated bool `koanf:"-"`
}

// CacheConfig holds in-memory cache settings.
type CacheConfig struct {
	FacetsTTL time.Duration `koanf:"facets_ttl"`
}

// BackupConfig holds scheduled store snapshot settings.
type BackupConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Dir      string        `koanf:"dir"`
	Interval time.Duration `koanf:"interval"`

	// Retention: the newest MinCount snapshots are always kept; beyond that,
	// snapshots past MaxCount or older than MaxAgeDays are removed. Zero
	// disables the respective limit.
	MinCount   int `koanf:"min_count"`
	MaxCount   int `koanf:"max_count"`
	MaxAgeDays int `koanf:"max_age_days"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	Caller     bool   `koanf:"caller"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// Load reads configuration from defaults, an optional file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
