// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelnotes/config.yaml",
	"/etc/reelnotes/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        5000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:           "/data/reelnotes",
			InMemory:       false,
			SyncWrites:     false,
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Storage: StorageConfig{
			UploadsDir:  "/data/uploads",
			MaxUploadMB: 5,
		},
		Security: SecurityConfig{
			JWTSecret:            "",
			TokenTTL:             24 * time.Hour,
			AdminEmail:           "",
			AdminPassword:        "",
			CookieSecure:         false,
			CORSOrigins:          []string{"*"},
			RateLimitReqs:        100,
			RateLimitWindow:      time.Minute,
			RateLimitDisabled:    false,
			LoginMaxAttempts:     5,
			LoginLockoutDuration: 15 * time.Minute,
		},
		Cache: CacheConfig{
			FacetsTTL: 5 * time.Minute,
		},
		Backup: BackupConfig{
			Enabled:    false,
			Dir:        "/data/backups",
			Interval:   24 * time.Hour,
			MinCount:   3,
			MaxCount:   14,
			MaxAgeDays: 30,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Caller:     false,
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// LoadWithKoanf loads configuration with koanf from three layers:
// struct defaults, an optional YAML file, then environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.ensureJWTSecret(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	"port":         "server.port",
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"data_dir":           "database.path",
	"database_path":      "database.path",
	"badger_in_memory":   "database.in_memory",
	"badger_sync_writes": "database.sync_writes",
	"badger_gc_interval": "database.gc_interval",
	"badger_gc_discard":  "database.gc_discard_ratio",

	"uploads_dir":   "storage.uploads_dir",
	"max_upload_mb": "storage.max_upload_mb",

	"jwt_secret":             "security.jwt_secret",
	"token_ttl":              "security.token_ttl",
	"admin_email":            "security.admin_email",
	"admin_password":         "security.admin_password",
	"cookie_secure":          "security.cookie_secure",
	"cors_origins":           "security.cors_origins",
	"rate_limit_requests":    "security.rate_limit_reqs",
	"rate_limit_window":      "security.rate_limit_window",
	"disable_rate_limit":     "security.rate_limit_disabled",
	"login_max_attempts":     "security.login_max_attempts",
	"login_lockout_duration": "security.login_lockout_duration",

	"facets_cache_ttl": "cache.facets_ttl",

	"backup_enabled":      "backup.enabled",
	"backup_dir":          "backup.dir",
	"backup_interval":     "backup.interval",
	"backup_min_count":    "backup.min_count",
	"backup_max_count":    "backup.max_count",
	"backup_max_age_days": "backup.max_age_days",

	"log_level":        "logging.level",
	"log_format":       "logging.format",
	"log_caller":       "logging.caller",
	"log_file":         "logging.file",
	"log_max_size_mb":  "logging.max_size_mb",
	"log_max_backups":  "logging.max_backups",
	"log_max_age_days": "logging.max_age_days",
}

// envTransformFunc maps environment variable names to koanf config paths.
//
//   - HTTP_PORT -> server.port
//   - JWT_SECRET -> security.jwt_secret
//   - UPLOADS_DIR -> storage.uploads_dir
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
