// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	_ "github.com/tomtom215/reelnotes/docs" // Import generated swagger docs
	"github.com/tomtom215/reelnotes/internal/api"
	"github.com/tomtom215/reelnotes/internal/auth"
	"github.com/tomtom215/reelnotes/internal/backup"
	"github.com/tomtom215/reelnotes/internal/config"
	"github.com/tomtom215/reelnotes/internal/database"
	"github.com/tomtom215/reelnotes/internal/logging"
	"github.com/tomtom215/reelnotes/internal/metrics"
	"github.com/tomtom215/reelnotes/internal/seed"
	"github.com/tomtom215/reelnotes/internal/storage"
	"github.com/tomtom215/reelnotes/internal/supervisor"
	"github.com/tomtom215/reelnotes/internal/supervisor/services"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	lockoutSweepInterval = 10 * time.Minute
	limiterSweepInterval = 5 * time.Minute
	limiterMaxIdle       = 30 * time.Minute
	cacheSweepInterval   = time.Minute
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		File: logging.FileConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   true,
		},
	})
	defer func() {
		if err := logging.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing log file")
		}
	}()

	if err := run(cfg); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		// Deferred closes above do not run after os.Exit.
		_ = logging.Close()
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // Sequential setup steps
func run(cfg *config.Config) error {
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("data_dir", cfg.Database.Path).
		Bool("in_memory", cfg.Database.InMemory).
		Str("uploads_dir", cfg.Storage.UploadsDir).
		Msg("Starting Reelnotes")

	metrics.SetAppInfo(version, runtime.Version())

	if cfg.Security.JWTSecretGenerated {
		logging.Warn().Msg("JWT_SECRET not set; using a generated secret. Tokens will not survive a restart")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin; set CORS_ORIGINS before exposing the API")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	store, err := storage.NewOnDisk(&cfg.Storage)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outcome, err := seed.New(db).EnsureAdmin(ctx, cfg.Security.AdminEmail, cfg.Security.AdminPassword)
	if err != nil {
		return err
	}
	logging.Info().Str("outcome", string(outcome)).Str("email", cfg.Security.AdminEmail).Msg("Admin account checked")

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return err
	}
	lockout := auth.NewLockout(auth.LockoutConfigFrom(&cfg.Security))
	authSvc := auth.NewService(db, jwtManager, lockout, func(err error) bool {
		return errors.Is(err, database.ErrNotFound)
	})

	handler := api.NewHandler(api.HandlerConfig{
		DB:           db,
		Store:        store,
		Auth:         authSvc,
		JWT:          jwtManager,
		FacetsTTL:    cfg.Cache.FacetsTTL,
		Version:      version,
		CookieSecure: cfg.Security.CookieSecure,
	})
	chiMW := api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security))
	router := api.NewRouter(handler, auth.NewMiddleware(jwtManager), chiMW)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Uploads stream for up to the configured timeout, so writes get twice as long.
		WriteTimeout: 2 * cfg.Server.Timeout,
		IdleTimeout:  2 * time.Minute,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}

	tree.AddMaintenanceService(services.NewPeriodicService("badger-gc", cfg.Database.GCInterval,
		func(ctx context.Context) error {
			n, err := db.RunGC(ctx, cfg.Database.GCDiscardRatio)
			switch {
			case err != nil:
				metrics.RecordGCRun(metrics.GCError)
				return err
			case n > 0:
				metrics.RecordGCRun(metrics.GCRewritten)
				logging.Info().Int("rewritten", n).Msg("Value log garbage collected")
			default:
				metrics.RecordGCRun(metrics.GCNothing)
			}
			return nil
		}))
	tree.AddMaintenanceService(services.NewPeriodicService("login-lockout-sweep", lockoutSweepInterval,
		func(context.Context) error {
			if n := lockout.Cleanup(); n > 0 {
				logging.Debug().Int("removed", n).Msg("Expired lockout records removed")
			}
			return nil
		}))
	tree.AddMaintenanceService(services.NewPeriodicService("login-limiter-sweep", limiterSweepInterval,
		func(context.Context) error {
			chiMW.LoginLimiter().Cleanup(limiterMaxIdle)
			return nil
		}))
	tree.AddMaintenanceService(services.NewPeriodicService("facets-cache-sweep", cacheSweepInterval,
		func(context.Context) error {
			handler.FacetsCache().Cleanup()
			return nil
		}))

	if cfg.Backup.Enabled {
		backups, err := backup.NewManager(afero.NewOsFs(), &cfg.Backup, db)
		if err != nil {
			return err
		}
		tree.AddMaintenanceService(services.NewPeriodicService("store-backup", cfg.Backup.Interval, backups.Run))
		logging.Info().
			Str("dir", cfg.Backup.Dir).
			Dur("interval", cfg.Backup.Interval).
			Msg("Scheduled store backups enabled")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout,
		services.WithListenAddr(server.Addr)))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if errors.Is(serveErr, context.Canceled) {
		serveErr = nil
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	return serveErr
}
