// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

// Package services adapts Reelnotes components to suture.Service.
//
// Two shapes cover every background concern of the server:
//
//   - HTTPServerService runs the API listener and drains it on shutdown.
//   - PeriodicService runs a maintenance task on a ticker (Badger value-log
//     GC, lockout and limiter sweeps, facet cache sweeps, store snapshots).
//
// Both return ctx.Err() once the supervisor cancels them, which suture
// treats as a clean stop.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/reelnotes/internal/logging"
)

// HTTPServer is the lifecycle subset of *http.Server. Tests substitute a
// mock that blocks in ListenAndServe until Shutdown is called.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs an HTTP server under the supervisor.
//
// ListenAndServe blocks, so it runs in its own goroutine while Serve waits
// for either a server error or cancellation. On cancellation the server is
// drained with Shutdown under a fresh deadline, because the supervisor's
// context is already done at that point.
//
// A listener failure (port in use, permission denied) is returned as an
// error and suture restarts the service with backoff. A server that was
// closed outside the supervisor cannot listen again, so that case stops
// the service for good with suture.ErrDoNotRestart.
//
//	server := &http.Server{Addr: ":5000", Handler: router}
//	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second,
//		services.WithListenAddr(server.Addr)))
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	name            string
	addr            string
}

// HTTPOption configures an HTTPServerService.
type HTTPOption func(*HTTPServerService)

// WithServiceName overrides the name suture logs for the service.
func WithServiceName(name string) HTTPOption {
	return func(h *HTTPServerService) {
		if name != "" {
			h.name = name
		}
	}
}

// WithListenAddr records the listen address for start and stop logs.
func WithListenAddr(addr string) HTTPOption {
	return func(h *HTTPServerService) {
		h.addr = addr
	}
}

// NewHTTPServerService wraps server. shutdownTimeout bounds how long open
// connections may take to finish; a non-positive value becomes 10s.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration, opts ...HTTPOption) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	h := &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// errServerClosed marks a ListenAndServe that returned without a Shutdown
// from this service.
var errServerClosed = errors.New("http server closed outside the supervisor")

// Serve implements suture.Service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- h.server.ListenAndServe()
	}()

	logging.Info().Str("service", h.name).Str("addr", h.addr).Msg("HTTP server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			return fmt.Errorf("%w: %w", errServerClosed, suture.ErrDoNotRestart)
		}
		return fmt.Errorf("http server failed: %w", err)

	case <-ctx.Done():
		start := time.Now()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}

		// ListenAndServe returns as soon as Shutdown closes the listener.
		<-errCh
		logging.Info().
			Str("service", h.name).
			Dur("drain", time.Since(start)).
			Msg("HTTP server stopped")
		return ctx.Err()
	}
}

// String implements fmt.Stringer; suture uses it in its log events.
func (h *HTTPServerService) String() string {
	return h.name
}
