// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockHTTPServer blocks in ListenAndServe until Shutdown is called.
type mockHTTPServer struct {
	listenErr     error
	shutdownErr   error
	closedEarly   bool
	listenCalls   atomic.Int32
	shutdownCalls atomic.Int32
	stopped       chan struct{}
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{stopped: make(chan struct{})}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.listenCalls.Add(1)
	if m.listenErr != nil {
		return m.listenErr
	}
	if m.closedEarly {
		return http.ErrServerClosed
	}
	<-m.stopped
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(_ context.Context) error {
	m.shutdownCalls.Add(1)
	close(m.stopped)
	return m.shutdownErr
}

func TestHTTPServerServiceGracefulShutdown(t *testing.T) {
	server := newMockHTTPServer()
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(time.Second)
	for server.listenCalls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if got := server.shutdownCalls.Load(); got != 1 {
		t.Errorf("Shutdown called %d times, want 1", got)
	}
}

func TestHTTPServerServiceListenError(t *testing.T) {
	server := newMockHTTPServer()
	server.listenErr = errors.New("address already in use")
	svc := NewHTTPServerService(server, time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !strings.Contains(err.Error(), "address already in use") {
		t.Fatalf("Serve() = %v, want listen error", err)
	}
	if server.shutdownCalls.Load() != 0 {
		t.Error("Shutdown should not be called when listen fails")
	}
}

func TestHTTPServerServiceShutdownError(t *testing.T) {
	server := newMockHTTPServer()
	server.shutdownErr = errors.New("connections still open")
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Serve(ctx)
	if err == nil || !strings.Contains(err.Error(), "shutdown failed") {
		t.Fatalf("Serve() = %v, want shutdown error", err)
	}
}

func TestHTTPServerServiceDefaults(t *testing.T) {
	svc := NewHTTPServerService(newMockHTTPServer(), 0)
	if svc.shutdownTimeout != 10*time.Second {
		t.Errorf("shutdownTimeout = %v, want 10s", svc.shutdownTimeout)
	}
	if svc.String() != "http-server" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestHTTPServerServiceOptions(t *testing.T) {
	svc := NewHTTPServerService(newMockHTTPServer(), 5*time.Second,
		WithServiceName("api"), WithListenAddr("127.0.0.1:5000"))
	if svc.String() != "api" {
		t.Errorf("String() = %q, want api", svc.String())
	}
	if svc.addr != "127.0.0.1:5000" {
		t.Errorf("addr = %q", svc.addr)
	}

	if got := NewHTTPServerService(newMockHTTPServer(), 0, WithServiceName("")).String(); got != "http-server" {
		t.Errorf("empty name override: String() = %q, want http-server", got)
	}
}

func TestHTTPServerServiceClosedElsewhereIsNotRestarted(t *testing.T) {
	server := newMockHTTPServer()
	server.closedEarly = true
	svc := NewHTTPServerService(server, time.Second)

	err := svc.Serve(context.Background())
	if !errors.Is(err, suture.ErrDoNotRestart) {
		t.Fatalf("Serve() = %v, want suture.ErrDoNotRestart", err)
	}
	if server.shutdownCalls.Load() != 0 {
		t.Error("Shutdown should not be called for a server that is already closed")
	}
}
