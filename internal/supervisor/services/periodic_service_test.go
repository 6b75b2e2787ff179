// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPeriodicServiceRunsOnInterval(t *testing.T) {
	var runs atomic.Int32
	svc := NewPeriodicService("counter", 10*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want deadline exceeded", err)
	}
	if runs.Load() < 3 {
		t.Errorf("runs = %d, want at least 3", runs.Load())
	}
}

func TestPeriodicServiceRunOnStart(t *testing.T) {
	ran := make(chan struct{}, 1)
	svc := NewPeriodicService("startup", time.Hour, func(context.Context) error {
		ran <- struct{}{}
		return nil
	}, WithRunOnStart())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task did not run on start")
	}
	cancel()
	<-done
}

func TestPeriodicServiceSurvivesTaskErrors(t *testing.T) {
	var runs atomic.Int32
	svc := NewPeriodicService("failing", 5*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want deadline exceeded", err)
	}
	if runs.Load() < 2 {
		t.Errorf("task stopped after failure, runs = %d", runs.Load())
	}
}

func TestPeriodicServiceDefaults(t *testing.T) {
	svc := NewPeriodicService("x", 0, func(context.Context) error { return nil })
	if svc.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", svc.interval)
	}
	if svc.String() != "x" {
		t.Errorf("String() = %q", svc.String())
	}
}
