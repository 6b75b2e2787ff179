// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package services

import (
	"context"
	"time"

	"github.com/tomtom215/reelnotes/internal/logging"
)

// TaskFunc is one run of a periodic task.
type TaskFunc func(ctx context.Context) error

// PeriodicService runs a task on a fixed interval until canceled. A failed
// run is logged and the next tick proceeds normally; only panics reach the
// supervisor.
//
//	gc := services.NewPeriodicService("badger-gc", 10*time.Minute, func(ctx context.Context) error {
//		_, err := db.RunGC(ctx, 0.5)
//		return err
//	})
type PeriodicService struct {
	name     string
	interval time.Duration
	task     TaskFunc

	// runOnStart executes the task once before the first tick.
	runOnStart bool
}

// PeriodicOption configures a PeriodicService.
type PeriodicOption func(*PeriodicService)

// WithRunOnStart runs the task immediately when the service starts.
func WithRunOnStart() PeriodicOption {
	return func(p *PeriodicService) {
		p.runOnStart = true
	}
}

// NewPeriodicService creates a periodic task. A non-positive interval
// becomes one minute.
func NewPeriodicService(name string, interval time.Duration, task TaskFunc, opts ...PeriodicOption) *PeriodicService {
	if interval <= 0 {
		interval = time.Minute
	}
	p := &PeriodicService{name: name, interval: interval, task: task}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Serve implements suture.Service.
func (p *PeriodicService) Serve(ctx context.Context) error {
	if p.runOnStart {
		p.run(ctx)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.run(ctx)
		}
	}
}

func (p *PeriodicService) run(ctx context.Context) {
	start := time.Now()
	if err := p.task(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.Warn().Err(err).Str("task", p.name).Msg("Periodic task failed")
		return
	}
	logging.Debug().Str("task", p.name).Dur("duration", time.Since(start)).Msg("Periodic task completed")
}

// String implements fmt.Stringer.
func (p *PeriodicService) String() string {
	return p.name
}
