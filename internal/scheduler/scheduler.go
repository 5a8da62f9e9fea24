// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the panel's periodic maintenance jobs: catalog
// refresh and sweeps of idle editors, selectors and local previews.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// JobTimeout bounds a single run of a job.
const JobTimeout = 2 * time.Minute

// Job is a periodic task.
type Job struct {
	Name        string
	Description string
	Schedule    string // cron spec or descriptor such as "@every 5m"
	Run         func(ctx context.Context) error
}

// Scheduler owns the cron instance and the job registry.
type Scheduler struct {
	cron     *cron.Cron
	registry *Registry
	logger   *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a scheduler. Panicking jobs are recovered and overlapping
// runs of the same job are skipped.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	c := cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     c,
		registry: newRegistry(c, logger),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Add schedules job.
func (s *Scheduler) Add(job Job) error {
	return s.registry.add(s.ctx, job)
}

// Registry returns the job registry.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// Start begins running jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
