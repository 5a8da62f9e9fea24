// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"
)

// TriggerInterval is the minimum gap between manual runs of one job.
const TriggerInterval = 10 * time.Second

// Registry errors.
var (
	ErrJobNotFound  = errors.New("job not found")
	ErrTriggerLimit = errors.New("job was triggered too recently")
)

var specParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// registeredJob holds a job and its cron bookkeeping.
type registeredJob struct {
	job             Job
	defaultSchedule string
	entryID         cron.EntryID
	run             func()
	limiter         *rate.Limiter

	lastErr      error
	lastDuration time.Duration
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name            string
	Description     string
	DefaultSchedule string
	Schedule        string
	IsOverridden    bool
	LastRun         time.Time
	NextRun         time.Time
	LastDuration    time.Duration
	LastError       string
}

// Registry tracks scheduled jobs. Schedule overrides live in memory and
// reset on restart to the configured defaults.
type Registry struct {
	cron   *cron.Cron
	logger *slog.Logger
	mu     sync.RWMutex
	jobs   map[string]*registeredJob
}

func newRegistry(c *cron.Cron, logger *slog.Logger) *Registry {
	return &Registry{cron: c, logger: logger, jobs: make(map[string]*registeredJob)}
}

func (r *Registry) add(ctx context.Context, job Job) error {
	if _, err := specParser.Parse(job.Schedule); err != nil {
		return fmt.Errorf("invalid cron expression %q for %s: %w", job.Schedule, job.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.Name]; ok {
		return fmt.Errorf("job %s already registered", job.Name)
	}

	rj := &registeredJob{
		job:             job,
		defaultSchedule: job.Schedule,
		limiter:         rate.NewLimiter(rate.Every(TriggerInterval), 1),
	}
	rj.run = func() { r.execute(ctx, rj) }

	id, err := r.cron.AddFunc(job.Schedule, rj.run)
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", job.Name, err)
	}
	rj.entryID = id
	r.jobs[job.Name] = rj
	r.logger.Debug("registered scheduled job", "name", job.Name, "schedule", job.Schedule)
	return nil
}

// execute runs a job once with a timeout and records the outcome.
func (r *Registry) execute(ctx context.Context, rj *registeredJob) {
	ctx, cancel := context.WithTimeout(ctx, JobTimeout)
	defer cancel()

	start := time.Now()
	err := rj.job.Run(ctx)
	elapsed := time.Since(start)

	r.mu.Lock()
	rj.lastErr = err
	rj.lastDuration = elapsed
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn("scheduled job failed", "job", rj.job.Name, "error", err, "duration", elapsed)
		return
	}
	r.logger.Debug("scheduled job finished", "job", rj.job.Name, "duration", elapsed)
}

// List returns all registered jobs sorted by name.
func (r *Registry) List() []JobInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]JobInfo, 0, len(r.jobs))
	for _, rj := range r.jobs {
		entry := r.cron.Entry(rj.entryID)
		info := JobInfo{
			Name:            rj.job.Name,
			Description:     rj.job.Description,
			DefaultSchedule: rj.defaultSchedule,
			Schedule:        rj.job.Schedule,
			IsOverridden:    rj.job.Schedule != rj.defaultSchedule,
			LastRun:         entry.Prev,
			NextRun:         entry.Next,
			LastDuration:    rj.lastDuration,
		}
		if rj.lastErr != nil {
			info.LastError = rj.lastErr.Error()
		}
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// TriggerNow runs a job immediately in the caller's goroutine. Manual
// runs of the same job are rate limited.
func (r *Registry) TriggerNow(name string) error {
	r.mu.RLock()
	rj, ok := r.jobs[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	if !rj.limiter.Allow() {
		return fmt.Errorf("%w: %s", ErrTriggerLimit, name)
	}

	r.logger.Info("manually triggering job", "name", name)
	rj.run()

	r.mu.RLock()
	defer r.mu.RUnlock()
	return rj.lastErr
}

// UpdateSchedule replaces the schedule of a job.
func (r *Registry) UpdateSchedule(name, schedule string) error {
	if _, err := specParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	rj, ok := r.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return r.rescheduleLocked(rj, schedule)
}

// ResetSchedule restores the default schedule of a job.
func (r *Registry) ResetSchedule(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rj, ok := r.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	if rj.job.Schedule == rj.defaultSchedule {
		return nil
	}
	return r.rescheduleLocked(rj, rj.defaultSchedule)
}

func (r *Registry) rescheduleLocked(rj *registeredJob, schedule string) error {
	id, err := r.cron.AddFunc(schedule, rj.run)
	if err != nil {
		return fmt.Errorf("failed to apply new schedule: %w", err)
	}
	r.cron.Remove(rj.entryID)
	rj.entryID = id
	rj.job.Schedule = schedule
	r.logger.Info("updated job schedule", "name", rj.job.Name, "schedule", schedule)
	return nil
}
