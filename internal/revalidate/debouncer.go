// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package revalidate

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DebounceConfig holds debouncer configuration.
type DebounceConfig struct {
	// Interval is the quiet period after the last change of a resource.
	Interval time.Duration
	// MaxWait bounds how long a busy resource can be held back.
	MaxWait time.Duration
}

// DefaultDebounceConfig returns default debounce configuration.
func DefaultDebounceConfig() DebounceConfig {
	return DebounceConfig{
		Interval: 2 * time.Second,
		MaxWait:  10 * time.Second,
	}
}

type pending struct {
	timer     *time.Timer
	firstSeen time.Time
}

// Debouncer coalesces repeated changes of one resource into one
// notification. Editors saving several slides in a row cause one rebuild.
type Debouncer struct {
	sink    Sink
	config  DebounceConfig
	logger  *slog.Logger
	pending map[string]*pending
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDebouncer creates a debouncer that forwards to sink.
func NewDebouncer(sink Sink, config DebounceConfig, logger *slog.Logger) *Debouncer {
	if config.Interval <= 0 {
		config = DefaultDebounceConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Debouncer{
		sink:    sink,
		config:  config,
		logger:  logger,
		pending: make(map[string]*pending),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Changed records a change of resource. It has the signature of an editor
// change callback; the context is not used for the delayed send.
func (d *Debouncer) Changed(_ context.Context, resource string) {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.pending[resource]; ok {
		if now.Sub(existing.firstSeen) >= d.config.MaxWait {
			d.dispatchLocked(resource)
			return
		}
		existing.timer.Reset(d.config.Interval)
		return
	}

	p := &pending{firstSeen: now}
	p.timer = time.AfterFunc(d.config.Interval, func() {
		d.mu.Lock()
		d.dispatchLocked(resource)
		d.mu.Unlock()
	})
	d.pending[resource] = p
	d.logger.Debug("revalidation queued", "resource", resource)
}

// dispatchLocked sends a pending notification. Must be called with lock held.
func (d *Debouncer) dispatchLocked(resource string) {
	p, ok := d.pending[resource]
	if !ok {
		return
	}
	p.timer.Stop()
	delete(d.pending, resource)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.sink.Notify(d.ctx, resource); err != nil {
			d.logger.Warn("site revalidation failed", "resource", resource, "error", err)
		}
	}()
}

// Flush sends all pending notifications now.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for resource := range d.pending {
		d.dispatchLocked(resource)
	}
}

// Stop flushes pending notifications and waits for them to finish.
func (d *Debouncer) Stop() {
	d.Flush()
	d.wg.Wait()
	d.cancel()
}

// PendingCount returns the number of held-back resources.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
