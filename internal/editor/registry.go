// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"sync"
	"time"
)

// Registry keeps editors per browser workspace and record key, so two
// sessions (or two records in one session) never share a draft.
type Registry[D Entity[D]] struct {
	mu      sync.Mutex
	factory func() *Editor[D]
	editors map[registryKey]*Editor[D]
}

type registryKey struct {
	workspace string
	key       string
}

// NewRegistry creates a registry that builds editors with factory.
func NewRegistry[D Entity[D]](factory func() *Editor[D]) *Registry[D] {
	return &Registry[D]{
		factory: factory,
		editors: make(map[registryKey]*Editor[D]),
	}
}

// Get returns the editor for workspace/key, creating it if needed.
func (r *Registry[D]) Get(workspace, key string) *Editor[D] {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := registryKey{workspace, key}
	e, ok := r.editors[k]
	if !ok {
		e = r.factory()
		r.editors[k] = e
	}
	return e
}

// Lookup returns an existing editor without creating one.
func (r *Registry[D]) Lookup(workspace, key string) (*Editor[D], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.editors[registryKey{workspace, key}]
	return e, ok
}

// Drop closes and forgets the editor for workspace/key.
func (r *Registry[D]) Drop(workspace, key string) {
	r.mu.Lock()
	k := registryKey{workspace, key}
	e, ok := r.editors[k]
	delete(r.editors, k)
	r.mu.Unlock()
	if ok {
		e.Close()
	}
}

// Len returns the number of live editors.
func (r *Registry[D]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.editors)
}

// Sweep closes editors idle for longer than idle. Busy editors are kept.
func (r *Registry[D]) Sweep(now time.Time, idle time.Duration) int {
	r.mu.Lock()
	var stale []*Editor[D]
	for k, e := range r.editors {
		if e.State().Busy() || now.Sub(e.LastActivity()) < idle {
			continue
		}
		stale = append(stale, e)
		delete(r.editors, k)
	}
	r.mu.Unlock()

	for _, e := range stale {
		e.Close()
	}
	return len(stale)
}

// Sweeper is implemented by every Registry regardless of draft type.
type Sweeper interface {
	Sweep(now time.Time, idle time.Duration) int
	Len() int
}
