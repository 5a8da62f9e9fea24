// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package relation

import "sync"

// Pool shares selectors between requests so pending state is visible to
// every request that touches the same parent list.
type Pool struct {
	mu        sync.Mutex
	selectors map[string]*Selector
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{selectors: make(map[string]*Selector)}
}

// Get returns the selector for key, creating it with build if needed.
func (p *Pool) Get(key string, build func() *Selector) *Selector {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.selectors[key]
	if !ok {
		s = build()
		p.selectors[key] = s
	}
	return s
}

// Drop forgets the selector for key.
func (p *Pool) Drop(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.selectors, key)
}

// Sweep forgets selectors with nothing in flight and returns how many.
func (p *Pool) Sweep() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for key, s := range p.selectors {
		if s.PendingCount() == 0 {
			delete(p.selectors, key)
			n++
		}
	}
	return n
}
