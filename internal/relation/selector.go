// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package relation manages many-to-many lists between a parent record and
// taxonomy items, with per-item pending state for in-flight changes.
package relation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/olegiv/finpanel/internal/model"
)

// Op is a relation change.
type Op int

// Relation operations.
const (
	OpAdd Op = iota + 1
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	default:
		return "none"
	}
}

func (o Op) inverse() Op {
	if o == OpAdd {
		return OpRemove
	}
	return OpAdd
}

// ErrPending is returned when an operation for the same id is in flight.
var ErrPending = errors.New("operation already in progress for this item")

// Hook persists a change before the list is updated. A nil Hook makes the
// selector purely local (used for drafts that are not saved yet).
type Hook func(ctx context.Context, op Op, item model.Relation) error

// Binding reads and writes the relation list of the parent draft.
// Ready, when set, is checked before anything is persisted; a parent that
// cannot take the change right now rejects it up front.
type Binding struct {
	Load  func() model.RelationList
	Store func(model.RelationList) error
	Ready func() error
}

// Selector adds and removes relation entries.
type Selector struct {
	binding Binding
	hook    Hook

	mu      sync.Mutex
	pending map[int64]Op
}

// New creates a selector over binding.
func New(binding Binding, hook Hook) *Selector {
	return &Selector{
		binding: binding,
		hook:    hook,
		pending: make(map[int64]Op),
	}
}

// SetHook replaces the persistence hook (e.g. once the parent is saved).
func (s *Selector) SetHook(hook Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = hook
}

// Selected returns the current relation list.
func (s *Selector) Selected() model.RelationList {
	return s.binding.Load().Clone()
}

// Available returns catalog items that are not selected yet.
func (s *Selector) Available(catalog []model.TaxonomyItem) []model.TaxonomyItem {
	selected := s.binding.Load()
	out := make([]model.TaxonomyItem, 0, len(catalog))
	for _, item := range catalog {
		if !selected.Contains(item.ID) {
			out = append(out, item)
		}
	}
	return out
}

// CanAdd is false when the catalog is empty or fully selected.
func (s *Selector) CanAdd(catalog []model.TaxonomyItem) bool {
	return len(s.Available(catalog)) > 0
}

// Pending returns the in-flight operation for id, if any.
func (s *Selector) Pending(id int64) (Op, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.pending[id]
	return op, ok
}

// PendingCount returns the number of in-flight operations.
func (s *Selector) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Add relates item to the parent. Adding a selected item is a no-op.
func (s *Selector) Add(ctx context.Context, item model.TaxonomyItem) error {
	rel := item.AsRelation()
	return s.run(ctx, OpAdd, rel, func(list model.RelationList) (model.RelationList, bool) {
		if list.Contains(rel.ID) {
			return list, false
		}
		return list.With(rel), true
	})
}

// Remove unrelates id from the parent. Removing an absent id is a no-op.
func (s *Selector) Remove(ctx context.Context, id int64) error {
	var rel model.Relation
	for _, r := range s.binding.Load() {
		if r.ID == id {
			rel = r
		}
	}
	return s.run(ctx, OpRemove, model.Relation{ID: id, Label: rel.Label}, func(list model.RelationList) (model.RelationList, bool) {
		if !list.Contains(id) {
			return list, false
		}
		return list.Without(id), true
	})
}

// run marks rel pending, persists through the hook and applies change to
// a fresh copy of the list so concurrent operations on other ids survive.
func (s *Selector) run(ctx context.Context, op Op, rel model.Relation, change func(model.RelationList) (model.RelationList, bool)) error {
	s.mu.Lock()
	if _, busy := s.pending[rel.ID]; busy {
		s.mu.Unlock()
		return ErrPending
	}
	if _, changed := change(s.binding.Load()); !changed {
		s.mu.Unlock()
		return nil
	}
	if s.binding.Ready != nil {
		if err := s.binding.Ready(); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.pending[rel.ID] = op
	hook := s.hook
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pending, rel.ID)
		s.mu.Unlock()
	}()

	if hook != nil {
		if err := hook(ctx, op, rel); err != nil {
			return err
		}
	}

	s.mu.Lock()
	next, changed := change(s.binding.Load())
	if !changed {
		s.mu.Unlock()
		return nil
	}
	err := s.binding.Store(next)
	s.mu.Unlock()
	if err == nil || hook == nil {
		return err
	}

	// The parent turned busy after the hook persisted the change. Undo it
	// so the reported failure matches what the backend holds.
	if undoErr := hook(context.WithoutCancel(ctx), op.inverse(), rel); undoErr != nil {
		return errors.Join(err, fmt.Errorf("reverting %s of %d: %w", op, rel.ID, undoErr))
	}
	return err
}
