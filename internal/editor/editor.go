// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package editor holds draft state for one backend collection and drives
// its load, save and delete lifecycle.
//
// An editor owns a single draft. Mutations are local and synchronous;
// only Open, Save and Delete talk to the backend, and never while the
// editor mutex is held. Every network result is tagged with the editor
// generation it was started in and dropped when the editor was closed or
// re-opened meanwhile.
//
// Saves are last-write-wins: the backend receives the whole draft and no
// version token is checked.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/olegiv/finpanel/internal/backend"
)

// ConfirmationTTL bounds how long a delete confirmation stays valid.
const ConfirmationTTL = 5 * time.Minute

// Entity is a draft value that knows its server id and deep-copies itself.
type Entity[D any] interface {
	EntityID() int64
	Clone() D
}

// Indexed entities carry a display order.
type Indexed interface {
	SortIndex() int
}

// Backend persists one collection.
type Backend[D any] interface {
	List(ctx context.Context) ([]D, error)
	Create(ctx context.Context, draft D) (int64, error)
	Update(ctx context.Context, id int64, draft D) error
	Delete(ctx context.Context, id int64) error
}

// Loader fetches auxiliary data an editor screen needs (relation catalogs,
// categories). Loader failures are logged and tolerated.
type Loader func(ctx context.Context) error

// ChangeFunc is called after a successful save or delete.
type ChangeFunc func(ctx context.Context, resource string)

// Config describes an editor for one resource.
type Config[D any] struct {
	// Resource names the collection in logs and change notifications.
	Resource string
	Backend  Backend[D]

	// Template builds a fresh draft. nextIndex is max(index)+1 of the list.
	Template func(nextIndex int) D
	Validate func(D) error
	Aux      []Loader

	// Singleton editors open the first record when asked for id 0.
	Singleton bool

	OnChange ChangeFunc
	Logger   *slog.Logger
	Now      func() time.Time
}

// Confirmation authorises exactly one delete of ID.
type Confirmation struct {
	Token   string
	ID      int64
	Expires time.Time
}

// Editor is the draft state machine for one collection.
type Editor[D Entity[D]] struct {
	cfg Config[D]

	mu       sync.Mutex
	state    State
	gen      uint64
	id       int64
	draft    D
	items    []D
	notice   Notice
	err      error
	confirms map[string]Confirmation
	touched  time.Time
}

// New creates an idle editor.
func New[D Entity[D]](cfg Config[D]) *Editor[D] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Validate == nil {
		cfg.Validate = func(D) error { return nil }
	}
	return &Editor[D]{
		cfg:      cfg,
		confirms: make(map[string]Confirmation),
		touched:  cfg.Now(),
	}
}

// Resource returns the configured resource name.
func (e *Editor[D]) Resource() string { return e.cfg.Resource }

// Open loads the collection and selects the record with the given id.
// id 0 starts a new draft (or the existing record for singletons).
func (e *Editor[D]) Open(ctx context.Context, id int64) error {
	e.mu.Lock()
	if e.state.Busy() {
		e.mu.Unlock()
		return ErrBusy
	}
	e.gen++
	gen := e.gen
	e.state = StateLoading
	e.err = nil
	e.touched = e.cfg.Now()
	e.mu.Unlock()

	var items []D
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = e.cfg.Backend.List(gctx)
		return err
	})
	for _, load := range e.cfg.Aux {
		g.Go(func() error {
			if err := load(gctx); err != nil && !errors.Is(err, context.Canceled) {
				e.cfg.Logger.Warn("auxiliary load failed", "resource", e.cfg.Resource, "error", err)
			}
			return nil
		})
	}
	err := g.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return ErrStale
	}
	if err != nil {
		e.fail(err)
		return err
	}

	e.items = sortItems(items)
	if id == 0 && e.cfg.Singleton && len(e.items) > 0 {
		id = e.items[0].EntityID()
	}
	if id == 0 {
		e.id = 0
		e.draft = e.template()
		e.state = StateEditing
		return nil
	}

	found, ok := e.find(id)
	if !ok {
		e.fail(ErrNotFound)
		return ErrNotFound
	}
	e.id = id
	e.draft = found.Clone()
	e.state = StateEditing
	return nil
}

// Ready returns the error Mutate would return right now: ErrBusy while a
// load, save or delete is in flight, ErrNotEditable without a draft.
func (e *Editor[D]) Ready() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.guard()
}

// Mutate applies fn to the draft. It never touches the network.
func (e *Editor[D]) Mutate(fn func(draft *D)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.state.guard(); err != nil {
		return err
	}
	fn(&e.draft)
	e.touched = e.cfg.Now()
	return nil
}

// Save validates the draft and sends it to the backend. On success the
// draft is replaced by the server copy; on failure it is left unchanged.
func (e *Editor[D]) Save(ctx context.Context) error {
	e.mu.Lock()
	if err := e.state.guard(); err != nil {
		e.mu.Unlock()
		return err
	}
	draft := e.draft.Clone()
	now := e.cfg.Now()
	if err := e.cfg.Validate(draft); err != nil {
		e.notice = newNotice(NoticeError, KeyInvalid, err.Error(), now)
		e.mu.Unlock()
		return err
	}
	e.state = StateSaving
	e.touched = now
	gen, id := e.gen, e.id
	known := make(map[int64]bool, len(e.items))
	for _, item := range e.items {
		known[item.EntityID()] = true
	}
	e.mu.Unlock()

	var err error
	if id == 0 {
		id, err = e.cfg.Backend.Create(ctx, draft)
	} else {
		err = e.cfg.Backend.Update(ctx, id, draft)
	}
	if err != nil {
		e.cfg.Logger.Error("save failed", "resource", e.cfg.Resource, "id", id, "error", err)
		return e.finish(gen, err, func() {
			e.notice = newNotice(NoticeError, KeySaveFailed, backend.UserMessage(err, ""), e.cfg.Now())
		})
	}

	items, listErr := e.cfg.Backend.List(ctx)
	if id == 0 {
		// The create answer carried no id. Adopt the record only when the
		// re-fetched list shows exactly one new one; saving again blindly
		// would create a duplicate.
		if id = createdID(items, known); listErr != nil || id == 0 {
			e.cfg.Logger.Error("created record not identified", "resource", e.cfg.Resource, "list_error", listErr)
			return e.finish(gen, ErrMissingID, func() {
				if listErr == nil {
					e.items = sortItems(items)
				}
				e.notice = newNotice(NoticeError, KeyUnconfirmed, "", e.cfg.Now())
			})
		}
	}

	finishErr := e.finish(gen, nil, func() {
		e.id = id
		if listErr != nil {
			e.cfg.Logger.Warn("refresh after save failed", "resource", e.cfg.Resource, "error", listErr)
			e.notice = newNotice(NoticeError, KeyRefreshFailed, "", e.cfg.Now())
			return
		}
		e.items = sortItems(items)
		if saved, ok := e.find(id); ok {
			e.draft = saved.Clone()
		}
		e.notice = newNotice(NoticeSuccess, KeySaved, "", e.cfg.Now())
	})
	if finishErr == nil {
		e.cfg.Logger.Info("saved", "resource", e.cfg.Resource, "id", id)
		e.changed(ctx)
	}
	return finishErr
}

// RequestDelete issues a single-use confirmation for deleting id.
func (e *Editor[D]) RequestDelete(id int64) (Confirmation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.state.guard(); err != nil {
		return Confirmation{}, err
	}
	if _, ok := e.find(id); !ok {
		return Confirmation{}, ErrNotFound
	}
	now := e.cfg.Now()
	for token, c := range e.confirms {
		if !now.Before(c.Expires) {
			delete(e.confirms, token)
		}
	}
	c := Confirmation{Token: uuid.NewString(), ID: id, Expires: now.Add(ConfirmationTTL)}
	e.confirms[c.Token] = c
	return c, nil
}

// Delete removes the record named by a confirmation token. The list is
// updated only after the backend confirms and the collection is re-fetched.
func (e *Editor[D]) Delete(ctx context.Context, token string) error {
	e.mu.Lock()
	if err := e.state.guard(); err != nil {
		e.mu.Unlock()
		return err
	}
	c, ok := e.confirms[token]
	delete(e.confirms, token)
	now := e.cfg.Now()
	if !ok || !now.Before(c.Expires) {
		e.mu.Unlock()
		return ErrNotConfirmed
	}
	e.state = StateDeleting
	e.touched = now
	gen := e.gen
	e.mu.Unlock()

	if err := e.cfg.Backend.Delete(ctx, c.ID); err != nil {
		e.cfg.Logger.Error("delete failed", "resource", e.cfg.Resource, "id", c.ID, "error", err)
		return e.finish(gen, err, func() {
			e.notice = newNotice(NoticeError, KeyDeleteFailed, backend.UserMessage(err, ""), e.cfg.Now())
		})
	}

	items, listErr := e.cfg.Backend.List(ctx)
	finishErr := e.finish(gen, nil, func() {
		if listErr != nil {
			e.cfg.Logger.Warn("refresh after delete failed", "resource", e.cfg.Resource, "error", listErr)
			e.items = removeItem(e.items, c.ID)
		} else {
			e.items = sortItems(items)
		}
		if e.id == c.ID {
			e.id = 0
			e.draft = e.template()
		}
		e.notice = newNotice(NoticeSuccess, KeyDeleted, "", e.cfg.Now())
	})
	if finishErr == nil {
		e.cfg.Logger.Info("deleted", "resource", e.cfg.Resource, "id", c.ID)
		e.changed(ctx)
	}
	return finishErr
}

// Close discards the draft. Results of calls still in flight are dropped.
func (e *Editor[D]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	e.state = StateIdle
	e.id = 0
	var zero D
	e.draft = zero
	e.items = nil
	e.err = nil
	e.notice = Notice{}
	clear(e.confirms)
}

// State returns the current state.
func (e *Editor[D]) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the error that moved the editor into StateError.
func (e *Editor[D]) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// ID returns the server id of the open record, 0 for a new draft.
func (e *Editor[D]) ID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

// Draft returns a copy of the current draft.
func (e *Editor[D]) Draft() D {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Clone()
}

// Items returns copies of the loaded records in display order.
func (e *Editor[D]) Items() []D {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]D, len(e.items))
	for i, item := range e.items {
		out[i] = item.Clone()
	}
	return out
}

// Notice returns the current notice while it is active.
func (e *Editor[D]) Notice() (Notice, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.notice.Active(e.cfg.Now()) {
		return Notice{}, false
	}
	return e.notice, true
}

// LastActivity returns when the editor was last used.
func (e *Editor[D]) LastActivity() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.touched
}

// createdID returns the id of the only record in items that is not in
// known, or 0 when there is none or more than one.
func createdID[D Entity[D]](items []D, known map[int64]bool) int64 {
	var found int64
	for _, item := range items {
		if id := item.EntityID(); !known[id] {
			if found != 0 {
				return 0
			}
			found = id
		}
	}
	return found
}

// finish applies the result of a network call if it still belongs to the
// current generation.
func (e *Editor[D]) finish(gen uint64, err error, apply func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return ErrStale
	}
	e.state = StateEditing
	apply()
	return err
}

func (e *Editor[D]) fail(err error) {
	e.state = StateError
	e.err = err
	e.cfg.Logger.Error("editor load failed", "resource", e.cfg.Resource, "error", err)
}

func (e *Editor[D]) template() D {
	if e.cfg.Template == nil {
		var zero D
		return zero
	}
	return e.cfg.Template(NextIndex(e.items))
}

func (e *Editor[D]) find(id int64) (D, bool) {
	for _, item := range e.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero D
	return zero, false
}

func (e *Editor[D]) changed(ctx context.Context) {
	if e.cfg.OnChange != nil {
		e.cfg.OnChange(context.WithoutCancel(ctx), e.cfg.Resource)
	}
}

// NextIndex returns one past the largest index in items, or 1 for an
// empty list. Gaps are kept; existing indices are never rewritten.
func NextIndex[D any](items []D) int {
	highest := 0
	for _, item := range items {
		if ix, ok := any(item).(Indexed); ok && ix.SortIndex() > highest {
			highest = ix.SortIndex()
		}
	}
	return highest + 1
}

func sortItems[D any](items []D) []D {
	sort.SliceStable(items, func(i, j int) bool {
		a, aok := any(items[i]).(Indexed)
		b, bok := any(items[j]).(Indexed)
		if !aok || !bok {
			return false
		}
		return a.SortIndex() < b.SortIndex()
	})
	return items
}

func removeItem[D Entity[D]](items []D, id int64) []D {
	out := items[:0:0]
	for _, item := range items {
		if item.EntityID() != id {
			out = append(out, item)
		}
	}
	return out
}
