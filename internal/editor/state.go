// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import "errors"

// State is the lifecycle state of an editor.
type State int

// Editor states.
const (
	StateIdle State = iota
	StateLoading
	StateEditing
	StateSaving
	StateDeleting
	StateError
)

var stateNames = [...]string{"idle", "loading", "editing", "saving", "deleting", "error"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Busy reports whether a network call owned by the editor is in flight.
func (s State) Busy() bool {
	return s == StateLoading || s == StateSaving || s == StateDeleting
}

// Errors returned by editor operations.
var (
	ErrBusy         = errors.New("editor is busy")
	ErrNotEditable  = errors.New("editor has no open draft")
	ErrNotConfirmed = errors.New("delete was not confirmed")
	ErrNotFound     = errors.New("record not found")
	ErrStale        = errors.New("result belongs to a closed editor")
	ErrMissingID    = errors.New("backend did not report the id of the created record")
)

// guard returns the error for starting an operation that needs StateEditing.
func (s State) guard() error {
	switch {
	case s == StateEditing:
		return nil
	case s.Busy():
		return ErrBusy
	default:
		return ErrNotEditable
	}
}
