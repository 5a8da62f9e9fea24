// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import "time"

// Notice display durations.
const (
	SuccessNoticeTTL = 3 * time.Second
	ErrorNoticeTTL   = 5 * time.Second
)

// NoticeKind distinguishes success from error notices.
type NoticeKind string

// Notice kinds.
const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice keys, resolved through the admin translation catalog.
const (
	KeySaved         = "editor.saved"
	KeyDeleted       = "editor.deleted"
	KeySaveFailed    = "editor.save_failed"
	KeyDeleteFailed  = "editor.delete_failed"
	KeyRefreshFailed = "editor.refresh_failed"
	KeyUnconfirmed   = "editor.create_unconfirmed"
	KeyInvalid       = "editor.invalid"
)

// Notice is a transient message about the last save or delete.
// Message, when set, is shown verbatim instead of the translated Key.
type Notice struct {
	Kind    NoticeKind
	Key     string
	Message string
	Expires time.Time
}

// Active reports whether the notice should still be shown at now.
func (n Notice) Active(now time.Time) bool {
	return n.Key != "" && now.Before(n.Expires)
}

func newNotice(kind NoticeKind, key, message string, now time.Time) Notice {
	ttl := SuccessNoticeTTL
	if kind == NoticeError {
		ttl = ErrorNoticeTTL
	}
	return Notice{Kind: kind, Key: key, Message: message, Expires: now.Add(ttl)}
}
