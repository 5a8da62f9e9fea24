// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures browser sessions. A session carries flash
// messages and the workspace id that scopes editor drafts.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/google/uuid"
)

// Session keys.
const (
	KeyWorkspace = "workspace"
	KeyFlash     = "flash"
	KeyFlashType = "flash_type"
)

// Lifetime bounds a session. Drafts do not outlive it.
const (
	Lifetime    = 12 * time.Hour
	IdleTimeout = 4 * time.Hour
)

// New creates a session manager backed by an in-memory store. Sessions
// hold only unsaved drafts, so losing them on restart matches losing an
// unsaved browser tab.
func New(isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = memstore.NewWithCleanupInterval(10 * time.Minute)

	sm.Lifetime = Lifetime
	sm.IdleTimeout = IdleTimeout
	sm.Cookie.Name = "finpanel_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev // Secure cookies in production only
	if !isDev {
		sm.Cookie.Name = "__Host-finpanel_session"
	}

	return sm
}

// Workspace returns the workspace id of the current session, creating
// one on first use. The request must pass through sm.LoadAndSave.
func Workspace(ctx context.Context, sm *scs.SessionManager) string {
	if id := sm.GetString(ctx, KeyWorkspace); id != "" {
		return id
	}
	id := uuid.NewString()
	sm.Put(ctx, KeyWorkspace, id)
	return id
}
