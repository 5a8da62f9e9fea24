// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/finpanel/internal/session"
)

// Workspace puts the session's workspace id into the request context.
// It must run inside sm.LoadAndSave.
func Workspace(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := session.Workspace(r.Context(), sm)
			ctx := context.WithValue(r.Context(), ContextKeyWorkspace, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetWorkspace returns the workspace id of the request, or "".
func GetWorkspace(r *http.Request) string {
	id, _ := r.Context().Value(ContextKeyWorkspace).(string)
	return id
}
