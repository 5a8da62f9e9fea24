// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/olegiv/finpanel/internal/i18n"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys.
const (
	ContextKeyAdminLanguage ContextKey = "admin_language"
	ContextKeyWorkspace     ContextKey = "workspace"
)

// LanguageCookieName is the cookie name for the admin UI language.
const LanguageCookieName = "finpanel_ui_lang"

// AdminLanguage detects the admin UI language. Priority order:
//  1. Query parameter ?ui=XX (explicit switch, updates the cookie)
//  2. Cookie preference
//  3. Accept-Language header
//  4. Default language
func AdminLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if q := strings.ToLower(r.URL.Query().Get("ui")); q != "" && i18n.IsSupported(q) {
			lang = q
			SetLanguageCookie(w, lang)
		}
		if lang == "" {
			if c, err := r.Cookie(LanguageCookieName); err == nil && i18n.IsSupported(c.Value) {
				lang = strings.ToLower(c.Value)
			}
		}
		if lang == "" {
			if accept := r.Header.Get("Accept-Language"); accept != "" {
				lang = i18n.MatchLanguage(accept)
			} else {
				lang = i18n.DefaultLanguage()
			}
		}
		ctx := context.WithValue(r.Context(), ContextKeyAdminLanguage, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAdminLanguage returns the admin UI language of the request.
func GetAdminLanguage(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyAdminLanguage).(string); ok {
		return lang
	}
	return i18n.DefaultLanguage()
}

// SetLanguageCookie sets the admin UI language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, langCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
