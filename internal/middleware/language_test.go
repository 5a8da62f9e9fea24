// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/finpanel/internal/i18n"
	"github.com/olegiv/finpanel/internal/session"
)

func TestAdminLanguage(t *testing.T) {
	if err := i18n.Init("en", nil); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}

	tests := []struct {
		name       string
		url        string
		cookie     string
		accept     string
		want       string
		wantCookie bool
	}{
		{"default", "/", "", "", "en", false},
		{"query switch", "/?ui=mn", "", "", "mn", true},
		{"unsupported query ignored", "/?ui=de", "", "", "en", false},
		{"cookie", "/", "mn", "", "mn", false},
		{"query beats cookie", "/?ui=en", "mn", "", "en", true},
		{"accept-language", "/", "", "mn-MN,en;q=0.5", "mn", false},
		{"cookie beats accept-language", "/", "en", "mn", "en", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := AdminLanguage(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetAdminLanguage(r)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got != tt.want {
				t.Errorf("language = %q, want %q", got, tt.want)
			}
			setCookie := rec.Header().Get("Set-Cookie") != ""
			if setCookie != tt.wantCookie {
				t.Errorf("Set-Cookie present = %v, want %v", setCookie, tt.wantCookie)
			}
		})
	}
}

func TestWorkspace(t *testing.T) {
	sm := session.New(true)
	var got string
	h := sm.LoadAndSave(Workspace(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetWorkspace(r)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got == "" {
		t.Error("GetWorkspace() returned an empty id")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetWorkspace(req) != "" {
		t.Error("GetWorkspace() without middleware should be empty")
	}
}
