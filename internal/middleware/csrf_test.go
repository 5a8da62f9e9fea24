// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig_Development(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, "0.0.0.0:8080", true)

	for _, want := range []string{"0.0.0.0:8080", "localhost:8080", "127.0.0.1:8080"} {
		if !slices.Contains(cfg.TrustedOrigins, want) {
			t.Errorf("TrustedOrigins %v missing %q", cfg.TrustedOrigins, want)
		}
	}
	for _, origin := range cfg.TrustedOrigins {
		if len(origin) > 4 && origin[:4] == "http" {
			t.Errorf("TrustedOrigin should be host:port, not full URL: %s", origin)
		}
	}
}

func TestDefaultCSRFConfig_NoDuplicateLocalhost(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, "localhost:9000", true)
	if len(cfg.TrustedOrigins) != 2 {
		t.Errorf("TrustedOrigins = %v, want localhost and 127.0.0.1 once each", cfg.TrustedOrigins)
	}
}

func TestDefaultCSRFConfig_Production(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, "0.0.0.0:8080", false)
	if len(cfg.TrustedOrigins) != 0 {
		t.Errorf("expected no TrustedOrigins in production, got %d", len(cfg.TrustedOrigins))
	}
}

func TestCSRF_RejectsCrossSitePost(t *testing.T) {
	var reached bool
	h := CSRF(DefaultCSRFConfig(testAuthKey, "localhost:8080", false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/products/1/save", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if reached {
		t.Error("cross-site POST reached the handler")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Status = %d, want 403", rec.Code)
	}
}

func TestCSRF_AllowsSameOriginPost(t *testing.T) {
	var reached bool
	h := CSRF(DefaultCSRFConfig(testAuthKey, "localhost:8080", false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/products/1/save", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !reached {
		t.Error("same-origin POST was rejected")
	}
}
