// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	if err := Init("en", nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, lang := range SupportedLanguages {
		if catalog.Count(lang) == 0 {
			t.Errorf("Expected %s translations to be loaded", lang)
		}
	}
}

func TestInitUnsupportedDefault(t *testing.T) {
	if err := Init("de", nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if got := DefaultLanguage(); got != "en" {
		t.Errorf("DefaultLanguage() = %q, want en", got)
	}

	if err := Init("mn", nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if got := DefaultLanguage(); got != "mn" {
		t.Errorf("DefaultLanguage() = %q, want mn", got)
	}
	if got := MatchLanguage("de"); got != "mn" {
		t.Errorf("MatchLanguage(de) = %q, want mn", got)
	}
}

func TestT(t *testing.T) {
	if err := Init("en", nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		lang     string
		key      string
		args     []any
		expected string
	}{
		{"en", "btn.save", nil, "Save"},
		{"mn", "btn.save", nil, "Хадгалах"},
		{"en", "btn.cancel", nil, "Cancel"},
		{"mn", "btn.cancel", nil, "Болих"},
		{"en", "nav.dashboard", nil, "Dashboard"},
		{"mn", "nav.dashboard", nil, "Хянах самбар"},
		{"en", "jobs.triggered", []any{"catalog-refresh"}, "catalog-refresh finished"},
		{"mn", "jobs.triggered", []any{"catalog-refresh"}, "catalog-refresh ажил дууслаа"},
		// Fallback to English for unknown language
		{"de", "btn.save", nil, "Save"},
		// Return key if not found
		{"en", "nonexistent.key", nil, "nonexistent.key"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"_"+tt.key, func(t *testing.T) {
			result := T(tt.lang, tt.key, tt.args...)
			if result != tt.expected {
				t.Errorf("T(%q, %q, %v) = %q, want %q", tt.lang, tt.key, tt.args, result, tt.expected)
			}
		})
	}
}

func TestTBeforeInit(t *testing.T) {
	saved := catalog
	catalog = nil
	defer func() { catalog = saved }()

	if got := T("en", "btn.save"); got != "btn.save" {
		t.Errorf("T before Init = %q, want key", got)
	}
	if got := MatchLanguage("mn"); got != "en" {
		t.Errorf("MatchLanguage before Init = %q, want en", got)
	}
}

func TestMatchLanguage(t *testing.T) {
	if err := Init("en", nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"mn", "mn"},
		{"en-US", "en"},
		{"mn-MN", "mn"},
		{"de", "en"},      // Falls back to default
		{"invalid", "en"}, // Falls back to default
		{"en-US, mn;q=0.9, de;q=0.8", "en"},
		{"mn-MN, en;q=0.9", "mn"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MatchLanguage(tt.input); got != tt.expected {
				t.Errorf("MatchLanguage(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		lang     string
		expected bool
	}{
		{"en", true},
		{"mn", true},
		{"EN", true},
		{"MN", true},
		{"ru", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			if got := IsSupported(tt.lang); got != tt.expected {
				t.Errorf("IsSupported(%q) = %v, want %v", tt.lang, got, tt.expected)
			}
		})
	}
}

func TestCatalogMissing(t *testing.T) {
	c, err := NewCatalog("en", nil)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	if missing := c.Missing("mn"); len(missing) > 0 {
		t.Errorf("mn is missing translations: %v", missing)
	}
	if missing := c.Missing("fr"); len(missing) != c.Count("en") {
		t.Errorf("Missing(fr) = %d keys, want %d", len(missing), c.Count("en"))
	}
}

func loadMessageFile(t *testing.T, lang string) MessageFile {
	t.Helper()
	data, err := localesFS.ReadFile(fmt.Sprintf("locales/%s/messages.json", lang))
	if err != nil {
		t.Fatalf("read %s: %v", lang, err)
	}
	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		t.Fatalf("parse %s: %v", lang, err)
	}
	return msgFile
}

func TestTranslationFiles(t *testing.T) {
	for _, lang := range SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			msgFile := loadMessageFile(t, lang)
			if msgFile.Language != lang {
				t.Errorf("file declares language %q", msgFile.Language)
			}

			seen := make(map[string]bool, len(msgFile.Messages))
			for _, msg := range msgFile.Messages {
				if seen[msg.ID] {
					t.Errorf("duplicate id %q", msg.ID)
				}
				seen[msg.ID] = true
				if msg.Translation == "" {
					t.Errorf("empty translation for %q", msg.ID)
				}
			}
		})
	}
}

// Every language must carry the same keys with the same placeholders, or
// a formatted flash message ends up with %!s(MISSING) in one of them.
func TestTranslationFilesMatch(t *testing.T) {
	byLang := make(map[string]map[string]string)
	for _, lang := range SupportedLanguages {
		byLang[lang] = make(map[string]string)
		for _, msg := range loadMessageFile(t, lang).Messages {
			byLang[lang][msg.ID] = msg.Translation
		}
	}

	ref := SupportedLanguages[0]
	for _, lang := range SupportedLanguages[1:] {
		for id, text := range byLang[ref] {
			other, ok := byLang[lang][id]
			if !ok {
				t.Errorf("%q is in %s but missing in %s", id, ref, lang)
				continue
			}
			if a, b := strings.Count(text, "%s"), strings.Count(other, "%s"); a != b {
				t.Errorf("%q has %d placeholders in %s and %d in %s", id, a, ref, b, lang)
			}
		}
		for id := range byLang[lang] {
			if _, ok := byLang[ref][id]; !ok {
				t.Errorf("%q is in %s but missing in %s", id, lang, ref)
			}
		}
	}
}
