// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// LocalizedText holds one label per content language.
// A missing translation is the empty string, never an absent value.
type LocalizedText struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// NewLocalizedText builds a LocalizedText from per-language values.
func NewLocalizedText(primary, secondary string) LocalizedText {
	return LocalizedText{Primary: primary, Secondary: secondary}
}

// Get returns the label for lang, or "" when it is not set.
func (t LocalizedText) Get(lang Language) string {
	switch lang {
	case LanguagePrimary:
		return t.Primary
	case LanguageSecondary:
		return t.Secondary
	default:
		return ""
	}
}

// Set returns a copy of t with the label for lang replaced.
// Other languages are left untouched; unknown languages leave t unchanged.
func (t LocalizedText) Set(lang Language, value string) LocalizedText {
	switch lang {
	case LanguagePrimary:
		t.Primary = value
	case LanguageSecondary:
		t.Secondary = value
	}
	return t
}

// Has reports whether lang has a non-blank translation.
func (t LocalizedText) Has(lang Language) bool {
	return strings.TrimSpace(t.Get(lang)) != ""
}

// Any reports whether at least one language has a non-blank translation.
func (t LocalizedText) Any() bool {
	for _, lang := range Languages {
		if t.Has(lang) {
			return true
		}
	}
	return false
}

// Missing returns the languages without a translation.
func (t LocalizedText) Missing() []Language {
	var missing []Language
	for _, lang := range Languages {
		if !t.Has(lang) {
			missing = append(missing, lang)
		}
	}
	return missing
}

// Trimmed returns a copy with surrounding whitespace removed from every label.
func (t LocalizedText) Trimmed() LocalizedText {
	return LocalizedText{
		Primary:   strings.TrimSpace(t.Primary),
		Secondary: strings.TrimSpace(t.Secondary),
	}
}
