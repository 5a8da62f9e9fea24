// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Language identifies one of the two content languages of the public site.
// The numeric value is the backend's wire code and carries no other meaning.
type Language int

// Content languages.
const (
	LanguagePrimary   Language = 1
	LanguageSecondary Language = 2
)

// Languages lists every supported content language in wire order.
var Languages = []Language{LanguagePrimary, LanguageSecondary}

// languageInfo holds display data for a content language.
var languageInfo = map[Language]struct {
	Code       string
	NativeName string
}{
	LanguagePrimary:   {"mn", "Монгол"},
	LanguageSecondary: {"en", "English"},
}

// Code returns the short code used in URLs and preview toggles.
func (l Language) Code() string {
	if info, ok := languageInfo[l]; ok {
		return info.Code
	}
	return ""
}

// NativeName returns the language name written in that language.
func (l Language) NativeName() string {
	if info, ok := languageInfo[l]; ok {
		return info.NativeName
	}
	return ""
}

// Valid reports whether l is a supported content language.
func (l Language) Valid() bool {
	_, ok := languageInfo[l]
	return ok
}

func (l Language) String() string {
	if code := l.Code(); code != "" {
		return code
	}
	return "Language(" + strconv.Itoa(int(l)) + ")"
}

// ParseLanguage accepts a display code ("mn", "en") or a wire code ("1", "2").
func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, lang := range Languages {
		if s == lang.Code() || s == strconv.Itoa(int(lang)) {
			return lang, nil
		}
	}
	return 0, fmt.Errorf("unsupported language %q", s)
}

// ParseLanguageOr returns the parsed language or def when s is empty or unknown.
func ParseLanguageOr(s string, def Language) Language {
	lang, err := ParseLanguage(s)
	if err != nil {
		return def
	}
	return lang
}
