// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides translations for the admin UI. The admin UI
// language is independent of the content language being edited.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// SupportedLanguages lists the admin UI languages.
var SupportedLanguages = []string{"en", "mn"}

// Catalog holds all translations for all supported languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	matcher      language.Matcher
	supported    []language.Tag
	defaultLang  string
	logger       *slog.Logger
}

// catalog is the process-wide catalog used by T.
var catalog *Catalog

// NewCatalog loads every supported language from the embedded locales.
// defaultLang is used for unknown languages and missing keys.
func NewCatalog(defaultLang string, logger *slog.Logger) (*Catalog, error) {
	if !IsSupported(defaultLang) {
		defaultLang = SupportedLanguages[0]
	}
	c := &Catalog{
		translations: make(map[string]map[string]string),
		defaultLang:  strings.ToLower(defaultLang),
		logger:       logger,
	}

	// The default language goes first so the matcher prefers it on ties.
	ordered := append([]string{c.defaultLang}, slices.DeleteFunc(slices.Clone(SupportedLanguages), func(l string) bool {
		return l == c.defaultLang
	})...)
	for _, lang := range ordered {
		c.supported = append(c.supported, language.MustParse(lang))
		if err := c.loadLanguage(lang); err != nil {
			return nil, fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}
	c.matcher = language.NewMatcher(c.supported)
	return c, nil
}

// Init sets the process-wide catalog.
func Init(defaultLang string, logger *slog.Logger) error {
	c, err := NewCatalog(defaultLang, logger)
	if err != nil {
		return err
	}
	catalog = c
	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages, "default", c.defaultLang)
	}
	return nil
}

// loadLanguage loads translations for a specific language.
func (c *Catalog) loadLanguage(lang string) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.translations[lang] = make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		c.translations[lang][msg.ID] = msg.Translation
	}

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(msgFile.Messages))
	}
	return nil
}

// T translates key into lang, falling back to the default language and
// then to the key itself. Arguments are applied with fmt.Sprintf.
func (c *Catalog) T(lang, key string, args ...any) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	translation, ok := c.translations[lang][key]
	if !ok && lang != c.defaultLang {
		translation, ok = c.translations[c.defaultLang][key]
		if ok && c.logger != nil {
			c.logger.Debug("missing translation, using default", "key", key, "lang", lang)
		}
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

// Match finds the best supported language for an Accept-Language header
// or a bare language code.
func (c *Catalog) Match(acceptLang string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return c.defaultLang
		}
		tags = []language.Tag{tag}
	}

	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(c.supported) {
		return c.defaultLang
	}
	base, _ := c.supported[idx].Base()
	return base.String()
}

// Default returns the default language.
func (c *Catalog) Default() string {
	return c.defaultLang
}

// Missing returns the keys present in the default language but absent
// from lang, sorted.
func (c *Catalog) Missing(lang string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var missing []string
	for key := range c.translations[c.defaultLang] {
		if _, ok := c.translations[lang][key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// Count returns the number of translations loaded for a language.
func (c *Catalog) Count(lang string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.translations[lang])
}

// T translates with the process-wide catalog. Before Init it returns key.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}
	return catalog.T(lang, key, args...)
}

// MatchLanguage matches with the process-wide catalog.
func MatchLanguage(acceptLang string) string {
	if catalog == nil {
		return SupportedLanguages[0]
	}
	return catalog.Match(acceptLang)
}

// DefaultLanguage returns the process-wide default admin language.
func DefaultLanguage() string {
	if catalog == nil {
		return SupportedLanguages[0]
	}
	return catalog.Default()
}

// IsSupported checks if a language code is supported for the admin UI.
func IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, strings.ToLower(lang))
}
