// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL         string `env:"FINPANEL_API_BASE_URL,required"`
	MediaUploadURL     string `env:"FINPANEL_MEDIA_UPLOAD_URL"`     // Defaults to {API}/upload/
	AnalyticsBaseURL   string `env:"FINPANEL_ANALYTICS_BASE_URL"`   // Defaults to the API base URL
	FrontendPreviewURL string `env:"FINPANEL_FRONTEND_PREVIEW_URL"` // Public site, for "view on site" links
	RevalidateURL      string `env:"FINPANEL_REVALIDATE_URL"`
	RevalidateSecret   string `env:"FINPANEL_REVALIDATE_SECRET"`

	SessionSecret   string `env:"FINPANEL_SESSION_SECRET,required"`
	ServerHost      string `env:"FINPANEL_SERVER_HOST" envDefault:"localhost"`
	ServerPort      int    `env:"FINPANEL_SERVER_PORT" envDefault:"8080"`
	Env             string `env:"FINPANEL_ENV" envDefault:"development"`
	LogLevel        string `env:"FINPANEL_LOG_LEVEL" envDefault:"info"`
	DefaultLanguage string `env:"FINPANEL_DEFAULT_LANGUAGE" envDefault:"en"` // Admin UI language

	// Backend client
	APITimeout   time.Duration `env:"FINPANEL_API_TIMEOUT" envDefault:"30s"`
	APIRateLimit float64       `env:"FINPANEL_API_RATE_LIMIT" envDefault:"10"` // Requests per second, 0 = unlimited

	// Cache configuration
	RedisURL     string `env:"FINPANEL_REDIS_URL"`                           // Optional Redis URL for shared caching
	CachePrefix  string `env:"FINPANEL_CACHE_PREFIX" envDefault:"finpanel:"` // Redis key prefix
	CacheTTL     int    `env:"FINPANEL_CACHE_TTL" envDefault:"600"`          // Catalog cache TTL in seconds
	CacheMaxSize int    `env:"FINPANEL_CACHE_MAX_SIZE" envDefault:"10000"`   // Max memory cache entries

	// Background jobs
	CatalogRefresh    string        `env:"FINPANEL_CATALOG_REFRESH" envDefault:"@every 5m"` // Cron spec
	EditorIdleTimeout time.Duration `env:"FINPANEL_EDITOR_IDLE_TIMEOUT" envDefault:"2h"`

	// Local media previews
	MediaMaxBytes int64 `env:"FINPANEL_MEDIA_MAX_BYTES" envDefault:"26214400"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// RevalidateEnabled returns true if the public site should be notified of changes.
func (c Config) RevalidateEnabled() bool {
	return c.RevalidateURL != ""
}

// CacheTTLDuration returns CacheTTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.MediaUploadURL == "" {
		cfg.MediaUploadURL = cfg.APIBaseURL + "/upload/"
	}
	if cfg.AnalyticsBaseURL == "" {
		cfg.AnalyticsBaseURL = cfg.APIBaseURL
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("FINPANEL_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("FINPANEL_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("FINPANEL_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.APIBaseURL, validation.Required, is.URL),
		validation.Field(&c.MediaUploadURL, is.URL),
		validation.Field(&c.AnalyticsBaseURL, is.URL),
		validation.Field(&c.FrontendPreviewURL, is.URL),
		validation.Field(&c.RevalidateURL, is.URL),
		validation.Field(&c.ServerPort, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.DefaultLanguage, validation.In("en", "mn")),
		validation.Field(&c.APITimeout, validation.Min(time.Second)),
		validation.Field(&c.APIRateLimit, validation.Min(0.0)),
		validation.Field(&c.CacheTTL, validation.Min(0)),
		validation.Field(&c.EditorIdleTimeout, validation.Min(time.Minute)),
	)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
