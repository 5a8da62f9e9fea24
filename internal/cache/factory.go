// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"net/url"
	"time"
)

// DefaultTTL applies when no TTL is configured.
const DefaultTTL = 10 * time.Minute

// Options selects and configures the cache backend.
type Options struct {
	// RedisURL selects Redis when set, e.g. redis://localhost:6379/0.
	RedisURL string
	Prefix   string
	TTL      time.Duration
	MaxItems int
}

// New returns a Redis cache when RedisURL is set and reachable, otherwise
// an in-memory cache.
func New(ctx context.Context, opts Options, logger *slog.Logger) Cache {
	mem := func() Cache {
		return NewMemoryCache(MemoryOptions{DefaultTTL: opts.TTL, MaxItems: opts.MaxItems})
	}
	if opts.RedisURL == "" {
		return mem()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rc, err := NewRedisCache(ctx, RedisOptions{
		URL:         opts.RedisURL,
		Prefix:      opts.Prefix,
		DefaultTTL:  opts.TTL,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		logger.Warn("redis unavailable, using memory cache", "url", SanitizeRedisURL(opts.RedisURL), "error", err)
		return mem()
	}
	logger.Info("using redis cache", "url", SanitizeRedisURL(opts.RedisURL), "prefix", opts.Prefix)
	return rc
}

// SanitizeRedisURL masks the password in a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
