// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides the slog setup and a handler that keeps recent
// problems in memory for the dashboard.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Event categories shown on the dashboard.
const (
	CategoryBackend   = "backend"
	CategoryEditor    = "editor"
	CategoryMedia     = "media"
	CategoryCache     = "cache"
	CategoryAnalytics = "analytics"
	CategorySystem    = "system"
)

// DefaultCapacity is the number of entries a RecentHandler keeps.
const DefaultCapacity = 100

// Entry is one remembered log record.
type Entry struct {
	Time     time.Time
	Level    slog.Level
	Category string
	Message  string
	Attrs    map[string]string
}

// ring is the shared buffer behind a handler and its derived handlers.
type ring struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

func (r *ring) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[r.next] = e
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
}

// RecentHandler is a slog.Handler that wraps another handler and also
// keeps WARN and ERROR records in a fixed-size ring buffer.
type RecentHandler struct {
	inner  slog.Handler
	buf    *ring
	level  slog.Level // Minimum level to remember (default: WARN)
	attrs  []slog.Attr
	prefix string
}

// NewRecentHandler creates a RecentHandler remembering up to capacity records.
func NewRecentHandler(inner slog.Handler, capacity int) *RecentHandler {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RecentHandler{
		inner: inner,
		buf:   &ring{entries: make([]Entry, capacity)},
		level: slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *RecentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RecentHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.buf.add(h.entry(r))
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *RecentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.inner = h.inner.WithAttrs(attrs)
	c.attrs = append(append([]slog.Attr(nil), h.attrs...), qualify(h.prefix, attrs)...)
	return &c
}

// WithGroup implements slog.Handler.
func (h *RecentHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.inner = h.inner.WithGroup(name)
	c.prefix = h.prefix + name + "."
	return &c
}

// Recent returns remembered entries, newest first.
func (h *RecentHandler) Recent(limit int) []Entry {
	b := h.buf
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.next
	if b.full {
		n = len(b.entries)
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Entry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (b.next - i + len(b.entries)) % len(b.entries)
		out = append(out, b.entries[idx])
	}
	return out
}

func (h *RecentHandler) entry(r slog.Record) Entry {
	attrs := make(map[string]string, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.prefix+a.Key] = a.Value.String()
		return true
	})

	category := attrs["category"]
	delete(attrs, "category")
	if category == "" {
		category = inferCategory(r.Message)
	}
	return Entry{Time: r.Time, Level: r.Level, Category: category, Message: r.Message, Attrs: attrs}
}

func qualify(prefix string, attrs []slog.Attr) []slog.Attr {
	if prefix == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}
	return out
}

// inferCategory guesses a category from the message text.
func inferCategory(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "backend") || strings.Contains(msg, "request"):
		return CategoryBackend
	case strings.Contains(msg, "save") || strings.Contains(msg, "delete") || strings.Contains(msg, "editor"):
		return CategoryEditor
	case strings.Contains(msg, "upload") || strings.Contains(msg, "media") || strings.Contains(msg, "thumbnail"):
		return CategoryMedia
	case strings.Contains(msg, "cache"):
		return CategoryCache
	case strings.Contains(msg, "analytics"):
		return CategoryAnalytics
	default:
		return CategorySystem
	}
}

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds the process logger: a text handler on w wrapped by a
// RecentHandler. The logger is installed as the slog default.
func Setup(w io.Writer, level string) (*slog.Logger, *RecentHandler) {
	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	recent := NewRecentHandler(text, DefaultCapacity)
	logger := slog.New(recent)
	slog.SetDefault(logger)
	return logger, recent
}
