// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics reads the aggregated visitor statistics served by the
// analytics backend. The panel never writes analytics data.
package analytics

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/olegiv/finpanel/internal/backend"
	"github.com/olegiv/finpanel/internal/cache"
	"github.com/olegiv/finpanel/internal/wire"
)

// Endpoint paths
const (
	PathSummary       = "/analytics/summary/"
	PathTopPages      = "/analytics/top-pages/"
	PathRecentUpdates = "/analytics/recent-updates/"
)

// Default list sizes
const (
	DefaultTopPages      = 10
	DefaultRecentUpdates = 10
)

// DailyPoint is one day of the summary series.
type DailyPoint struct {
	Date      string      `json:"date"`
	Visitors  wire.Number `json:"visitors"`
	PageViews wire.Number `json:"page_views"`
	Sessions  wire.Number `json:"sessions"`
}

// Summary holds totals and the daily series for a range.
type Summary struct {
	TotalVisitors      wire.Number  `json:"total_visitors"`
	TotalPageViews     wire.Number  `json:"total_page_views"`
	TotalSessions      wire.Number  `json:"total_sessions"`
	AvgSessionDuration wire.Number  `json:"avg_session_duration"`
	Daily              []DailyPoint `json:"daily"`
}

// DeviceSplit is the share of views per device class, in percent.
type DeviceSplit struct {
	Desktop wire.Number `json:"desktop"`
	Tablet  wire.Number `json:"tablet"`
	Mobile  wire.Number `json:"mobile"`
}

// TopPage is one row of the top pages table.
type TopPage struct {
	Path    string      `json:"path"`
	Title   string      `json:"title"`
	Views   wire.Number `json:"views"`
	Devices DeviceSplit `json:"devices"`
}

// RecentUpdate is one entry of the content change feed.
type RecentUpdate struct {
	Resource  string    `json:"resource"`
	Title     string    `json:"title"`
	Action    string    `json:"action"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Client reads analytics endpoints. Responses are cached briefly since
// the dashboard re-requests them on every metric switch.
type Client struct {
	http      *backend.Client
	summaries *cache.TypedCache[Summary]
	pages     *cache.TypedCache[[]TopPage]
}

// NewClient creates an analytics client. c may be nil to disable caching.
func NewClient(httpClient *backend.Client, c cache.Cache, ttl time.Duration) *Client {
	cl := &Client{http: httpClient}
	if c != nil {
		cl.summaries = cache.NewTypedCache[Summary](c, ttl)
		cl.pages = cache.NewTypedCache[[]TopPage](c, ttl)
	}
	return cl
}

func rangeQuery(r Range) url.Values {
	q := url.Values{}
	q.Set("from", r.From.Format(DateLayout))
	q.Set("to", r.To.Format(DateLayout))
	return q
}

func cacheKey(kind string, r Range, extra int) string {
	return fmt.Sprintf("analytics:%s:%s:%s:%d", kind, r.From.Format(DateLayout), r.To.Format(DateLayout), extra)
}

// Summary returns totals and the daily series for r.
func (c *Client) Summary(ctx context.Context, r Range) (Summary, error) {
	load := func(ctx context.Context) (Summary, error) {
		var s Summary
		err := c.http.GetJSON(ctx, PathSummary, rangeQuery(r), &s)
		return s, err
	}
	if c.summaries == nil {
		return load(ctx)
	}
	return c.summaries.GetOrLoad(ctx, cacheKey("summary", r, 0), load)
}

// TopPages returns the most viewed pages in r.
func (c *Client) TopPages(ctx context.Context, r Range, limit int) ([]TopPage, error) {
	if limit <= 0 {
		limit = DefaultTopPages
	}
	load := func(ctx context.Context) ([]TopPage, error) {
		q := rangeQuery(r)
		q.Set("limit", strconv.Itoa(limit))
		return backend.GetList[TopPage](ctx, c.http, PathTopPages, q)
	}
	if c.pages == nil {
		return load(ctx)
	}
	return c.pages.GetOrLoad(ctx, cacheKey("top", r, limit), load)
}

// RecentUpdates returns the latest content changes. Not cached.
func (c *Client) RecentUpdates(ctx context.Context, limit int) ([]RecentUpdate, error) {
	if limit <= 0 {
		limit = DefaultRecentUpdates
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	return backend.GetList[RecentUpdate](ctx, c.http, PathRecentUpdates, q)
}
