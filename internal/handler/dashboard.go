// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/finpanel/internal/analytics"
	"github.com/olegiv/finpanel/internal/backend"
	"github.com/olegiv/finpanel/internal/i18n"
	"github.com/olegiv/finpanel/internal/logging"
	"github.com/olegiv/finpanel/internal/render"
	"github.com/olegiv/finpanel/internal/scheduler"
)

// recentProblems is how many log records the dashboard lists.
const recentProblems = 10

// DashboardHandler renders the analytics dashboard and its charts.
type DashboardHandler struct {
	deps *Deps
	now  func() time.Time
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(deps *Deps) *DashboardHandler {
	return &DashboardHandler{deps: deps, now: time.Now}
}

// DashboardData holds all data for the dashboard page. Each analytics
// section carries its own error so one failing endpoint does not hide
// the others.
type DashboardData struct {
	Range      analytics.Range
	RangeError string
	Presets    []string
	Metric     analytics.Metric
	Metrics    []analytics.Metric
	ChartQuery string

	Summary      analytics.Summary
	SummaryError string
	MetricTotal  float64

	TopPages      []analytics.TopPage
	TopPagesError string

	Updates      []analytics.RecentUpdate
	UpdatesError string

	Products    int
	Services    int
	LastRefresh time.Time

	Problems []logging.Entry
	Jobs     []scheduler.JobInfo
}

// parseRange reads the range from the query. An invalid range falls back
// to the default preset and reports the problem.
func (h *DashboardHandler) parseRange(r *http.Request) (analytics.Range, error) {
	q := r.URL.Query()
	rng, err := analytics.ParseRange(q.Get("range"), q.Get("from"), q.Get("to"), h.now())
	if err != nil {
		fallback, _ := analytics.ParseRange("", "", "", h.now())
		return fallback, err
	}
	return rng, nil
}

// chartQuery carries the range and metric over to the chart frames.
func chartQuery(rng analytics.Range, m analytics.Metric) string {
	q := url.Values{}
	q.Set("from", rng.From.Format(analytics.DateLayout))
	q.Set("to", rng.To.Format(analytics.DateLayout))
	q.Set("metric", string(m))
	return q.Encode()
}

// Dashboard handles GET /admin.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	lang := adminLang(r)
	rng, rangeErr := h.parseRange(r)
	metric := analytics.ParseMetric(r.URL.Query().Get("metric"))

	data := DashboardData{
		Range:      rng,
		Presets:    analytics.Presets,
		Metric:     metric,
		Metrics:    analytics.Metrics,
		ChartQuery: chartQuery(rng, metric),
	}
	if rangeErr != nil {
		data.RangeError = i18n.T(lang, "dashboard.invalid_range")
	}

	if h.deps.Analytics != nil {
		h.loadAnalytics(r.Context(), lang, rng, &data)
		data.MetricTotal = metric.Total(data.Summary)
	}
	if h.deps.Catalog != nil {
		data.Products = len(h.deps.Catalog.Products())
		data.Services = len(h.deps.Catalog.Services())
		data.LastRefresh = h.deps.Catalog.LastRefresh()
	}
	if h.deps.Logs != nil {
		data.Problems = h.deps.Logs.Recent(recentProblems)
	}
	if h.deps.Jobs != nil {
		data.Jobs = h.deps.Jobs.List()
	}

	td := render.TemplateData{
		Title: i18n.T(lang, "nav.dashboard"),
		Lang:  lang,
		Nav:   "dashboard",
		Data:  data,
	}
	if err := h.deps.Renderer.Render(w, r, "admin/dashboard", td); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}

// loadAnalytics fetches the three analytics sections concurrently.
func (h *DashboardHandler) loadAnalytics(ctx context.Context, lang string, rng analytics.Range, data *DashboardData) {
	failed := i18n.T(lang, "dashboard.analytics_failed")

	var g errgroup.Group
	g.Go(func() error {
		s, err := h.deps.Analytics.Summary(ctx, rng)
		if err != nil {
			h.deps.Logger.Warn("failed to load analytics summary", "error", err)
			data.SummaryError = backend.UserMessage(err, failed)
			return nil
		}
		data.Summary = s
		return nil
	})
	g.Go(func() error {
		pages, err := h.deps.Analytics.TopPages(ctx, rng, analytics.DefaultTopPages)
		if err != nil {
			h.deps.Logger.Warn("failed to load top pages", "error", err)
			data.TopPagesError = backend.UserMessage(err, failed)
			return nil
		}
		data.TopPages = pages
		return nil
	})
	g.Go(func() error {
		updates, err := h.deps.Analytics.RecentUpdates(ctx, analytics.DefaultRecentUpdates)
		if err != nil {
			h.deps.Logger.Warn("failed to load recent updates", "error", err)
			data.UpdatesError = backend.UserMessage(err, failed)
			return nil
		}
		data.Updates = updates
		return nil
	})
	_ = g.Wait()
}

// TrendChart handles GET /admin/analytics/charts/trend. The response is a
// standalone HTML page shown in an iframe.
func (h *DashboardHandler) TrendChart(w http.ResponseWriter, r *http.Request) {
	lang := adminLang(r)
	rng, err := h.parseRange(r)
	if err != nil {
		http.Error(w, i18n.T(lang, "dashboard.invalid_range"), http.StatusBadRequest)
		return
	}
	metric := analytics.ParseMetric(r.URL.Query().Get("metric"))

	summary, err := h.deps.Analytics.Summary(r.Context(), rng)
	if err != nil {
		h.deps.Logger.Warn("failed to load analytics summary", "error", err)
		http.Error(w, backend.UserMessage(err, i18n.T(lang, "dashboard.analytics_failed")), http.StatusBadGateway)
		return
	}

	label := i18n.T(lang, metric.LabelKey())
	page, err := analytics.TrendChart(summary, metric, analytics.ChartLabels{Title: label, Series: label}, h.deps.Charts)
	if err != nil {
		logAndInternalError(w, "failed to render trend chart", "error", err)
		return
	}
	writeChart(w, page)
}

// DeviceChart handles GET /admin/analytics/charts/devices.
func (h *DashboardHandler) DeviceChart(w http.ResponseWriter, r *http.Request) {
	lang := adminLang(r)
	rng, err := h.parseRange(r)
	if err != nil {
		http.Error(w, i18n.T(lang, "dashboard.invalid_range"), http.StatusBadRequest)
		return
	}

	pages, err := h.deps.Analytics.TopPages(r.Context(), rng, analytics.DefaultTopPages)
	if err != nil {
		h.deps.Logger.Warn("failed to load top pages", "error", err)
		http.Error(w, backend.UserMessage(err, i18n.T(lang, "dashboard.analytics_failed")), http.StatusBadGateway)
		return
	}

	labels := analytics.ChartLabels{
		Title:   i18n.T(lang, "dashboard.device_split"),
		Desktop: i18n.T(lang, "device.desktop"),
		Tablet:  i18n.T(lang, "device.tablet"),
		Mobile:  i18n.T(lang, "device.mobile"),
	}
	page, err := analytics.DeviceChart(pages, labels, h.deps.Charts)
	if err != nil {
		logAndInternalError(w, "failed to render device chart", "error", err)
		return
	}
	writeChart(w, page)
}

func writeChart(w http.ResponseWriter, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Frame-Options", "SAMEORIGIN")
	_, _ = w.Write([]byte(page))
}
