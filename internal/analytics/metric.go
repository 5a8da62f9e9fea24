// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

// Metric selects which daily series the dashboard chart shows.
type Metric string

// Metrics.
const (
	MetricVisitors  Metric = "visitors"
	MetricPageViews Metric = "pageviews"
	MetricSessions  Metric = "sessions"
)

// Metrics lists the metrics in display order.
var Metrics = []Metric{MetricVisitors, MetricPageViews, MetricSessions}

// ParseMetric returns the metric named s, defaulting to visitors.
func ParseMetric(s string) Metric {
	for _, m := range Metrics {
		if string(m) == s {
			return m
		}
	}
	return MetricVisitors
}

// Value reads the metric from a daily point.
func (m Metric) Value(p DailyPoint) float64 {
	switch m {
	case MetricPageViews:
		return p.PageViews.Float()
	case MetricSessions:
		return p.Sessions.Float()
	default:
		return p.Visitors.Float()
	}
}

// Total reads the metric total from a summary.
func (m Metric) Total(s Summary) float64 {
	switch m {
	case MetricPageViews:
		return s.TotalPageViews.Float()
	case MetricSessions:
		return s.TotalSessions.Float()
	default:
		return s.TotalVisitors.Float()
	}
}

// LabelKey is the translation key of the metric name.
func (m Metric) LabelKey() string {
	return "analytics.metric." + string(m)
}
