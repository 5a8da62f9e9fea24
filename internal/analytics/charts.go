// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"bytes"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const chartHeight = "360px"

// ChartLabels carries the translated strings a chart shows.
type ChartLabels struct {
	Title   string
	Series  string
	Desktop string
	Tablet  string
	Mobile  string
}

// ChartOptions configures chart rendering.
type ChartOptions struct {
	Theme string
	// AssetsHost overrides the echarts script host.
	AssetsHost string
}

func (o ChartOptions) global(title string) []charts.GlobalOpts {
	init := opts.Initialization{
		Theme:  o.Theme,
		Width:  "100%",
		Height: chartHeight,
	}
	if o.AssetsHost != "" {
		init.AssetsHost = o.AssetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(init),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

// TrendChart renders the daily series of m as a standalone HTML page.
func TrendChart(s Summary, m Metric, labels ChartLabels, o ChartOptions) (string, error) {
	days := make([]string, len(s.Daily))
	data := make([]opts.LineData, len(s.Daily))
	for i, p := range s.Daily {
		days[i] = p.Date
		data[i] = opts.LineData{Name: p.Date, Value: m.Value(p)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(o.global(labels.Title)...)
	line.SetXAxis(days)
	line.AddSeries(labels.Series, data)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

// DeviceChart renders the device split of the top pages as grouped bars.
func DeviceChart(pages []TopPage, labels ChartLabels, o ChartOptions) (string, error) {
	names := make([]string, len(pages))
	desktop := make([]opts.BarData, len(pages))
	tablet := make([]opts.BarData, len(pages))
	mobile := make([]opts.BarData, len(pages))
	for i, p := range pages {
		names[i] = p.Path
		desktop[i] = opts.BarData{Name: p.Path, Value: p.Devices.Desktop.Float()}
		tablet[i] = opts.BarData{Name: p.Path, Value: p.Devices.Tablet.Float()}
		mobile[i] = opts.BarData{Name: p.Path, Value: p.Devices.Mobile.Float()}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(o.global(labels.Title)...)
	bar.SetXAxis(names)
	bar.AddSeries(labels.Desktop, desktop)
	bar.AddSeries(labels.Tablet, tablet)
	bar.AddSeries(labels.Mobile, mobile)
	return renderChart(bar)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
