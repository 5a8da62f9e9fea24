// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire and form format of range bounds.
const DateLayout = "2006-01-02"

// MaxRangeDays caps explicit ranges.
const MaxRangeDays = 366

// Range presets.
const (
	Preset7Days  = "7d"
	Preset30Days = "30d"
	Preset90Days = "90d"
	PresetYear   = "1y"
	PresetCustom = "custom"
)

// Presets lists the selectable presets in display order.
var Presets = []string{Preset7Days, Preset30Days, Preset90Days, PresetYear}

var presetDays = map[string]int{
	Preset7Days:  7,
	Preset30Days: 30,
	Preset90Days: 90,
	PresetYear:   365,
}

// Range is an inclusive day range.
type Range struct {
	Preset string
	From   time.Time
	To     time.Time
}

// Days returns the number of days in the range.
func (r Range) Days() int {
	return int(r.To.Sub(r.From).Hours()/24) + 1
}

// Errors returned by ParseRange.
var (
	ErrRangeOrder = errors.New("range start is after its end")
	ErrRangeSize  = fmt.Errorf("range is longer than %d days", MaxRangeDays)
)

// ParseRange builds a range from a preset or from explicit from/to dates.
// Explicit dates win over the preset. An empty request yields 30 days
// ending today.
func ParseRange(preset, from, to string, now time.Time) (Range, error) {
	today := truncateDay(now)

	if from != "" || to != "" {
		f, err := time.ParseInLocation(DateLayout, from, now.Location())
		if err != nil {
			return Range{}, fmt.Errorf("invalid start date: %w", err)
		}
		t := today
		if to != "" {
			if t, err = time.ParseInLocation(DateLayout, to, now.Location()); err != nil {
				return Range{}, fmt.Errorf("invalid end date: %w", err)
			}
		}
		r := Range{Preset: PresetCustom, From: f, To: t}
		if f.After(t) {
			return Range{}, ErrRangeOrder
		}
		if r.Days() > MaxRangeDays {
			return Range{}, ErrRangeSize
		}
		return r, nil
	}

	days, ok := presetDays[preset]
	if !ok {
		preset, days = Preset30Days, presetDays[Preset30Days]
	}
	return Range{Preset: preset, From: today.AddDate(0, 0, -(days - 1)), To: today}, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
