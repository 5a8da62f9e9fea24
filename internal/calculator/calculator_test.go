// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package calculator

import (
	"math"
	"testing"
)

var loanBand = Config{
	MinRate:       0.5,
	MaxRate:       5.0,
	MaxAmount:     100_000_000,
	MaxTermMonths: 60,
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func TestComputeWorkedExample(t *testing.T) {
	r, ok := Compute(loanBand, Input{Amount: 10_000_000, TermMonths: 12})
	if !ok {
		t.Fatal("Compute() returned no result")
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"rate", r.Rate, 2.98},
		{"principal", r.EffectivePrincipal, 10_000_000},
		{"interest", r.TotalInterest, 3_576_000},
		{"total", r.TotalPayment, 13_576_000},
		{"monthly", r.MonthlyPayment, 1_131_333.33},
	}
	for _, c := range checks {
		if !near(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestComputeDegenerateInput(t *testing.T) {
	configs := []Config{
		loanBand,
		{},
		{MinRate: 3, MaxRate: 3},
		{MinRate: 1, MaxRate: 10, MaxAmount: 0, MaxTermMonths: 0},
	}
	inputs := []Input{
		{Amount: 0, TermMonths: 12},
		{Amount: 1_000_000, TermMonths: 0},
		{Amount: -5, TermMonths: 12},
		{Amount: math.NaN(), TermMonths: 12},
		{Amount: math.Inf(1), TermMonths: 12},
	}

	for _, cfg := range configs {
		for _, in := range inputs {
			if r, ok := Compute(cfg, in); ok {
				t.Errorf("Compute(%+v, %+v) = %+v, want no result", cfg, in, r)
			}
		}
	}
}

func TestRateIsClampedToBand(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		term   int
		want   float64
	}{
		{"huge amount short term", 1_000_000_000, 1, 0.5},
		{"tiny amount long term", 1, 600, 5.0},
		{"middle", 50_000_000, 30, 2.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loanBand.Rate(tt.amount, tt.term); !near(got, tt.want) {
				t.Errorf("Rate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDownPaymentReducesPrincipal(t *testing.T) {
	cfg := loanBand
	cfg.DownPaymentPercent = 30
	r, ok := Compute(cfg, Input{Amount: 10_000_000, TermMonths: 12})
	if !ok {
		t.Fatal("Compute() returned no result")
	}
	if !near(r.EffectivePrincipal, 7_000_000) {
		t.Errorf("principal = %v, want 7000000", r.EffectivePrincipal)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		amount, term string
		want         Input
		ok           bool
	}{
		{"10,000,000", "12", Input{Amount: 10_000_000, TermMonths: 12}, true},
		{" 5 000 ", "6", Input{Amount: 5000, TermMonths: 6}, true},
		{"abc", "12", Input{}, false},
		{"100", "1.5", Input{}, false},
		{"", "", Input{}, false},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.amount, tt.term)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Parse(%q, %q) = %+v, %v; want %+v, %v", tt.amount, tt.term, got, ok, tt.want, tt.ok)
		}
	}
}
