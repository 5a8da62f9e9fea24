// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package calculator implements the loan estimate shown next to products.
//
// The estimate uses simple interest: interest = principal × monthly rate ×
// months. It is illustrative and not an amortisation schedule.
package calculator

import (
	"math"
	"strconv"
	"strings"

	"github.com/olegiv/finpanel/internal/model"
)

// Config is the rate band of one product.
type Config struct {
	MinRate            float64
	MaxRate            float64
	MaxAmount          float64
	MaxTermMonths      int
	DownPaymentPercent float64
}

// ConfigFor reads the calculator band from a product draft.
func ConfigFor(p model.Product) Config {
	return Config{
		MinRate:            p.MinRate,
		MaxRate:            p.MaxRate,
		MaxAmount:          p.MaxAmount,
		MaxTermMonths:      p.MaxTermMonths,
		DownPaymentPercent: p.DownPaymentPercent,
	}
}

// Input is what the visitor typed.
type Input struct {
	Amount     float64
	TermMonths int
}

// Result is a computed estimate. Rate is the monthly rate in percent,
// rounded to two decimals.
type Result struct {
	Rate               float64
	EffectivePrincipal float64
	TotalInterest      float64
	TotalPayment       float64
	MonthlyPayment     float64
}

// Rate interpolates the monthly rate inside [MinRate, MaxRate]: larger
// amounts lower it, longer terms raise it.
func (c Config) Rate(amount float64, termMonths int) float64 {
	amountRatio := ratio(amount, c.MaxAmount)
	termRatio := ratio(float64(termMonths), float64(c.MaxTermMonths))
	factor := clamp((1-amountRatio+termRatio)/2, 0, 1)
	return round2(c.MinRate + (c.MaxRate-c.MinRate)*factor)
}

// Compute returns the estimate, or ok == false when the input cannot
// produce one (non-positive amount or term, or a non-finite result).
func Compute(cfg Config, in Input) (Result, bool) {
	if !(in.Amount > 0) || in.TermMonths <= 0 || math.IsInf(in.Amount, 0) {
		return Result{}, false
	}

	rate := cfg.Rate(in.Amount, in.TermMonths)
	down := clamp(cfg.DownPaymentPercent, 0, 100)
	principal := in.Amount * (1 - down/100)
	interest := principal * (rate / 100) * float64(in.TermMonths)
	total := principal + interest

	r := Result{
		Rate:               rate,
		EffectivePrincipal: principal,
		TotalInterest:      interest,
		TotalPayment:       total,
		MonthlyPayment:     round2(total / float64(in.TermMonths)),
	}
	for _, v := range []float64{r.Rate, r.TotalInterest, r.TotalPayment, r.MonthlyPayment} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, false
		}
	}
	return r, true
}

// Parse reads form values. Grouping separators and spaces are ignored.
// ok is false for anything that is not a usable number.
func Parse(amount, term string) (Input, bool) {
	a, err := strconv.ParseFloat(cleanNumber(amount), 64)
	if err != nil || math.IsNaN(a) {
		return Input{}, false
	}
	t, err := strconv.Atoi(cleanNumber(term))
	if err != nil {
		return Input{}, false
	}
	return Input{Amount: a, TermMonths: t}, true
}

func cleanNumber(s string) string {
	return strings.NewReplacer(",", "", " ", "", " ", "", "_", "").Replace(strings.TrimSpace(s))
}

func ratio(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round2 rounds half away from zero at two decimals. The epsilon absorbs
// binary representation error (2.975 is stored as 2.97499...).
func round2(v float64) float64 {
	if v < 0 {
		return -round2(-v)
	}
	return math.Round(v*100+1e-7) / 100
}
