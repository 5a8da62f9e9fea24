// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package calculator

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/olegiv/finpanel/internal/model"
)

// Display is a result formatted for the preview panel.
type Display struct {
	Rate           string
	TotalInterest  string
	TotalPayment   string
	MonthlyPayment string
}

func printerFor(lang model.Language) *message.Printer {
	tag := language.English
	if lang == model.LanguagePrimary {
		tag = language.Mongolian
	}
	return message.NewPrinter(tag)
}

// Format renders r with digit grouping for lang.
func (r Result) Format(lang model.Language) Display {
	p := printerFor(lang)
	return Display{
		Rate:           p.Sprintf("%.2f%%", r.Rate),
		TotalInterest:  p.Sprintf("%.2f", r.TotalInterest),
		TotalPayment:   p.Sprintf("%.2f", r.TotalPayment),
		MonthlyPayment: p.Sprintf("%.2f", r.MonthlyPayment),
	}
}
