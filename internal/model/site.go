// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// SocialLink is a footer link to a social network profile.
type SocialLink struct {
	Platform string
	URL      string
	Index    int
}

// Footer is the site-wide footer configuration. There is one per site.
type Footer struct {
	ID          int64
	LogoURL     string
	LogoPending *PendingFile
	Address     LocalizedText
	Copyright   LocalizedText
	Phone       string
	Email       string
	Socials     []SocialLink
}

// EntityID implements editor.Entity.
func (f Footer) EntityID() int64 { return f.ID }

// Clone implements editor.Entity.
func (f Footer) Clone() Footer {
	f.LogoPending = f.LogoPending.Clone()
	f.Socials = append([]SocialLink(nil), f.Socials...)
	return f
}

// ExchangeRate is one currency row of the exchange-rate widget.
type ExchangeRate struct {
	Currency string
	Buy      float64
	Sell     float64
	Index    int

	// Unparsed holds buy or sell text from the form that was not a number.
	Unparsed string
}

// ExchangeRateConfig configures the public exchange-rate widget.
type ExchangeRateConfig struct {
	ID             int64
	ShowOnHome     bool
	RefreshMinutes int
	Rates          []ExchangeRate
}

// EntityID implements editor.Entity.
func (c ExchangeRateConfig) EntityID() int64 { return c.ID }

// Clone implements editor.Entity.
func (c ExchangeRateConfig) Clone() ExchangeRateConfig {
	c.Rates = append([]ExchangeRate(nil), c.Rates...)
	return c
}
