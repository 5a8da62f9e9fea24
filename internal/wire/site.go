// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wire

import (
	"slices"
	"strings"

	"github.com/olegiv/finpanel/internal/model"
)

// DefaultRefreshMinutes is used when an exchange-rate config has no interval.
const DefaultRefreshMinutes = 60

// FooterTranslation is the translation entry of the footer.
type FooterTranslation struct {
	Language  int    `json:"language"`
	Address   string `json:"address"`
	Copyright string `json:"copyright"`
}

// SocialLinkRecord is one footer social link.
type SocialLinkRecord struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Index    int    `json:"index"`
}

// FooterRecord is the footer as the backend returns and accepts it.
type FooterRecord struct {
	ID           int64               `json:"id,omitempty"`
	Logo         string              `json:"logo"`
	Phone        string              `json:"phone"`
	Email        string              `json:"email"`
	Socials      []SocialLinkRecord  `json:"socials"`
	Translations []FooterTranslation `json:"translations"`
}

// ToWireFooter encodes the footer draft. The logo must already be uploaded.
func ToWireFooter(f model.Footer) FooterRecord {
	address, copyright := f.Address.Trimmed(), f.Copyright.Trimmed()
	socials := make([]SocialLinkRecord, 0, len(f.Socials))
	for _, s := range f.Socials {
		if strings.TrimSpace(s.URL) == "" {
			continue
		}
		socials = append(socials, SocialLinkRecord{Platform: s.Platform, URL: strings.TrimSpace(s.URL), Index: s.Index})
	}
	return FooterRecord{
		Logo:    f.LogoURL,
		Phone:   strings.TrimSpace(f.Phone),
		Email:   strings.TrimSpace(f.Email),
		Socials: socials,
		Translations: eachLanguage(func(code int, lang model.Language) FooterTranslation {
			return FooterTranslation{Language: code, Address: address.Get(lang), Copyright: copyright.Get(lang)}
		}),
	}
}

// FromWireFooter decodes the footer record.
func FromWireFooter(r FooterRecord) model.Footer {
	texts := collect(r.Translations,
		func(e FooterTranslation) int { return e.Language },
		func(e FooterTranslation) string { return e.Address },
		func(e FooterTranslation) string { return e.Copyright },
	)
	socials := make([]model.SocialLink, 0, len(r.Socials))
	for _, s := range r.Socials {
		socials = append(socials, model.SocialLink{Platform: s.Platform, URL: s.URL, Index: s.Index})
	}
	slices.SortStableFunc(socials, func(a, b model.SocialLink) int { return a.Index - b.Index })
	return model.Footer{
		ID:        r.ID,
		LogoURL:   r.Logo,
		Phone:     r.Phone,
		Email:     r.Email,
		Socials:   socials,
		Address:   texts[0],
		Copyright: texts[1],
	}
}

// ExchangeRateRecord is one currency row.
type ExchangeRateRecord struct {
	Currency string `json:"currency"`
	Buy      Number `json:"buy"`
	Sell     Number `json:"sell"`
	Index    int    `json:"index"`
}

// ExchangeRateConfigRecord is the exchange-rate widget configuration.
type ExchangeRateConfigRecord struct {
	ID             int64                `json:"id,omitempty"`
	ShowOnHome     bool                 `json:"show_on_home"`
	RefreshMinutes int                  `json:"refresh_minutes"`
	Rates          []ExchangeRateRecord `json:"rates"`
}

// ToWireExchangeRateConfig encodes the exchange-rate draft.
// Currency codes are upper-cased and blank rows are dropped.
func ToWireExchangeRateConfig(c model.ExchangeRateConfig) ExchangeRateConfigRecord {
	rates := make([]ExchangeRateRecord, 0, len(c.Rates))
	for _, r := range c.Rates {
		code := strings.ToUpper(strings.TrimSpace(r.Currency))
		if code == "" {
			continue
		}
		rates = append(rates, ExchangeRateRecord{Currency: code, Buy: Number(r.Buy), Sell: Number(r.Sell), Index: r.Index})
	}
	return ExchangeRateConfigRecord{
		ShowOnHome:     c.ShowOnHome,
		RefreshMinutes: positiveOr(c.RefreshMinutes, DefaultRefreshMinutes),
		Rates:          rates,
	}
}

// FromWireExchangeRateConfig decodes the exchange-rate record.
func FromWireExchangeRateConfig(r ExchangeRateConfigRecord) model.ExchangeRateConfig {
	rates := make([]model.ExchangeRate, 0, len(r.Rates))
	for _, rr := range r.Rates {
		rates = append(rates, model.ExchangeRate{Currency: rr.Currency, Buy: rr.Buy.Float(), Sell: rr.Sell.Float(), Index: rr.Index})
	}
	slices.SortStableFunc(rates, func(a, b model.ExchangeRate) int { return a.Index - b.Index })
	return model.ExchangeRateConfig{
		ID:             r.ID,
		ShowOnHome:     r.ShowOnHome,
		RefreshMinutes: positiveOr(r.RefreshMinutes, DefaultRefreshMinutes),
		Rates:          rates,
	}
}
