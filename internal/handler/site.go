// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/olegiv/finpanel/internal/editor"
	"github.com/olegiv/finpanel/internal/model"
	"github.com/olegiv/finpanel/internal/preview"
)

// Social platforms offered in the footer form.
var socialPlatforms = []string{"facebook", "instagram", "linkedin", "x", "youtube", "telegram"}

// FooterExtra is the footer form data beyond the draft itself.
type FooterExtra struct {
	Platforms []string
}

func newFooterScreen(deps *Deps, onChange editor.ChangeFunc) *Screen[model.Footer] {
	registry := editor.NewRegistry(func() *editor.Editor[model.Footer] {
		return editor.New(editor.Config[model.Footer]{
			Resource:  resourceFooter,
			Backend:   deps.Backend.Footer(),
			Validate:  editor.ValidateFooter,
			Singleton: true,
			OnChange:  onChange,
			Logger:    deps.Logger,
		})
	})

	return NewScreen(deps, ScreenConfig[model.Footer]{
		Name:      resourceFooter,
		Base:      "/admin/footer",
		Page:      "admin/footer",
		TitleKey:  "nav.footer",
		Singleton: true,
		Registry:  registry,
		Bind:      bindFooter,
		Preview: func(w io.Writer, q previewQuery, f model.Footer) error {
			return deps.Preview.Footer(w, preview.Footer(f, q.Lang))
		},
		Extra: func(_ *http.Request, _ *editor.Editor[model.Footer]) any {
			return FooterExtra{Platforms: socialPlatforms}
		},
		Pending: func(f model.Footer) []*model.PendingFile {
			return []*model.PendingFile{f.LogoPending}
		},
	})
}

// bindFooter copies the footer form onto the draft. Social rows are
// posted as parallel lists; rows without a platform and a URL are dropped.
func bindFooter(form url.Values, f *model.Footer) {
	f.Address = formLocalized(form, "address", f.Address)
	f.Copyright = formLocalized(form, "copyright", f.Copyright)
	f.Phone = formString(form, "phone", f.Phone)
	f.Email = formString(form, "email", f.Email)

	if _, ok := form["socials_present"]; !ok {
		return
	}
	socials := make([]model.SocialLink, 0, rowCount(form, "social_platform"))
	for i := range rowCount(form, "social_platform") {
		platform := rowValue(form, "social_platform", i)
		link := rowValue(form, "social_url", i)
		if platform == "" && link == "" {
			continue
		}
		socials = append(socials, model.SocialLink{Platform: platform, URL: link, Index: len(socials) + 1})
	}
	f.Socials = socials
}

func newExchangeRateScreen(deps *Deps, onChange editor.ChangeFunc) *Screen[model.ExchangeRateConfig] {
	registry := editor.NewRegistry(func() *editor.Editor[model.ExchangeRateConfig] {
		return editor.New(editor.Config[model.ExchangeRateConfig]{
			Resource:  resourceExchangeRates,
			Backend:   deps.Backend.ExchangeRates(),
			Validate:  editor.ValidateExchangeRates,
			Singleton: true,
			OnChange:  onChange,
			Logger:    deps.Logger,
		})
	})

	return NewScreen(deps, ScreenConfig[model.ExchangeRateConfig]{
		Name:      resourceExchangeRates,
		Base:      "/admin/exchange-rates",
		Page:      "admin/exchange_rates",
		TitleKey:  "nav.exchange_rates",
		Singleton: true,
		Registry:  registry,
		Bind:      bindExchangeRates,
	})
}

func bindExchangeRates(form url.Values, c *model.ExchangeRateConfig) {
	c.ShowOnHome = formBool(form, "show_on_home", c.ShowOnHome)
	c.RefreshMinutes = formInt(form, "refresh_minutes", c.RefreshMinutes)

	if _, ok := form["rates_present"]; !ok {
		return
	}
	rates := make([]model.ExchangeRate, 0, rowCount(form, "rate_currency"))
	for i := range rowCount(form, "rate_currency") {
		code := strings.ToUpper(rowValue(form, "rate_currency", i))
		if code == "" {
			continue
		}
		rate := model.ExchangeRate{Currency: code, Index: len(rates) + 1}
		var bad []string
		rate.Buy, bad = parseRate(rowValue(form, "rate_buy", i), bad)
		rate.Sell, bad = parseRate(rowValue(form, "rate_sell", i), bad)
		rate.Unparsed = strings.Join(bad, ", ")
		rates = append(rates, rate)
	}
	c.Rates = rates
}

// parseRate reads one rate cell. Blank is zero; text that is not a number
// is appended to bad so validation can name it.
func parseRate(raw string, bad []string) (float64, []string) {
	s := strings.ReplaceAll(raw, ",", "")
	if s == "" {
		return 0, bad
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, append(bad, strconv.Quote(raw))
	}
	return v, bad
}
