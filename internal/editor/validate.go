// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/olegiv/finpanel/internal/model"
)

var (
	hexColor     = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)
	currencyCode = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

// Font size bounds for slide text.
const (
	MinFontSize = 8
	MaxFontSize = 200
)

// positiveIndex requires a display index of at least 1.
var positiveIndex = []validation.Rule{
	validation.Required.Error("must be at least 1"),
	validation.Min(1),
}

// anyLanguage requires text in at least one language.
var anyLanguage = validation.By(func(value any) error {
	if t, ok := value.(model.LocalizedText); ok && t.Trimmed().Any() {
		return nil
	}
	return validation.NewError("validation_localized_required", "must be filled in at least one language")
})

// relativeOrAbsoluteURL accepts site paths ("/loans") as well as full URLs.
var relativeOrAbsoluteURL = validation.By(func(value any) error {
	s, _ := value.(string)
	if s == "" || strings.HasPrefix(s, "/") || strings.HasPrefix(s, "#") {
		return nil
	}
	return is.URL.Validate(s)
})

// ValidateProduct checks a product draft.
func ValidateProduct(p model.Product) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, anyLanguage),
		validation.Field(&p.Index, positiveIndex...),
		validation.Field(&p.MinRate, validation.Min(0.0)),
		validation.Field(&p.MaxRate, validation.Min(p.MinRate).Error("must not be below the minimum rate")),
		validation.Field(&p.MaxAmount, validation.Min(0.0)),
		validation.Field(&p.MaxTermMonths, validation.Min(0)),
		validation.Field(&p.DownPaymentPercent, validation.Min(0.0), validation.Max(100.0)),
	)
}

// ValidateService checks a service draft.
func ValidateService(s model.Service) error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, anyLanguage),
		validation.Field(&s.Index, positiveIndex...),
		validation.Field(&s.IconURL, relativeOrAbsoluteURL),
	)
}

// ValidateTaxonomy checks a taxonomy item draft.
func ValidateTaxonomy(t model.TaxonomyItem) error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Label, anyLanguage),
	)
}

// ValidateHeroSlide checks a hero slide draft. The desktop variant is
// required; tablet and mobile fall back to it.
func ValidateHeroSlide(s model.HeroSlide) error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Index, positiveIndex...),
		validation.Field(&s.Desktop, validation.By(func(value any) error {
			if v, ok := value.(model.MediaVariant); ok && v.IsSet() {
				return nil
			}
			return validation.NewError("validation_media_required", "desktop media is required")
		})),
		validation.Field(&s.TextColor, validation.Match(hexColor)),
		validation.Field(&s.FontSize, validation.When(s.FontSize != 0, validation.Min(MinFontSize), validation.Max(MaxFontSize))),
		validation.Field(&s.ButtonURL, relativeOrAbsoluteURL),
	)
}

// ValidateCTASlide checks a call-to-action slide draft.
func ValidateCTASlide(s model.CTASlide) error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Title, anyLanguage),
		validation.Field(&s.Index, positiveIndex...),
		validation.Field(&s.BackgroundColor, validation.Match(hexColor)),
		validation.Field(&s.Link, relativeOrAbsoluteURL),
	)
}

// ValidateFooter checks the footer draft.
func ValidateFooter(f model.Footer) error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, is.EmailFormat),
		validation.Field(&f.Socials, validation.By(func(value any) error {
			socials, _ := value.([]model.SocialLink)
			for _, s := range socials {
				if strings.TrimSpace(s.Platform) == "" {
					return validation.NewError("validation_social_platform", "every social link needs a platform")
				}
				if err := relativeOrAbsoluteURL.Validate(s.URL); err != nil {
					return validation.NewError("validation_social_url", s.Platform+": invalid link")
				}
			}
			return nil
		})),
	)
}

// ValidateExchangeRates checks the exchange-rate configuration draft.
func ValidateExchangeRates(c model.ExchangeRateConfig) error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.RefreshMinutes, validation.Min(0)),
		validation.Field(&c.Rates, validation.By(func(value any) error {
			rates, _ := value.([]model.ExchangeRate)
			seen := make(map[string]bool, len(rates))
			for _, r := range rates {
				code := strings.ToUpper(strings.TrimSpace(r.Currency))
				if code == "" {
					continue
				}
				if !currencyCode.MatchString(code) {
					return validation.NewError("validation_currency_code", code+": currency must be a 3-letter code")
				}
				if seen[code] {
					return validation.NewError("validation_currency_duplicate", code+": currency listed twice")
				}
				if r.Unparsed != "" {
					return validation.NewError("validation_rate_number", code+": "+r.Unparsed+" is not a number")
				}
				if r.Buy < 0 || r.Sell < 0 {
					return validation.NewError("validation_rate_negative", code+": rates must not be negative")
				}
				seen[code] = true
			}
			return nil
		})),
	)
}
