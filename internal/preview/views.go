// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package preview projects drafts into what the public site would show.
//
// Projections are pure: they never mutate the draft and never touch the
// network. A language whose text is empty renders as empty; there is no
// fallback to the other language, matching the public site.
package preview

import (
	"sort"

	"github.com/olegiv/finpanel/internal/calculator"
	"github.com/olegiv/finpanel/internal/model"
	"github.com/olegiv/finpanel/internal/util"
)

// MediaView is a resolved media asset.
type MediaView struct {
	Type model.MediaType
	URL  string
}

// IsVideo reports whether the asset should render as a video element.
func (m MediaView) IsVideo() bool { return m.Type == model.MediaVideo }

// ProductView is the public product card and detail page.
type ProductView struct {
	Language           model.Language
	Slug               string
	Name               string
	Description        string
	MinRate            float64
	MaxRate            float64
	MaxAmount          float64
	MaxTermMonths      int
	DownPaymentPercent float64
	Documents          []string
	Collaterals        []string
	Conditions         []string
	Calculator         calculator.Config
}

// ServiceView is the public service block.
type ServiceView struct {
	Language    model.Language
	Slug        string
	Name        string
	Description string
	IconURL     string
	Documents   []string
	Conditions  []string
}

// HeroSlideView is one hero slide as rendered for a device.
type HeroSlideView struct {
	Language    model.Language
	Device      model.Device
	Title       string
	Description string
	ButtonLabel string
	ButtonURL   string
	TextColor   string
	FontFamily  string
	FontSize    int
	Media       MediaView
}

// CTASlideView is one call-to-action slide.
type CTASlideView struct {
	Language        model.Language
	Title           string
	Description     string
	ButtonLabel     string
	Link            string
	BackgroundColor string
	ImageURL        string
}

// FooterView is the site footer.
type FooterView struct {
	Language  model.Language
	LogoURL   string
	Address   string
	Copyright string
	Phone     string
	Email     string
	Socials   []model.SocialLink
}

// Product projects a product draft.
func Product(p model.Product, lang model.Language) ProductView {
	return ProductView{
		Language:           lang,
		Slug:               slugFor(p.Name),
		Name:               p.Name.Get(lang),
		Description:        p.Description.Get(lang),
		MinRate:            p.MinRate,
		MaxRate:            p.MaxRate,
		MaxAmount:          p.MaxAmount,
		MaxTermMonths:      p.MaxTermMonths,
		DownPaymentPercent: p.DownPaymentPercent,
		Documents:          labels(p.Documents, lang),
		Collaterals:        labels(p.Collaterals, lang),
		Conditions:         labels(p.Conditions, lang),
		Calculator:         calculator.ConfigFor(p),
	}
}

// Service projects a service draft.
func Service(s model.Service, lang model.Language) ServiceView {
	return ServiceView{
		Language:    lang,
		Slug:        slugFor(s.Name),
		Name:        s.Name.Get(lang),
		Description: s.Description.Get(lang),
		IconURL:     s.IconURL,
		Documents:   labels(s.Documents, lang),
		Conditions:  labels(s.Conditions, lang),
	}
}

// HeroSlide projects a hero slide for one device. A tablet or mobile
// variant that is not set shows the desktop media.
func HeroSlide(s model.HeroSlide, lang model.Language, device model.Device) HeroSlideView {
	media := s.MediaFor(device)
	fontSize := s.FontSize
	if fontSize <= 0 {
		fontSize = model.DefaultFontSize
	}
	return HeroSlideView{
		Language:    lang,
		Device:      device,
		Title:       s.Title.Get(lang),
		Description: s.Description.Get(lang),
		ButtonLabel: s.ButtonLabel.Get(lang),
		ButtonURL:   s.ButtonURL,
		TextColor:   orDefault(s.TextColor, model.DefaultTextColor),
		FontFamily:  orDefault(s.FontFamily, model.DefaultFontFamily),
		FontSize:    fontSize,
		Media:       MediaView{Type: media.Type, URL: media.DisplayURL()},
	}
}

// CTASlide projects a call-to-action slide.
func CTASlide(s model.CTASlide, lang model.Language) CTASlideView {
	return CTASlideView{
		Language:        lang,
		Title:           s.Title.Get(lang),
		Description:     s.Description.Get(lang),
		ButtonLabel:     s.ButtonLabel.Get(lang),
		Link:            s.Link,
		BackgroundColor: s.BackgroundColor,
		ImageURL:        s.Image.DisplayURL(),
	}
}

// Footer projects the footer.
func Footer(f model.Footer, lang model.Language) FooterView {
	logo := f.LogoURL
	if f.LogoPending != nil && f.LogoPending.PreviewURL != "" {
		logo = f.LogoPending.PreviewURL
	}
	socials := make([]model.SocialLink, len(f.Socials))
	copy(socials, f.Socials)
	sort.SliceStable(socials, func(i, j int) bool { return socials[i].Index < socials[j].Index })
	return FooterView{
		Language:  lang,
		LogoURL:   logo,
		Address:   f.Address.Get(lang),
		Copyright: f.Copyright.Get(lang),
		Phone:     f.Phone,
		Email:     f.Email,
		Socials:   socials,
	}
}

func labels(list model.RelationList, lang model.Language) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.Label.Get(lang))
	}
	return out
}

// slugFor builds the public URL segment from the first non-empty name.
func slugFor(name model.LocalizedText) string {
	for _, lang := range model.Languages {
		if slug := util.Slugify(name.Get(lang)); slug != "" {
			return slug
		}
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
