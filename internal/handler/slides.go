// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io"
	"net/url"

	"github.com/olegiv/finpanel/internal/editor"
	"github.com/olegiv/finpanel/internal/model"
	"github.com/olegiv/finpanel/internal/preview"
)

func newHeroSlideScreen(deps *Deps, onChange editor.ChangeFunc) *Screen[model.HeroSlide] {
	registry := editor.NewRegistry(func() *editor.Editor[model.HeroSlide] {
		return editor.New(editor.Config[model.HeroSlide]{
			Resource: resourceHeroSlides,
			Backend:  deps.Backend.HeroSlides(),
			Template: func(next int) model.HeroSlide {
				return model.HeroSlide{
					Index:      next,
					Visible:    true,
					TextColor:  model.DefaultTextColor,
					FontFamily: model.DefaultFontFamily,
					FontSize:   model.DefaultFontSize,
				}
			},
			Validate: editor.ValidateHeroSlide,
			OnChange: onChange,
			Logger:   deps.Logger,
		})
	})

	return NewScreen(deps, ScreenConfig[model.HeroSlide]{
		Name:     resourceHeroSlides,
		Base:     "/admin/hero-slides",
		Page:     "admin/hero_slides",
		TitleKey: "nav.hero_slides",
		Registry: registry,
		Bind:     bindHeroSlide,
		Preview: func(w io.Writer, q previewQuery, s model.HeroSlide) error {
			return deps.Preview.HeroSlide(w, preview.HeroSlide(s, q.Lang, q.Device))
		},
		Label: func(s model.HeroSlide, lang model.Language) string { return s.Title.Get(lang) },
		Pending: func(s model.HeroSlide) []*model.PendingFile {
			return []*model.PendingFile{s.Desktop.Pending, s.Tablet.Pending, s.Mobile.Pending}
		},
	})
}

// bindHeroSlide copies the slide form onto the draft. Media files arrive
// through the upload endpoints; the form only picks the media type of a
// variant that already has a URL.
func bindHeroSlide(form url.Values, s *model.HeroSlide) {
	s.Title = formLocalized(form, "title", s.Title)
	s.Description = formLocalized(form, "description", s.Description)
	s.ButtonLabel = formLocalized(form, "button_label", s.ButtonLabel)
	s.ButtonURL = formString(form, "button_url", s.ButtonURL)
	s.Index = formInt(form, "index", s.Index)
	s.Visible = formBool(form, "visible", s.Visible)
	s.TextColor = formString(form, "text_color", s.TextColor)
	s.FontFamily = formString(form, "font_family", s.FontFamily)
	s.FontSize = formInt(form, "font_size", s.FontSize)
	for _, device := range model.Devices {
		field := string(device) + "_type"
		if _, ok := form[field]; !ok {
			continue
		}
		v := s.Variant(device)
		if v.Pending == nil {
			v.Type = model.ParseMediaType(form.Get(field))
			s.SetVariant(device, v)
		}
	}
}

func newCTASlideScreen(deps *Deps, onChange editor.ChangeFunc) *Screen[model.CTASlide] {
	registry := editor.NewRegistry(func() *editor.Editor[model.CTASlide] {
		return editor.New(editor.Config[model.CTASlide]{
			Resource: resourceCTASlides,
			Backend:  deps.Backend.CTASlides(),
			Template: func(next int) model.CTASlide {
				return model.CTASlide{Index: next, Visible: true}
			},
			Validate: editor.ValidateCTASlide,
			OnChange: onChange,
			Logger:   deps.Logger,
		})
	})

	return NewScreen(deps, ScreenConfig[model.CTASlide]{
		Name:     resourceCTASlides,
		Base:     "/admin/cta-slides",
		Page:     "admin/cta_slides",
		TitleKey: "nav.cta_slides",
		Registry: registry,
		Bind:     bindCTASlide,
		Preview: func(w io.Writer, q previewQuery, s model.CTASlide) error {
			return deps.Preview.CTASlide(w, preview.CTASlide(s, q.Lang))
		},
		Label: func(s model.CTASlide, lang model.Language) string { return s.Title.Get(lang) },
		Pending: func(s model.CTASlide) []*model.PendingFile {
			return []*model.PendingFile{s.Image.Pending}
		},
	})
}

func bindCTASlide(form url.Values, s *model.CTASlide) {
	s.Title = formLocalized(form, "title", s.Title)
	s.Description = formLocalized(form, "description", s.Description)
	s.ButtonLabel = formLocalized(form, "button_label", s.ButtonLabel)
	s.Link = formString(form, "link", s.Link)
	s.Index = formInt(form, "index", s.Index)
	s.Visible = formBool(form, "visible", s.Visible)
	s.BackgroundColor = formString(form, "background_color", s.BackgroundColor)
}
