// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wire

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/olegiv/finpanel/internal/model"
)

// FilePart is one file of a multipart body.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// MultipartPayload is a form-encoded body with optional files.
type MultipartPayload struct {
	Fields map[string]string
	Files  []FilePart
}

// SlideTranslation is the translation entry of hero and CTA slides.
type SlideTranslation struct {
	Language    int    `json:"language"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ButtonLabel string `json:"button_label"`
}

func slideTranslations(title, description, button model.LocalizedText) []SlideTranslation {
	title, description, button = title.Trimmed(), description.Trimmed(), button.Trimmed()
	return eachLanguage(func(code int, lang model.Language) SlideTranslation {
		return SlideTranslation{
			Language:    code,
			Title:       title.Get(lang),
			Description: description.Get(lang),
			ButtonLabel: button.Get(lang),
		}
	})
}

func slideFromTranslations(entries []SlideTranslation) (title, description, button model.LocalizedText) {
	texts := collect(entries,
		func(e SlideTranslation) int { return e.Language },
		func(e SlideTranslation) string { return e.Title },
		func(e SlideTranslation) string { return e.Description },
		func(e SlideTranslation) string { return e.ButtonLabel },
	)
	return texts[0], texts[1], texts[2]
}

// HeroSlideRecord is a hero slide as the backend returns it.
type HeroSlideRecord struct {
	ID           int64              `json:"id"`
	Index        int                `json:"index"`
	IsVisible    bool               `json:"is_visible"`
	ButtonURL    string             `json:"button_url"`
	TextColor    string             `json:"text_color"`
	FontFamily   string             `json:"font_family"`
	FontSize     int                `json:"font_size"`
	DesktopType  string             `json:"desktop_type"`
	DesktopFile  string             `json:"desktop_file"`
	TabletType   string             `json:"tablet_type"`
	TabletFile   string             `json:"tablet_file"`
	MobileType   string             `json:"mobile_type"`
	MobileFile   string             `json:"mobile_file"`
	Translations []SlideTranslation `json:"translations"`
}

// ToWireHeroSlide encodes a hero slide draft as multipart form data.
// Only pending files are attached; a device variant without any media is
// sent with clear_<device>=true so the backend drops a stale override.
func ToWireHeroSlide(s model.HeroSlide) (MultipartPayload, error) {
	translations, err := json.Marshal(slideTranslations(s.Title, s.Description, s.ButtonLabel))
	if err != nil {
		return MultipartPayload{}, fmt.Errorf("encoding translations: %w", err)
	}

	p := MultipartPayload{Fields: map[string]string{
		"index":        strconv.Itoa(s.Index),
		"is_visible":   strconv.FormatBool(s.Visible),
		"button_url":   strings.TrimSpace(s.ButtonURL),
		"text_color":   orDefault(s.TextColor, model.DefaultTextColor),
		"font_family":  orDefault(s.FontFamily, model.DefaultFontFamily),
		"font_size":    strconv.Itoa(positiveOr(s.FontSize, model.DefaultFontSize)),
		"translations": string(translations),
	}}

	for _, d := range model.Devices {
		v := s.Variant(d)
		prefix := string(d)
		if !v.IsSet() {
			if d != model.DeviceDesktop {
				p.Fields["clear_"+prefix] = "true"
			}
			continue
		}
		p.Fields[prefix+"_type"] = string(mediaTypeOf(v))
		if v.Pending != nil {
			p.Files = append(p.Files, FilePart{
				Field:       prefix + "_file",
				Filename:    v.Pending.Filename,
				ContentType: v.Pending.ContentType,
				Data:        v.Pending.Data,
			})
		}
	}
	return p, nil
}

// FromWireHeroSlide decodes a hero slide record.
func FromWireHeroSlide(r HeroSlideRecord) model.HeroSlide {
	title, description, button := slideFromTranslations(r.Translations)
	return model.HeroSlide{
		ID:          r.ID,
		Index:       r.Index,
		Visible:     r.IsVisible,
		Title:       title,
		Description: description,
		ButtonLabel: button,
		ButtonURL:   r.ButtonURL,
		TextColor:   orDefault(r.TextColor, model.DefaultTextColor),
		FontFamily:  orDefault(r.FontFamily, model.DefaultFontFamily),
		FontSize:    positiveOr(r.FontSize, model.DefaultFontSize),
		Desktop:     variantFromWire(r.DesktopType, r.DesktopFile),
		Tablet:      variantFromWire(r.TabletType, r.TabletFile),
		Mobile:      variantFromWire(r.MobileType, r.MobileFile),
	}
}

// CTASlideRecord is a call-to-action slide as the backend returns it.
type CTASlideRecord struct {
	ID              int64              `json:"id"`
	Index           int                `json:"index"`
	IsVisible       bool               `json:"is_visible"`
	Link            string             `json:"link"`
	BackgroundColor string             `json:"background_color"`
	Image           string             `json:"image"`
	Translations    []SlideTranslation `json:"translations"`
}

// ToWireCTASlide encodes a CTA slide draft as multipart form data.
func ToWireCTASlide(s model.CTASlide) (MultipartPayload, error) {
	translations, err := json.Marshal(slideTranslations(s.Title, s.Description, s.ButtonLabel))
	if err != nil {
		return MultipartPayload{}, fmt.Errorf("encoding translations: %w", err)
	}
	p := MultipartPayload{Fields: map[string]string{
		"index":            strconv.Itoa(s.Index),
		"is_visible":       strconv.FormatBool(s.Visible),
		"link":             strings.TrimSpace(s.Link),
		"background_color": orDefault(s.BackgroundColor, "#000000"),
		"translations":     string(translations),
	}}
	if s.Image.Pending != nil {
		p.Files = append(p.Files, FilePart{
			Field:       "image",
			Filename:    s.Image.Pending.Filename,
			ContentType: s.Image.Pending.ContentType,
			Data:        s.Image.Pending.Data,
		})
	}
	return p, nil
}

// FromWireCTASlide decodes a CTA slide record.
func FromWireCTASlide(r CTASlideRecord) model.CTASlide {
	title, description, button := slideFromTranslations(r.Translations)
	return model.CTASlide{
		ID:              r.ID,
		Index:           r.Index,
		Visible:         r.IsVisible,
		Title:           title,
		Description:     description,
		ButtonLabel:     button,
		Link:            r.Link,
		BackgroundColor: r.BackgroundColor,
		Image:           model.MediaVariant{Type: model.MediaImage, URL: r.Image},
	}
}

func variantFromWire(mediaType, url string) model.MediaVariant {
	if url == "" {
		return model.MediaVariant{}
	}
	return model.MediaVariant{Type: model.ParseMediaType(mediaType), URL: url}
}

func mediaTypeOf(v model.MediaVariant) model.MediaType {
	if v.Type != "" {
		return v.Type
	}
	if v.Pending != nil {
		return model.MediaTypeForMime(v.Pending.ContentType)
	}
	return model.MediaImage
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

func positiveOr(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}
