// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Default slide styling.
const (
	DefaultTextColor  = "#ffffff"
	DefaultFontFamily = "inherit"
	DefaultFontSize   = 48
)

// HeroSlide is one slide of the home page hero slider.
// Tablet and Mobile are optional overrides of the Desktop media.
type HeroSlide struct {
	ID          int64
	Index       int
	Visible     bool
	Title       LocalizedText
	Description LocalizedText
	ButtonLabel LocalizedText
	ButtonURL   string
	TextColor   string
	FontFamily  string
	FontSize    int

	Desktop MediaVariant
	Tablet  MediaVariant
	Mobile  MediaVariant
}

// EntityID implements editor.Entity.
func (s HeroSlide) EntityID() int64 { return s.ID }

// Clone implements editor.Entity.
func (s HeroSlide) Clone() HeroSlide {
	s.Desktop = s.Desktop.Clone()
	s.Tablet = s.Tablet.Clone()
	s.Mobile = s.Mobile.Clone()
	return s
}

// SortIndex implements editor.Indexed.
func (s HeroSlide) SortIndex() int { return s.Index }

// Variant returns the stored variant for a device, which may be unset.
func (s HeroSlide) Variant(d Device) MediaVariant {
	switch d {
	case DeviceTablet:
		return s.Tablet
	case DeviceMobile:
		return s.Mobile
	default:
		return s.Desktop
	}
}

// SetVariant replaces the variant for a device.
func (s *HeroSlide) SetVariant(d Device, v MediaVariant) {
	switch d {
	case DeviceTablet:
		s.Tablet = v
	case DeviceMobile:
		s.Mobile = v
	default:
		s.Desktop = v
	}
}

// MediaFor resolves the media shown on a device.
// A tablet or mobile variant without a file inherits the desktop media.
func (s HeroSlide) MediaFor(d Device) MediaVariant {
	v := s.Variant(d)
	if d != DeviceDesktop && !v.IsSet() {
		return s.Desktop
	}
	return v
}

// CTASlide is one slide of the call-to-action slider.
type CTASlide struct {
	ID              int64
	Index           int
	Visible         bool
	Title           LocalizedText
	Description     LocalizedText
	ButtonLabel     LocalizedText
	Link            string
	BackgroundColor string
	Image           MediaVariant
}

// EntityID implements editor.Entity.
func (s CTASlide) EntityID() int64 { return s.ID }

// Clone implements editor.Entity.
func (s CTASlide) Clone() CTASlide {
	s.Image = s.Image.Clone()
	return s
}

// SortIndex implements editor.Indexed.
func (s CTASlide) SortIndex() int { return s.Index }
