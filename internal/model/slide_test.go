// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestHeroSlideMediaForFallsBackToDesktop(t *testing.T) {
	slide := HeroSlide{
		Desktop: MediaVariant{Type: MediaImage, URL: "https://cdn.example/desktop.jpg"},
		Mobile:  MediaVariant{Type: MediaVideo, URL: "https://cdn.example/mobile.mp4"},
	}

	tests := []struct {
		device Device
		want   string
	}{
		{DeviceDesktop, "https://cdn.example/desktop.jpg"},
		{DeviceTablet, "https://cdn.example/desktop.jpg"},
		{DeviceMobile, "https://cdn.example/mobile.mp4"},
	}
	for _, tt := range tests {
		t.Run(string(tt.device), func(t *testing.T) {
			if got := slide.MediaFor(tt.device).URL; got != tt.want {
				t.Errorf("MediaFor(%s).URL = %q, want %q", tt.device, got, tt.want)
			}
		})
	}
}

func TestHeroSlideMediaForPendingOverride(t *testing.T) {
	slide := HeroSlide{
		Desktop: MediaVariant{URL: "https://cdn.example/desktop.jpg"},
		Tablet:  MediaVariant{Pending: &PendingFile{Filename: "t.png", PreviewURL: "/admin/media/previews/abc"}},
	}

	got := slide.MediaFor(DeviceTablet)
	if got.DisplayURL() != "/admin/media/previews/abc" {
		t.Errorf("DisplayURL() = %q, want local preview", got.DisplayURL())
	}
}

func TestHeroSlideCloneDoesNotShareFiles(t *testing.T) {
	slide := HeroSlide{Desktop: MediaVariant{Pending: &PendingFile{Data: []byte("abc")}}}

	c := slide.Clone()
	c.Desktop.Pending.Data[0] = 'x'

	if string(slide.Desktop.Pending.Data) != "abc" {
		t.Error("Clone shares pending file data with the original")
	}
}
