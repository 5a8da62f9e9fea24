// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"mongolian product", "Хэрэглээний зээл", "kheregleenii-zeel"},
		{"mongolian vowels", "Өргөн хэрэглээ", "orgon-khereglee"},
		{"mongolian ts and u", "Үнэт цаас", "unet-tsaas"},
		{"mongolian ya", "Ял", "yal"},
		{"english", "Car Loan", "car-loan"},
		{"accents", "Café  Déjà vu", "cafe-deja-vu"},
		{"separators", "  --Hello--World--  ", "hello-world"},
		{"currency pair", "USD/MNT 2026", "usd-mnt-2026"},
		{"symbols only", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugifyTruncatesAtWordBoundary(t *testing.T) {
	got := Slugify(strings.Repeat("зээл ", 30))

	if len(got) > MaxSlugLength {
		t.Errorf("len = %d, want <= %d", len(got), MaxSlugLength)
	}
	if !strings.HasSuffix(got, "zeel") {
		t.Errorf("slug cut inside a word: %q", got)
	}
}
