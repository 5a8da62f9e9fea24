// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/olegiv/finpanel/internal/model"
)

// encodeTestPNG creates a PNG of the given size.
func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestMakeThumbnailFitsBounds(t *testing.T) {
	data := encodeTestPNG(t, 400, 200)

	thumb, err := MakeThumbnail(data, 100, 100)
	if err != nil {
		t.Fatalf("MakeThumbnail() error = %v", err)
	}
	if thumb.Width != 100 || thumb.Height != 50 {
		t.Errorf("size = %dx%d, want 100x50", thumb.Width, thumb.Height)
	}
	if thumb.MimeType != model.MimeTypePNG {
		t.Errorf("MimeType = %q, want png", thumb.MimeType)
	}
	w, h, err := Dimensions(thumb.Data)
	if err != nil || w != 100 || h != 50 {
		t.Errorf("Dimensions() = %d, %d, %v", w, h, err)
	}
}

func TestMakeThumbnailKeepsSmallImages(t *testing.T) {
	thumb, err := MakeThumbnail(encodeTestPNG(t, 40, 30), 0, 0)
	if err != nil {
		t.Fatalf("MakeThumbnail() error = %v", err)
	}
	if thumb.Width != 40 || thumb.Height != 30 {
		t.Errorf("size = %dx%d, want 40x30", thumb.Width, thumb.Height)
	}
}

func TestMakeThumbnailRejectsNonImages(t *testing.T) {
	_, err := MakeThumbnail([]byte("%PDF-1.4 not an image"), 0, 0)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
}

func TestIsRaster(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{model.MimeTypeJPEG, true},
		{model.MimeTypeWebP, true},
		{model.MimeTypeSVG, false},
		{model.MimeTypeMP4, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsRaster(tt.mimeType); got != tt.want {
			t.Errorf("IsRaster(%q) = %v, want %v", tt.mimeType, got, tt.want)
		}
	}
}

func TestApplyOrientationSwapsAxes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for _, o := range []int{5, 6, 7, 8} {
		b := applyOrientation(img, o).Bounds()
		if b.Dx() != 2 || b.Dy() != 4 {
			t.Errorf("orientation %d: size = %dx%d, want 2x4", o, b.Dx(), b.Dy())
		}
	}
}
