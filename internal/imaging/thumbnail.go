// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging builds small in-memory preview images of files the user
// selected but has not saved yet.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/finpanel/internal/model"
)

// Default preview bounds.
const (
	DefaultMaxWidth  = 960
	DefaultMaxHeight = 540
	jpegQuality      = 85
)

// ErrUnsupported is returned for data that is not a decodable raster image.
var ErrUnsupported = errors.New("unsupported image format")

// Thumbnail is an encoded preview image.
type Thumbnail struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// DetectMimeType sniffs the MIME type of data.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// IsRaster reports whether a MIME type can be thumbnailed.
func IsRaster(mimeType string) bool {
	switch mimeType {
	case model.MimeTypeJPEG, model.MimeTypePNG, model.MimeTypeGIF, model.MimeTypeWebP:
		return true
	default:
		return false
	}
}

// MakeThumbnail decodes data, applies EXIF orientation and fits the image
// into maxW×maxH. Images with transparency are encoded as PNG, the rest
// as JPEG.
func MakeThumbnail(data []byte, maxW, maxH int) (*Thumbnail, error) {
	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupported
	}
	if maxW <= 0 {
		maxW = DefaultMaxWidth
	}
	if maxH <= 0 {
		maxH = DefaultMaxHeight
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if format == "jpeg" {
		img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))
	}

	b := img.Bounds()
	if b.Dx() > maxW || b.Dy() > maxH {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	mimeType := model.MimeTypeJPEG
	if format == "png" || format == "gif" || format == "webp" {
		mimeType = model.MimeTypePNG
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}

	out := img.Bounds()
	return &Thumbnail{Data: buf.Bytes(), MimeType: mimeType, Width: out.Dx(), Height: out.Dy()}, nil
}

// Dimensions returns the size of an encoded image without decoding pixels.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("reading image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// readExifOrientation returns the EXIF orientation, 1 when unknown.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes camera rotation (EXIF orientations 2-8).
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// detectFormat names the raster format of data. TIFF is rejected
// (CVE-2023-36308 in disintegration/imaging).
func detectFormat(data []byte) string {
	switch DetectMimeType(data) {
	case model.MimeTypeJPEG:
		return "jpeg"
	case model.MimeTypePNG:
		return "png"
	case model.MimeTypeGIF:
		return "gif"
	case model.MimeTypeWebP:
		return "webp"
	default:
		return ""
	}
}
