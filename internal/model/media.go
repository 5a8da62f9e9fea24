// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeSVG  = "image/svg+xml"
	MimeTypeMP4  = "video/mp4"
	MimeTypeWebM = "video/webm"
)

// MediaType tells the public site how to render a media asset.
type MediaType string

// Media types.
const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// ParseMediaType returns MediaVideo for "video" and MediaImage otherwise.
func ParseMediaType(s string) MediaType {
	if strings.EqualFold(strings.TrimSpace(s), string(MediaVideo)) {
		return MediaVideo
	}
	return MediaImage
}

// MediaTypeForMime guesses a media type from a MIME type.
func MediaTypeForMime(mimeType string) MediaType {
	if strings.HasPrefix(mimeType, "video/") {
		return MediaVideo
	}
	return MediaImage
}

// Device is a viewport class for device-scoped media.
type Device string

// Devices.
const (
	DeviceDesktop Device = "desktop"
	DeviceTablet  Device = "tablet"
	DeviceMobile  Device = "mobile"
)

// Devices lists every device class.
var Devices = []Device{DeviceDesktop, DeviceTablet, DeviceMobile}

// ParseDevice returns the device for s, defaulting to desktop.
func ParseDevice(s string) Device {
	switch Device(strings.ToLower(strings.TrimSpace(s))) {
	case DeviceTablet:
		return DeviceTablet
	case DeviceMobile:
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

// PendingFile is a file selected in an editor but not yet sent to the backend.
// Data is what gets uploaded; PreviewURL is a local, non-persisted preview.
type PendingFile struct {
	Filename    string
	ContentType string
	Data        []byte
	PreviewID   string
	PreviewURL  string
}

// Clone returns a copy that does not share the data buffer.
func (f *PendingFile) Clone() *PendingFile {
	if f == nil {
		return nil
	}
	c := *f
	c.Data = append([]byte(nil), f.Data...)
	return &c
}

// MediaVariant is one optional media asset of an entity.
type MediaVariant struct {
	Type    MediaType
	URL     string
	Pending *PendingFile
}

// Clone returns a deep copy of the variant.
func (v MediaVariant) Clone() MediaVariant {
	v.Pending = v.Pending.Clone()
	return v
}

// IsSet reports whether the variant has a persisted URL or a pending file.
func (v MediaVariant) IsSet() bool {
	return v.URL != "" || v.Pending != nil
}

// DisplayURL returns the local preview of a pending file, else the persisted URL.
func (v MediaVariant) DisplayURL() string {
	if v.Pending != nil && v.Pending.PreviewURL != "" {
		return v.Pending.PreviewURL
	}
	return v.URL
}
