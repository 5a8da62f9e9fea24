// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/finpanel/internal/backend"
	"github.com/olegiv/finpanel/internal/model"
	"github.com/olegiv/finpanel/internal/util"
	"github.com/olegiv/finpanel/internal/wire"
)

// KeyNotPersisted is the translation key of the fallback warning.
const KeyNotPersisted = "media.not_persisted"

// errNoURL is returned when the media service answers without a URL.
var errNoURL = errors.New("upload response has no url")

// Sender posts multipart payloads.
type Sender interface {
	SendMultipart(ctx context.Context, method, path string, payload wire.MultipartPayload, result any) error
}

// Uploader sends files to the media service.
type Uploader struct {
	sender   Sender
	endpoint string
	logger   *slog.Logger
}

// NewUploader creates an uploader posting to endpoint (absolute URL or a
// path on the backend).
func NewUploader(sender Sender, endpoint string, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{sender: sender, endpoint: endpoint, logger: logger}
}

// UploadResult is the outcome of an upload. When Persisted is false, URL
// is a local preview that only lives in this panel process.
type UploadResult struct {
	URL        string
	Persisted  bool
	WarningKey string
	Err        error
}

type uploadResponse struct {
	URL     string `json:"url"`
	FileURL string `json:"file_url"`
}

// Upload posts file as the "file" field. Failures fall back to the local
// preview of file and are reported through the result, not an error.
func (u *Uploader) Upload(ctx context.Context, file *model.PendingFile) UploadResult {
	if file == nil {
		return UploadResult{Err: errors.New("no file")}
	}
	fallback := UploadResult{URL: file.PreviewURL, WarningKey: KeyNotPersisted}
	if u.endpoint == "" {
		fallback.Err = errors.New("media upload endpoint is not configured")
		return fallback
	}

	name, err := util.SanitizeFilename(file.Filename)
	if err != nil {
		fallback.Err = err
		return fallback
	}

	var resp uploadResponse
	payload := wire.MultipartPayload{Files: []wire.FilePart{{
		Field:       "file",
		Filename:    name,
		ContentType: file.ContentType,
		Data:        file.Data,
	}}}
	if err := u.sender.SendMultipart(ctx, http.MethodPost, u.endpoint, payload, &resp); err != nil {
		u.logger.Warn("media upload failed, keeping local preview", "file", name, "error", err)
		fallback.Err = err
		return fallback
	}

	url := resp.URL
	if url == "" {
		url = resp.FileURL
	}
	if url == "" {
		u.logger.Warn("media upload returned no url", "file", name)
		fallback.Err = errNoURL
		return fallback
	}

	u.logger.Info("media uploaded", "file", name, "url", url)
	return UploadResult{URL: url, Persisted: true}
}

var _ Sender = (*backend.Client)(nil)
