// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package media handles files chosen in the editors: local previews of
// unsaved files and uploads to the media service.
package media

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/finpanel/internal/imaging"
	"github.com/olegiv/finpanel/internal/model"
)

// PreviewPath is the URL prefix under which previews are served.
const PreviewPath = "/media/preview/"

// DefaultPreviewTTL bounds how long an unreferenced preview is kept.
const DefaultPreviewTTL = 2 * time.Hour

// ErrTooLarge is returned for files above the configured size limit.
var ErrTooLarge = errors.New("file is too large")

// Preview is a locally held rendition of an unsaved file.
type Preview struct {
	ID          string
	ContentType string
	Data        []byte
	Created     time.Time
}

// Previews is the registry of preview handles. A handle must be revoked
// when its file is replaced or the draft is saved or discarded.
type Previews struct {
	mu       sync.Mutex
	items    map[string]*Preview
	maxBytes int64
	now      func() time.Time
}

// NewPreviews creates a registry. maxBytes limits accepted files (0 = none).
func NewPreviews(maxBytes int64) *Previews {
	return &Previews{
		items:    make(map[string]*Preview),
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Create registers a preview for data and returns a pending file that
// carries both the raw bytes and the preview handle.
func (p *Previews) Create(filename, contentType string, data []byte) (*model.PendingFile, error) {
	if p.maxBytes > 0 && int64(len(data)) > p.maxBytes {
		return nil, ErrTooLarge
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = imaging.DetectMimeType(data)
	}

	preview := &Preview{ID: uuid.NewString(), ContentType: contentType, Data: data, Created: p.now()}
	if imaging.IsRaster(contentType) {
		if thumb, err := imaging.MakeThumbnail(data, 0, 0); err == nil {
			preview.ContentType = thumb.MimeType
			preview.Data = thumb.Data
		}
	}

	p.mu.Lock()
	p.items[preview.ID] = preview
	p.mu.Unlock()

	return &model.PendingFile{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
		PreviewID:   preview.ID,
		PreviewURL:  PreviewPath + preview.ID,
	}, nil
}

func (p *Previews) Get(id string) (*Preview, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	preview, ok := p.items[id]
	return preview, ok
}

// Revoke drops the preview for id. Unknown ids are ignored.
func (p *Previews) Revoke(id string) {
	if id == "" {
		return
	}
	p.mu.Lock()
	delete(p.items, id)
	p.mu.Unlock()
}

// RevokeFiles revokes the handles of every non-nil pending file.
func (p *Previews) RevokeFiles(files ...*model.PendingFile) {
	for _, f := range files {
		if f != nil {
			p.Revoke(f.PreviewID)
		}
	}
}

// Sweep drops previews older than ttl and returns how many.
func (p *Previews) Sweep(ttl time.Duration) int {
	cutoff := p.now().Add(-ttl)
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for id, preview := range p.items {
		if preview.Created.Before(cutoff) {
			delete(p.items, id)
			n++
		}
	}
	return n
}

// Len returns the number of live previews.
func (p *Previews) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
