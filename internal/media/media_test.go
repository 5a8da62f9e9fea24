// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/finpanel/internal/backend"
)

func TestPreviewsCreateAndRevoke(t *testing.T) {
	p := NewPreviews(0)

	first, err := p.Create("a.mp4", "video/mp4", []byte("video-a"))
	require.NoError(t, err)
	assert.Equal(t, PreviewPath+first.PreviewID, first.PreviewURL)

	second, err := p.Create("b.mp4", "video/mp4", []byte("video-b"))
	require.NoError(t, err)
	assert.NotEqual(t, first.PreviewID, second.PreviewID)
	assert.Equal(t, 2, p.Len(), "creating a preview leaves earlier ones alone")

	p.Revoke(first.PreviewID)
	_, ok := p.Get(first.PreviewID)
	assert.False(t, ok, "revoked preview must be gone")
	got, ok := p.Get(second.PreviewID)
	require.True(t, ok)
	assert.Equal(t, []byte("video-b"), got.Data)

	p.RevokeFiles(second, nil)
	assert.Equal(t, 0, p.Len())
}

func TestPreviewsLimitAndSweep(t *testing.T) {
	p := NewPreviews(4)
	_, err := p.Create("big.bin", "video/mp4", []byte("too big"))
	assert.ErrorIs(t, err, ErrTooLarge)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	_, err = p.Create("a.mp4", "video/mp4", []byte("ok"))
	require.NoError(t, err)

	now = now.Add(3 * time.Hour)
	assert.Equal(t, 1, p.Sweep(DefaultPreviewTTL))
}

func newUploadServer(t *testing.T, status int, body string) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil || r.MultipartForm.File["file"] == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return backend.New(backend.Options{BaseURL: srv.URL})
}

func TestUploadReturnsServerURL(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"url", `{"url":"https://cdn.example.com/logo.png"}`, "https://cdn.example.com/logo.png"},
		{"file_url", `{"file_url":"https://cdn.example.com/x.png"}`, "https://cdn.example.com/x.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newUploadServer(t, http.StatusOK, tt.body)
			p := NewPreviews(0)
			file, _ := p.Create("logo.png", "video/mp4", []byte("data"))

			res := NewUploader(c, "/upload/", nil).Upload(context.Background(), file)
			assert.True(t, res.Persisted)
			assert.Equal(t, tt.want, res.URL)
			assert.NoError(t, res.Err)
		})
	}
}

func TestUploadFallsBackToLocalPreview(t *testing.T) {
	c := newUploadServer(t, http.StatusInternalServerError, `{"message":"disk full"}`)
	p := NewPreviews(0)
	file, _ := p.Create("logo.png", "video/mp4", []byte("data"))

	res := NewUploader(c, "/upload/", nil).Upload(context.Background(), file)
	assert.False(t, res.Persisted)
	assert.Equal(t, file.PreviewURL, res.URL)
	assert.Equal(t, KeyNotPersisted, res.WarningKey)
	assert.Error(t, res.Err)

	empty := newUploadServer(t, http.StatusOK, `{}`)
	res = NewUploader(empty, "/upload/", nil).Upload(context.Background(), file)
	assert.False(t, res.Persisted)
}
