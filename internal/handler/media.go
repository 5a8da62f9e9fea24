// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/finpanel/internal/editor"
	"github.com/olegiv/finpanel/internal/i18n"
	"github.com/olegiv/finpanel/internal/media"
	"github.com/olegiv/finpanel/internal/model"
)

// multipartMemory is how much of an upload is kept in memory while parsing.
const multipartMemory = 8 << 20

// MediaHandler serves local previews and accepts files picked in editors.
type MediaHandler struct {
	deps *Deps
}

// NewMediaHandler creates a media handler.
func NewMediaHandler(deps *Deps) *MediaHandler {
	return &MediaHandler{deps: deps}
}

// ServePreview handles GET /media/preview/{id}.
func (h *MediaHandler) ServePreview(w http.ResponseWriter, r *http.Request) {
	p, ok := h.deps.Previews.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", p.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(p.Data)))
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	_, _ = w.Write(p.Data)
}

// upload is a file read from a multipart request.
type upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

var errNoFile = errors.New("no file uploaded")

// readUpload reads the "file" part of the request, bounded by the
// configured upload limit.
func (h *MediaHandler) readUpload(w http.ResponseWriter, r *http.Request) (upload, error) {
	if h.deps.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.deps.MaxUploadBytes+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.deps.Logger.Warn("failed to parse multipart form", "error", err)
		return upload{}, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return upload{}, errNoFile
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return upload{}, err
	}
	if h.deps.MaxUploadBytes > 0 && int64(len(data)) > h.deps.MaxUploadBytes {
		return upload{}, media.ErrTooLarge
	}
	return upload{Filename: header.Filename, ContentType: header.Header.Get("Content-Type"), Data: data}, nil
}

func uploadErrorKey(err error) string {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, media.ErrTooLarge), errors.As(err, &maxErr):
		return "media.too_large"
	case errors.Is(err, errNoFile):
		return "media.no_file"
	default:
		return "media.invalid"
	}
}

// respondMedia answers script requests with JSON and form posts with a
// redirect back to the editor.
func respondMedia[D editor.Entity[D]](w http.ResponseWriter, r *http.Request, s *Screen[D], status int, flashType, message string, data map[string]any) {
	if isFetch(r) {
		if status >= http.StatusBadRequest {
			writeJSONError(w, status, message)
			return
		}
		if data == nil {
			data = map[string]any{}
		}
		if message != "" {
			data["message"] = message
		}
		writeJSONSuccess(w, data)
		return
	}
	target := s.recordURL(s.Editor(r).ID())
	if message == "" {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	flashAndRedirect(w, r, s.deps.Renderer, target, message, flashType)
}

// attach reads an upload, registers its preview and hands the pending file
// to apply. The previous pending file is revoked only once the draft
// holds the new one; a rejected upload leaves the draft and its preview
// untouched.
func attach[D editor.Entity[D]](h *MediaHandler, w http.ResponseWriter, r *http.Request, s *Screen[D],
	current func(D) *model.PendingFile, apply func(*D, *model.PendingFile)) {
	lang := adminLang(r)
	up, err := h.readUpload(w, r)
	if err != nil {
		respondMedia(w, r, s, http.StatusBadRequest, flashTypeError, i18n.T(lang, uploadErrorKey(err)), nil)
		return
	}

	e := s.Editor(r)
	pf, err := h.deps.Previews.Create(up.Filename, up.ContentType, up.Data)
	if err != nil {
		respondMedia(w, r, s, http.StatusBadRequest, flashTypeError, i18n.T(lang, uploadErrorKey(err)), nil)
		return
	}
	var old *model.PendingFile
	if err := e.Mutate(func(d *D) {
		old = current(*d)
		apply(d, pf)
	}); err != nil {
		h.deps.Previews.Revoke(pf.PreviewID)
		respondMedia(w, r, s, http.StatusConflict, flashTypeError, i18n.T(lang, editorErrorKey(err)), nil)
		return
	}
	h.deps.Previews.RevokeFiles(old)
	respondMedia(w, r, s, http.StatusOK, flashTypeSuccess, "", map[string]any{
		"preview_url": pf.PreviewURL,
		"type":        string(model.MediaTypeForMime(pf.ContentType)),
	})
}

// detach revokes the pending file returned by current and lets clear
// reset the draft field.
func detach[D editor.Entity[D]](h *MediaHandler, w http.ResponseWriter, r *http.Request, s *Screen[D],
	current func(D) *model.PendingFile, clear func(*D)) {
	e := s.Editor(r)
	old := current(e.Draft())
	if err := e.Mutate(clear); err != nil {
		respondMedia(w, r, s, http.StatusConflict, flashTypeError, i18n.T(adminLang(r), editorErrorKey(err)), nil)
		return
	}
	h.deps.Previews.RevokeFiles(old)
	respondMedia(w, r, s, http.StatusOK, flashTypeSuccess, "", nil)
}

// HeroMedia handles POST /admin/hero-slides/media/{device}.
func (h *MediaHandler) HeroMedia(s *Screen[model.HeroSlide]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		device := model.ParseDevice(chi.URLParam(r, "device"))
		attach(h, w, r, s,
			func(d model.HeroSlide) *model.PendingFile { return d.Variant(device).Pending },
			func(d *model.HeroSlide, pf *model.PendingFile) {
				v := d.Variant(device)
				v.Pending = pf
				v.Type = model.MediaTypeForMime(pf.ContentType)
				d.SetVariant(device, v)
			})
	}
}

// ClearHeroMedia handles POST /admin/hero-slides/media/{device}/clear.
// A cleared tablet or mobile variant falls back to the desktop media.
func (h *MediaHandler) ClearHeroMedia(s *Screen[model.HeroSlide]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		device := model.ParseDevice(chi.URLParam(r, "device"))
		detach(h, w, r, s,
			func(d model.HeroSlide) *model.PendingFile { return d.Variant(device).Pending },
			func(d *model.HeroSlide) { d.SetVariant(device, model.MediaVariant{}) })
	}
}

// CTAImage handles POST /admin/cta-slides/media/image.
func (h *MediaHandler) CTAImage(s *Screen[model.CTASlide]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attach(h, w, r, s,
			func(d model.CTASlide) *model.PendingFile { return d.Image.Pending },
			func(d *model.CTASlide, pf *model.PendingFile) {
				d.Image.Pending = pf
				d.Image.Type = model.MediaTypeForMime(pf.ContentType)
			})
	}
}

// ClearCTAImage handles POST /admin/cta-slides/media/image/clear.
func (h *MediaHandler) ClearCTAImage(s *Screen[model.CTASlide]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detach(h, w, r, s,
			func(d model.CTASlide) *model.PendingFile { return d.Image.Pending },
			func(d *model.CTASlide) { d.Image = model.MediaVariant{} })
	}
}

// FooterLogo handles POST /admin/footer/logo. The file goes to the media
// service right away; when that fails the logo stays a local preview and
// the editor is warned that it was not persisted.
func (h *MediaHandler) FooterLogo(s *Screen[model.Footer]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := adminLang(r)
		up, err := h.readUpload(w, r)
		if err != nil {
			respondMedia(w, r, s, http.StatusBadRequest, flashTypeError, i18n.T(lang, uploadErrorKey(err)), nil)
			return
		}
		e := s.Editor(r)
		old := e.Draft().LogoPending
		pf, err := h.deps.Previews.Create(up.Filename, up.ContentType, up.Data)
		if err != nil {
			respondMedia(w, r, s, http.StatusBadRequest, flashTypeError, i18n.T(lang, uploadErrorKey(err)), nil)
			return
		}

		res := h.deps.Uploader.Upload(r.Context(), pf)
		err = e.Mutate(func(f *model.Footer) {
			if res.Persisted {
				f.LogoURL = res.URL
				f.LogoPending = nil
				return
			}
			f.LogoPending = pf
		})
		if err != nil || res.Persisted {
			h.deps.Previews.Revoke(pf.PreviewID)
		}
		if err != nil {
			respondMedia(w, r, s, http.StatusConflict, flashTypeError, i18n.T(lang, editorErrorKey(err)), nil)
			return
		}
		h.deps.Previews.RevokeFiles(old)

		if !res.Persisted {
			respondMedia(w, r, s, http.StatusOK, flashTypeWarning, i18n.T(lang, res.WarningKey),
				map[string]any{"preview_url": res.URL, "persisted": false})
			return
		}
		respondMedia(w, r, s, http.StatusOK, flashTypeSuccess, i18n.T(lang, "media.uploaded"),
			map[string]any{"url": res.URL, "persisted": true})
	}
}

// ServiceIcon handles POST /admin/services/icon. Only a persisted upload
// changes the icon URL, since a local preview cannot be saved as a link.
func (h *MediaHandler) ServiceIcon(s *Screen[model.Service]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := adminLang(r)
		up, err := h.readUpload(w, r)
		if err != nil {
			respondMedia(w, r, s, http.StatusBadRequest, flashTypeError, i18n.T(lang, uploadErrorKey(err)), nil)
			return
		}
		pf, err := h.deps.Previews.Create(up.Filename, up.ContentType, up.Data)
		if err != nil {
			respondMedia(w, r, s, http.StatusBadRequest, flashTypeError, i18n.T(lang, uploadErrorKey(err)), nil)
			return
		}
		defer h.deps.Previews.Revoke(pf.PreviewID)

		res := h.deps.Uploader.Upload(r.Context(), pf)
		if !res.Persisted {
			respondMedia(w, r, s, http.StatusBadGateway, flashTypeWarning, i18n.T(lang, res.WarningKey), nil)
			return
		}
		if err := s.Editor(r).Mutate(func(svc *model.Service) { svc.IconURL = res.URL }); err != nil {
			respondMedia(w, r, s, http.StatusConflict, flashTypeError, i18n.T(lang, editorErrorKey(err)), nil)
			return
		}
		respondMedia(w, r, s, http.StatusOK, flashTypeSuccess, i18n.T(lang, "media.uploaded"), map[string]any{"url": res.URL})
	}
}
