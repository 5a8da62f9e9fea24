// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/olegiv/finpanel/internal/backend"
	"github.com/olegiv/finpanel/internal/editor"
	"github.com/olegiv/finpanel/internal/i18n"
	"github.com/olegiv/finpanel/internal/middleware"
	"github.com/olegiv/finpanel/internal/model"
	"github.com/olegiv/finpanel/internal/render"
)

// editorKey names the one editor a screen keeps per workspace. Opening
// another record re-opens that editor, which drops results still in
// flight for the previous one.
const editorKey = "screen"

// previewQuery carries the preview pane toggles.
type previewQuery struct {
	Lang   model.Language
	Device model.Device
	Amount string
	Term   string
}

func parsePreviewQuery(r *http.Request) previewQuery {
	q := r.URL.Query()
	return previewQuery{
		Lang:   model.ParseLanguageOr(q.Get("lang"), model.LanguagePrimary),
		Device: model.ParseDevice(q.Get("device")),
		Amount: q.Get("amount"),
		Term:   q.Get("term"),
	}
}

// Encode returns the toggles as a query string for preview requests.
func (q previewQuery) Encode() string {
	v := url.Values{}
	v.Set("lang", q.Lang.Code())
	v.Set("device", string(q.Device))
	if q.Amount != "" {
		v.Set("amount", q.Amount)
	}
	if q.Term != "" {
		v.Set("term", q.Term)
	}
	return v.Encode()
}

// ScreenConfig describes the editor screen of one collection.
type ScreenConfig[D editor.Entity[D]] struct {
	Name      string
	Base      string
	Page      string
	TitleKey  string
	Singleton bool
	Registry  *editor.Registry[D]

	// Bind copies posted form values onto the draft. Fields absent from
	// the form are left alone.
	Bind func(form url.Values, draft *D)

	// Preview renders the public projection. Nil means no preview pane.
	Preview func(w io.Writer, q previewQuery, draft D) error

	Label   func(draft D, lang model.Language) string
	Extra   func(r *http.Request, e *editor.Editor[D]) any
	Pending func(draft D) []*model.PendingFile
}

// Screen serves the list, form, preview and delete flow of one collection.
type Screen[D editor.Entity[D]] struct {
	deps *Deps
	cfg  ScreenConfig[D]
}

// NewScreen creates a screen.
func NewScreen[D editor.Entity[D]](deps *Deps, cfg ScreenConfig[D]) *Screen[D] {
	return &Screen[D]{deps: deps, cfg: cfg}
}

// EditorPage is the template data of an editor screen.
type EditorPage[D any] struct {
	Name         string
	Base         string
	Singleton    bool
	Items        []D
	Draft        D
	ID           int64
	IsNew        bool
	State        string
	Busy         bool
	LoadError    string
	HasPreview   bool
	Preview      template.HTML
	PreviewQuery previewQuery
	Languages    []model.Language
	Devices      []model.Device
	Extra        any
}

// ConfirmPage is the template data of the delete confirmation screen.
type ConfirmPage struct {
	Name    string
	Base    string
	ID      int64
	Label   string
	Token   string
	Expires time.Time
}

// Routes registers the screen routes on r.
func (s *Screen[D]) Routes(r chi.Router) {
	r.Get("/", s.Index)
	r.Get("/preview", s.PreviewFragment)
	r.Post("/draft", s.Draft)
	r.Post("/save", s.Save)
	r.Post("/close", s.Close)
	if s.cfg.Singleton {
		return
	}
	r.Get("/new", s.New)
	r.Post("/delete", s.Delete)
	r.Get("/{id}", s.Edit)
	r.Get("/{id}/delete", s.ConfirmDelete)
}

// Editor returns the editor of the request's workspace.
func (s *Screen[D]) Editor(r *http.Request) *editor.Editor[D] {
	return s.cfg.Registry.Get(middleware.GetWorkspace(r), editorKey)
}

// Index handles GET {base}/ and keeps a draft that is already open.
func (s *Screen[D]) Index(w http.ResponseWriter, r *http.Request) {
	s.open(w, r, 0, r.URL.Query().Get("reload") == "1")
}

// New handles GET {base}/new and always starts a fresh draft.
func (s *Screen[D]) New(w http.ResponseWriter, r *http.Request) {
	s.open(w, r, 0, true)
}

// Edit handles GET {base}/{id}.
func (s *Screen[D]) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil || id <= 0 {
		flashError(w, r, s.deps.Renderer, s.cfg.Base, i18n.T(adminLang(r), "error.invalid_id"))
		return
	}
	s.open(w, r, id, r.URL.Query().Get("reload") == "1")
}

// isOpen reports whether the editor already holds the requested record,
// so a page reload does not throw away unsaved edits.
func (s *Screen[D]) isOpen(e *editor.Editor[D], id int64) bool {
	if e.State() != editor.StateEditing {
		return false
	}
	return e.ID() == id || (s.cfg.Singleton && id == 0)
}

func (s *Screen[D]) open(w http.ResponseWriter, r *http.Request, id int64, force bool) {
	e := s.Editor(r)
	if !force && s.isOpen(e, id) {
		s.renderPage(w, r, http.StatusOK)
		return
	}

	previous := s.pendingFiles(e.Draft())
	err := e.Open(r.Context(), id)
	if errors.Is(err, editor.ErrBusy) {
		s.renderPage(w, r, http.StatusConflict)
		return
	}
	s.deps.Previews.RevokeFiles(previous...)

	switch {
	case err == nil:
		s.renderPage(w, r, http.StatusOK)
	case errors.Is(err, editor.ErrNotFound):
		flashError(w, r, s.deps.Renderer, s.cfg.Base, i18n.T(adminLang(r), "editor.not_found"))
	case errors.Is(err, editor.ErrStale):
		s.renderPage(w, r, http.StatusConflict)
	default:
		s.renderPage(w, r, http.StatusBadGateway)
	}
}

// Draft handles POST {base}/draft: it applies the posted form to the
// draft and answers with the refreshed preview fragment.
func (s *Screen[D]) Draft(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	e := s.Editor(r)
	if err := e.Mutate(func(d *D) { s.cfg.Bind(r.PostForm, d) }); err != nil {
		s.writeEditorError(w, r, err)
		return
	}
	s.writePreview(w, r, e)
}

// PreviewFragment handles GET {base}/preview.
func (s *Screen[D]) PreviewFragment(w http.ResponseWriter, r *http.Request) {
	e := s.Editor(r)
	if e.State() != editor.StateEditing && !e.State().Busy() {
		s.writeEditorError(w, r, editor.ErrNotEditable)
		return
	}
	s.writePreview(w, r, e)
}

func (s *Screen[D]) writePreview(w http.ResponseWriter, r *http.Request, e *editor.Editor[D]) {
	if s.cfg.Preview == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	var buf bytes.Buffer
	if err := s.cfg.Preview(&buf, parsePreviewQuery(r), e.Draft()); err != nil {
		logAndInternalError(w, "failed to render preview", "resource", s.cfg.Name, "error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Save handles POST {base}/save.
func (s *Screen[D]) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, s.deps.Renderer, s.cfg.Base, i18n.T(adminLang(r), "error.invalid_form"))
		return
	}
	e := s.Editor(r)
	if err := e.Mutate(func(d *D) { s.cfg.Bind(r.PostForm, d) }); err != nil {
		s.redirectEditorError(w, r, e, err)
		return
	}

	sent := s.pendingFiles(e.Draft())
	err := e.Save(r.Context())
	var verr validation.Errors
	switch {
	case err == nil:
		s.deps.Previews.RevokeFiles(sent...)
		http.Redirect(w, r, s.recordURL(e.ID()), http.StatusSeeOther)
	case errors.As(err, &verr):
		s.renderPage(w, r, http.StatusUnprocessableEntity)
	case errors.Is(err, editor.ErrBusy), errors.Is(err, editor.ErrNotEditable), errors.Is(err, editor.ErrStale):
		s.redirectEditorError(w, r, e, err)
	default:
		s.renderPage(w, r, http.StatusBadGateway)
	}
}

// ConfirmDelete handles GET {base}/{id}/delete. Nothing is deleted until
// the issued token is posted back.
func (s *Screen[D]) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	lang := adminLang(r)
	id, err := ParseIDParam(r)
	if err != nil || id <= 0 {
		flashError(w, r, s.deps.Renderer, s.cfg.Base, i18n.T(lang, "error.invalid_id"))
		return
	}

	e := s.Editor(r)
	if e.State() != editor.StateEditing {
		if err := e.Open(r.Context(), 0); err != nil {
			s.redirectEditorError(w, r, e, err)
			return
		}
	}

	c, err := e.RequestDelete(id)
	if err != nil {
		if errors.Is(err, editor.ErrNotFound) {
			flashError(w, r, s.deps.Renderer, s.cfg.Base, i18n.T(lang, "editor.not_found"))
			return
		}
		s.redirectEditorError(w, r, e, err)
		return
	}

	page := ConfirmPage{Name: s.cfg.Name, Base: s.cfg.Base, ID: id, Token: c.Token, Expires: c.Expires}
	for _, item := range e.Items() {
		if item.EntityID() == id && s.cfg.Label != nil {
			page.Label = s.cfg.Label(item, contentLanguage(lang))
		}
	}
	data := render.TemplateData{
		Title: i18n.T(lang, "delete.title"),
		Lang:  lang,
		Nav:   s.cfg.Name,
		Data:  page,
	}
	if err := s.deps.Renderer.Render(w, r, "admin/confirm_delete", data); err != nil {
		logAndInternalError(w, "failed to render delete confirmation", "resource", s.cfg.Name, "error", err)
	}
}

// Delete handles POST {base}/delete with a confirmation token.
func (s *Screen[D]) Delete(w http.ResponseWriter, r *http.Request) {
	lang := adminLang(r)
	if err := r.ParseForm(); err != nil {
		flashError(w, r, s.deps.Renderer, s.cfg.Base, i18n.T(lang, "error.invalid_form"))
		return
	}

	e := s.Editor(r)
	openID := e.ID()
	pending := s.pendingFiles(e.Draft())
	err := e.Delete(r.Context(), r.PostForm.Get("token"))
	switch {
	case err == nil:
		if e.ID() != openID {
			s.deps.Previews.RevokeFiles(pending...)
		}
		http.Redirect(w, r, s.recordURL(e.ID()), http.StatusSeeOther)
	case errors.Is(err, editor.ErrNotConfirmed):
		flashError(w, r, s.deps.Renderer, s.recordURL(e.ID()), i18n.T(lang, "editor.not_confirmed"))
	case errors.Is(err, editor.ErrBusy), errors.Is(err, editor.ErrNotEditable), errors.Is(err, editor.ErrStale):
		s.redirectEditorError(w, r, e, err)
	default:
		// The editor carries the failure notice.
		http.Redirect(w, r, s.recordURL(e.ID()), http.StatusSeeOther)
	}
}

// Close handles POST {base}/close and discards the draft.
func (s *Screen[D]) Close(w http.ResponseWriter, r *http.Request) {
	ws := middleware.GetWorkspace(r)
	if e, ok := s.cfg.Registry.Lookup(ws, editorKey); ok {
		s.deps.Previews.RevokeFiles(s.pendingFiles(e.Draft())...)
	}
	s.cfg.Registry.Drop(ws, editorKey)
	http.Redirect(w, r, s.cfg.Base, http.StatusSeeOther)
}

func (s *Screen[D]) recordURL(id int64) string {
	if s.cfg.Singleton || id == 0 {
		return s.cfg.Base
	}
	return s.cfg.Base + "/" + strconv.FormatInt(id, 10)
}

func (s *Screen[D]) pendingFiles(draft D) []*model.PendingFile {
	if s.cfg.Pending == nil {
		return nil
	}
	return s.cfg.Pending(draft)
}

// editorErrorKey maps editor state errors to translation keys.
func editorErrorKey(err error) string {
	switch {
	case errors.Is(err, editor.ErrBusy):
		return "editor.busy"
	case errors.Is(err, editor.ErrNotEditable):
		return "editor.not_open"
	case errors.Is(err, editor.ErrStale):
		return "editor.stale"
	case errors.Is(err, editor.ErrNotFound):
		return "editor.not_found"
	default:
		return "editor.load_failed"
	}
}

func (s *Screen[D]) redirectEditorError(w http.ResponseWriter, r *http.Request, e *editor.Editor[D], err error) {
	target := s.cfg.Base
	if !errors.Is(err, editor.ErrStale) {
		target = s.recordURL(e.ID())
	}
	flashError(w, r, s.deps.Renderer, target, i18n.T(adminLang(r), editorErrorKey(err)))
}

func (s *Screen[D]) writeEditorError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusConflict
	if !errors.Is(err, editor.ErrBusy) && !errors.Is(err, editor.ErrNotEditable) {
		status = http.StatusInternalServerError
	}
	writeJSONError(w, status, i18n.T(adminLang(r), editorErrorKey(err)))
}

func (s *Screen[D]) renderPage(w http.ResponseWriter, r *http.Request, status int) {
	lang := adminLang(r)
	e := s.Editor(r)
	q := parsePreviewQuery(r)
	state := e.State()

	page := EditorPage[D]{
		Name:         s.cfg.Name,
		Base:         s.cfg.Base,
		Singleton:    s.cfg.Singleton,
		Items:        e.Items(),
		Draft:        e.Draft(),
		ID:           e.ID(),
		IsNew:        e.ID() == 0,
		State:        state.String(),
		Busy:         state.Busy(),
		HasPreview:   s.cfg.Preview != nil,
		PreviewQuery: q,
		Languages:    model.Languages,
		Devices:      model.Devices,
	}
	if state == editor.StateError {
		page.LoadError = backend.UserMessage(e.Err(), i18n.T(lang, "editor.load_failed"))
	}
	if state == editor.StateEditing && s.cfg.Preview != nil {
		var buf bytes.Buffer
		if err := s.cfg.Preview(&buf, q, page.Draft); err != nil {
			s.deps.Logger.Error("failed to render preview", "resource", s.cfg.Name, "error", err)
		} else {
			page.Preview = template.HTML(buf.String()) //nolint:gosec // produced by the preview templates
		}
	}
	if s.cfg.Extra != nil {
		page.Extra = s.cfg.Extra(r, e)
	}

	data := render.TemplateData{
		Title:  i18n.T(lang, s.cfg.TitleKey),
		Lang:   lang,
		Nav:    s.cfg.Name,
		Data:   page,
		Notice: noticeView(e, lang),
	}
	if err := s.deps.Renderer.RenderStatus(w, r, status, s.cfg.Page, data); err != nil {
		logAndInternalError(w, "failed to render page", "page", s.cfg.Page, "error", err)
	}
}

// noticeView translates the active editor notice. A server message is
// shown verbatim.
func noticeView[D editor.Entity[D]](e *editor.Editor[D], lang string) *render.Notice {
	n, ok := e.Notice()
	if !ok {
		return nil
	}
	text := n.Message
	if text == "" {
		text = i18n.T(lang, n.Key)
	}
	return &render.Notice{Kind: string(n.Kind), Text: text}
}

// contentLanguage picks the content language matching the admin UI
// language, so list labels follow the interface.
func contentLanguage(uiLang string) model.Language {
	return model.ParseLanguageOr(uiLang, model.LanguagePrimary)
}
