// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/finpanel/internal/backend"
	"github.com/olegiv/finpanel/internal/editor"
	"github.com/olegiv/finpanel/internal/i18n"
	"github.com/olegiv/finpanel/internal/middleware"
	"github.com/olegiv/finpanel/internal/model"
	"github.com/olegiv/finpanel/internal/relation"
)

// RelationHandler edits the relation lists of a product or service draft.
// Changes to a saved parent are persisted immediately; on a new draft they
// stay local and go out with the first save.
type RelationHandler[D editor.Entity[D]] struct {
	deps     *Deps
	screen   *Screen[D]
	remote   *backend.Relations
	kinds    []model.TaxonomyKind
	get      func(D, model.TaxonomyKind) model.RelationList
	set      func(*D, model.TaxonomyKind, model.RelationList)
	onChange editor.ChangeFunc
}

func newRelationHandler[D editor.Entity[D]](
	deps *Deps,
	screen *Screen[D],
	remote *backend.Relations,
	kinds []model.TaxonomyKind,
	get func(D, model.TaxonomyKind) model.RelationList,
	set func(*D, model.TaxonomyKind, model.RelationList),
	onChange editor.ChangeFunc,
) *RelationHandler[D] {
	return &RelationHandler[D]{
		deps:     deps,
		screen:   screen,
		remote:   remote,
		kinds:    kinds,
		get:      get,
		set:      set,
		onChange: onChange,
	}
}

// RelationItem is one selected entry with its pending marker.
type RelationItem struct {
	ID      int64
	Label   model.LocalizedText
	Pending string
}

// RelationView is the template data of one relation selector.
type RelationView struct {
	Lang      string
	Kind      model.TaxonomyKind
	Action    string
	Selected  []RelationItem
	Available []model.TaxonomyItem
	CanAdd    bool
	Error     string
}

// Routes registers the add and remove endpoints.
func (h *RelationHandler[D]) Routes(r chi.Router) {
	r.Post("/relations/{kind}/add", h.Add)
	r.Post("/relations/{kind}/remove", h.Remove)
}

func (h *RelationHandler[D]) selector(r *http.Request, kind model.TaxonomyKind) *relation.Selector {
	ws := middleware.GetWorkspace(r)
	key := ws + "/" + h.screen.cfg.Name + "/" + string(kind)
	return h.deps.Relations.Get(key, func() *relation.Selector {
		current := func() *editor.Editor[D] { return h.screen.cfg.Registry.Get(ws, editorKey) }
		binding := relation.Binding{
			Load: func() model.RelationList { return h.get(current().Draft(), kind) },
			Store: func(list model.RelationList) error {
				return current().Mutate(func(d *D) { h.set(d, kind, list) })
			},
			Ready: func() error { return current().Ready() },
		}
		hook := func(ctx context.Context, op relation.Op, item model.Relation) error {
			parentID := current().ID()
			if parentID == 0 {
				return nil
			}
			var err error
			if op == relation.OpAdd {
				err = h.remote.Attach(ctx, parentID, kind, item.ID)
			} else {
				err = h.remote.Detach(ctx, parentID, kind, item.ID)
			}
			if err != nil {
				h.deps.Logger.Error("relation change failed", "resource", h.screen.cfg.Name, "op", op, "kind", kind, "item", item.ID, "error", err)
				return err
			}
			h.onChange(ctx, h.screen.cfg.Name)
			return nil
		}
		return relation.New(binding, hook)
	})
}

// View builds the selector data for kind against the cached catalog.
func (h *RelationHandler[D]) View(r *http.Request, kind model.TaxonomyKind) RelationView {
	sel := h.selector(r, kind)
	catalogItems := h.deps.Taxonomy.ItemsOrEmpty(r.Context(), kind)

	selected := sel.Selected()
	items := make([]RelationItem, 0, len(selected))
	for _, rel := range selected {
		item := RelationItem{ID: rel.ID, Label: rel.Label}
		if op, ok := sel.Pending(rel.ID); ok {
			item.Pending = op.String()
		}
		items = append(items, item)
	}

	return RelationView{
		Lang:      adminLang(r),
		Kind:      kind,
		Action:    h.screen.cfg.Base + "/relations/" + string(kind),
		Selected:  items,
		Available: sel.Available(catalogItems),
		CanAdd:    sel.CanAdd(catalogItems),
	}
}

// Views builds the selectors of every relation kind.
func (h *RelationHandler[D]) Views(r *http.Request) []RelationView {
	out := make([]RelationView, 0, len(h.kinds))
	for _, kind := range h.kinds {
		out = append(out, h.View(r, kind))
	}
	return out
}

func (h *RelationHandler[D]) kind(r *http.Request) (model.TaxonomyKind, bool) {
	kind, err := model.ParseTaxonomyKind(chi.URLParam(r, "kind"))
	if err != nil || !slices.Contains(h.kinds, kind) {
		return "", false
	}
	return kind, true
}

// Add handles POST {base}/relations/{kind}/add.
func (h *RelationHandler[D]) Add(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.respond(w, r, kind, errInvalidForm)
		return
	}
	item, found := h.deps.Taxonomy.Find(r.Context(), kind, formID(r.PostForm, "item_id"))
	if !found {
		h.respond(w, r, kind, errUnknownItem)
		return
	}
	h.respond(w, r, kind, h.selector(r, kind).Add(r.Context(), item))
}

// Remove handles POST {base}/relations/{kind}/remove.
func (h *RelationHandler[D]) Remove(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.respond(w, r, kind, errInvalidForm)
		return
	}
	h.respond(w, r, kind, h.selector(r, kind).Remove(r.Context(), formID(r.PostForm, "item_id")))
}

var (
	errInvalidForm = errors.New("invalid form data")
	errUnknownItem = errors.New("unknown catalog item")
)

func relationErrorKey(err error) (string, int) {
	switch {
	case errors.Is(err, relation.ErrPending):
		return "relation.pending", http.StatusConflict
	case errors.Is(err, errUnknownItem):
		return "relation.unknown_item", http.StatusBadRequest
	case errors.Is(err, errInvalidForm):
		return "error.invalid_form", http.StatusBadRequest
	case errors.Is(err, editor.ErrBusy), errors.Is(err, editor.ErrNotEditable):
		return editorErrorKey(err), http.StatusConflict
	default:
		return "relation.failed", http.StatusBadGateway
	}
}

// respond answers script requests with the refreshed selector fragment
// and plain form posts with a redirect back to the editor.
func (h *RelationHandler[D]) respond(w http.ResponseWriter, r *http.Request, kind model.TaxonomyKind, err error) {
	lang := adminLang(r)
	var message string
	status := http.StatusOK
	if err != nil {
		key, code := relationErrorKey(err)
		message = backend.UserMessage(err, i18n.T(lang, key))
		status = code
	}

	if !isFetch(r) {
		target := h.screen.recordURL(h.screen.Editor(r).ID())
		if err != nil {
			flashError(w, r, h.deps.Renderer, target, message)
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	view := h.View(r, kind)
	view.Error = message
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.deps.Renderer.RenderFragment(w, "relations", view); err != nil {
		h.deps.Logger.Error("failed to render relations", "kind", kind, "error", err)
	}
}
