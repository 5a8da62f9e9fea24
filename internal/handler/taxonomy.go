// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/olegiv/finpanel/internal/editor"
	"github.com/olegiv/finpanel/internal/model"
)

// taxonomyResource names the change notification of a taxonomy kind.
func taxonomyResource(kind model.TaxonomyKind) string {
	return resourceTaxonomy + ":" + string(kind)
}

// taxonomyKindOf extracts the kind from a taxonomy resource name.
func taxonomyKindOf(resource string) string {
	kind, ok := strings.CutPrefix(resource, resourceTaxonomy+":")
	if !ok {
		return ""
	}
	return kind
}

// TaxonomyExtra tells the shared taxonomy template which kind it edits.
type TaxonomyExtra struct {
	Kind  model.TaxonomyKind
	Kinds []model.TaxonomyKind
}

func newTaxonomyScreen(deps *Deps, kind model.TaxonomyKind, onChange editor.ChangeFunc) *Screen[model.TaxonomyItem] {
	registry := editor.NewRegistry(func() *editor.Editor[model.TaxonomyItem] {
		return editor.New(editor.Config[model.TaxonomyItem]{
			Resource: taxonomyResource(kind),
			Backend:  deps.Backend.Taxonomy(kind),
			Template: func(int) model.TaxonomyItem { return model.TaxonomyItem{Kind: kind} },
			Validate: editor.ValidateTaxonomy,
			OnChange: onChange,
			Logger:   deps.Logger,
		})
	})

	return NewScreen(deps, ScreenConfig[model.TaxonomyItem]{
		Name:     resourceTaxonomy,
		Base:     pathTaxonomy + string(kind),
		Page:     "admin/taxonomy",
		TitleKey: "taxonomy." + string(kind),
		Registry: registry,
		Bind: func(form url.Values, item *model.TaxonomyItem) {
			item.Label = formLocalized(form, "label", item.Label)
			item.Kind = kind
		},
		Label: func(item model.TaxonomyItem, lang model.Language) string { return item.Label.Get(lang) },
		Extra: func(*http.Request, *editor.Editor[model.TaxonomyItem]) any {
			return TaxonomyExtra{Kind: kind, Kinds: model.TaxonomyKinds}
		},
	})
}
