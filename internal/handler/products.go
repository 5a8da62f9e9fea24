// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io"
	"net/http"
	"net/url"

	"github.com/olegiv/finpanel/internal/calculator"
	"github.com/olegiv/finpanel/internal/editor"
	"github.com/olegiv/finpanel/internal/model"
	"github.com/olegiv/finpanel/internal/preview"
)

// ProductExtra is the product form data beyond the draft itself.
type ProductExtra struct {
	Categories   []model.TaxonomyItem
	ProductTypes []model.TaxonomyItem
	Relations    []RelationView
	Calculator   calculator.Config
}

// ServiceExtra is the service form data beyond the draft itself.
type ServiceExtra struct {
	Relations []RelationView
}

func newProductScreen(deps *Deps, onChange editor.ChangeFunc) *Screen[model.Product] {
	taxonomy := deps.Taxonomy
	registry := editor.NewRegistry(func() *editor.Editor[model.Product] {
		return editor.New(editor.Config[model.Product]{
			Resource: resourceProducts,
			Backend:  deps.Backend.Products(),
			Template: func(next int) model.Product { return model.Product{Index: next, Visible: true} },
			Validate: editor.ValidateProduct,
			Aux: []editor.Loader{
				taxonomy.Loader(model.TaxonomyCategory),
				taxonomy.Loader(model.TaxonomyProductType),
				taxonomy.Loader(model.TaxonomyDocument),
				taxonomy.Loader(model.TaxonomyCollateral),
				taxonomy.Loader(model.TaxonomyCondition),
			},
			OnChange: onChange,
			Logger:   deps.Logger,
		})
	})

	return NewScreen(deps, ScreenConfig[model.Product]{
		Name:     resourceProducts,
		Base:     "/admin/products",
		Page:     "admin/products",
		TitleKey: "nav.products",
		Registry: registry,
		Bind:     bindProduct,
		Preview: func(w io.Writer, q previewQuery, p model.Product) error {
			var in *calculator.Input
			if parsed, ok := calculator.Parse(q.Amount, q.Term); ok {
				in = &parsed
			}
			return deps.Preview.Product(w, preview.Product(p, q.Lang), in)
		},
		Label: func(p model.Product, lang model.Language) string { return p.Name.Get(lang) },
	})
}

func productExtra(deps *Deps, relations *RelationHandler[model.Product]) func(*http.Request, *editor.Editor[model.Product]) any {
	return func(r *http.Request, e *editor.Editor[model.Product]) any {
		return ProductExtra{
			Categories:   deps.Taxonomy.ItemsOrEmpty(r.Context(), model.TaxonomyCategory),
			ProductTypes: deps.Taxonomy.ItemsOrEmpty(r.Context(), model.TaxonomyProductType),
			Relations:    relations.Views(r),
			Calculator:   calculator.ConfigFor(e.Draft()),
		}
	}
}

// bindProduct copies the product form onto the draft. Relation lists are
// edited through their own endpoints and never posted with the form.
func bindProduct(form url.Values, p *model.Product) {
	p.Name = formLocalized(form, "name", p.Name)
	p.Description = formLocalized(form, "description", p.Description)
	p.Index = formInt(form, "index", p.Index)
	p.Visible = formBool(form, "visible", p.Visible)
	if _, ok := form["category_id"]; ok {
		p.CategoryID = formID(form, "category_id")
	}
	if _, ok := form["product_type_id"]; ok {
		p.ProductTypeID = formID(form, "product_type_id")
	}
	p.MinRate = formFloat(form, "min_rate", p.MinRate)
	p.MaxRate = formFloat(form, "max_rate", p.MaxRate)
	p.MaxAmount = formFloat(form, "max_amount", p.MaxAmount)
	p.MaxTermMonths = formInt(form, "max_term_months", p.MaxTermMonths)
	p.DownPaymentPercent = formFloat(form, "down_payment_percent", p.DownPaymentPercent)
}

func newServiceScreen(deps *Deps, onChange editor.ChangeFunc) *Screen[model.Service] {
	taxonomy := deps.Taxonomy
	registry := editor.NewRegistry(func() *editor.Editor[model.Service] {
		return editor.New(editor.Config[model.Service]{
			Resource: resourceServices,
			Backend:  deps.Backend.Services(),
			Template: func(next int) model.Service { return model.Service{Index: next, Visible: true} },
			Validate: editor.ValidateService,
			Aux: []editor.Loader{
				taxonomy.Loader(model.TaxonomyDocument),
				taxonomy.Loader(model.TaxonomyCondition),
			},
			OnChange: onChange,
			Logger:   deps.Logger,
		})
	})

	return NewScreen(deps, ScreenConfig[model.Service]{
		Name:     resourceServices,
		Base:     "/admin/services",
		Page:     "admin/services",
		TitleKey: "nav.services",
		Registry: registry,
		Bind:     bindService,
		Preview: func(w io.Writer, q previewQuery, s model.Service) error {
			return deps.Preview.Service(w, preview.Service(s, q.Lang))
		},
		Label: func(s model.Service, lang model.Language) string { return s.Name.Get(lang) },
	})
}

func serviceExtra(relations *RelationHandler[model.Service]) func(*http.Request, *editor.Editor[model.Service]) any {
	return func(r *http.Request, _ *editor.Editor[model.Service]) any {
		return ServiceExtra{Relations: relations.Views(r)}
	}
}

func bindService(form url.Values, s *model.Service) {
	s.Name = formLocalized(form, "name", s.Name)
	s.Description = formLocalized(form, "description", s.Description)
	s.Index = formInt(form, "index", s.Index)
	s.Visible = formBool(form, "visible", s.Visible)
	s.IconURL = formString(form, "icon_url", s.IconURL)
}
