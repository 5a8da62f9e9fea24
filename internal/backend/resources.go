// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/olegiv/finpanel/internal/model"
	"github.com/olegiv/finpanel/internal/wire"
)

// Resource paths
const (
	PathProducts      = "/product/"
	PathServices      = "/services/"
	PathHeroSlides    = "/hero-slider/"
	PathCTASlides     = "/CTA/"
	PathFooter        = "/footer/"
	PathExchangeRates = "/exchange-rate-config/"
	PathCategories    = "/categories/"
	PathProductTypes  = "/product-type/"
	PathDocuments     = "/document/"
	PathCollaterals   = "/collateral/"
	PathConditions    = "/condition/"
	ParentProducts    = "product"
	ParentServices    = "services"
)

// taxonomyPaths maps taxonomy kinds to their catalog endpoints.
var taxonomyPaths = map[model.TaxonomyKind]string{
	model.TaxonomyDocument:    PathDocuments,
	model.TaxonomyCollateral:  PathCollaterals,
	model.TaxonomyCondition:   PathConditions,
	model.TaxonomyCategory:    PathCategories,
	model.TaxonomyProductType: PathProductTypes,
}

// relationSegments maps relation kinds to the nested path under a parent.
var relationSegments = map[model.TaxonomyKind]string{
	model.TaxonomyDocument:   "documents",
	model.TaxonomyCollateral: "collaterals",
	model.TaxonomyCondition:  "conditions",
}

func jsonEncoder[D, P any](fn func(D) P) func(D) (any, error) {
	return func(d D) (any, error) { return fn(d), nil }
}

func multipartEncoder[D any](fn func(D) (wire.MultipartPayload, error)) func(D) (any, error) {
	return func(d D) (any, error) { return fn(d) }
}

// Products is the product collection.
func (c *Client) Products() *Collection[wire.ProductRecord, model.Product] {
	return NewCollection(c, PathProducts, wire.FromWireProduct, jsonEncoder(wire.ToWireProduct))
}

// Services is the service collection.
func (c *Client) Services() *Collection[wire.ServiceRecord, model.Service] {
	return NewCollection(c, PathServices, wire.FromWireService, jsonEncoder(wire.ToWireService))
}

// HeroSlides is the hero slider collection.
func (c *Client) HeroSlides() *Collection[wire.HeroSlideRecord, model.HeroSlide] {
	return NewCollection(c, PathHeroSlides, wire.FromWireHeroSlide, multipartEncoder(wire.ToWireHeroSlide))
}

// CTASlides is the call-to-action slider collection.
func (c *Client) CTASlides() *Collection[wire.CTASlideRecord, model.CTASlide] {
	return NewCollection(c, PathCTASlides, wire.FromWireCTASlide, multipartEncoder(wire.ToWireCTASlide))
}

// Footer is the singleton footer resource.
func (c *Client) Footer() *Collection[wire.FooterRecord, model.Footer] {
	return NewCollection(c, PathFooter, wire.FromWireFooter, jsonEncoder(wire.ToWireFooter))
}

// ExchangeRates is the singleton exchange-rate configuration resource.
func (c *Client) ExchangeRates() *Collection[wire.ExchangeRateConfigRecord, model.ExchangeRateConfig] {
	return NewCollection(c, PathExchangeRates, wire.FromWireExchangeRateConfig, jsonEncoder(wire.ToWireExchangeRateConfig))
}

// Taxonomy is the catalog collection of the given kind.
func (c *Client) Taxonomy(kind model.TaxonomyKind) *Collection[wire.TaxonomyRecord, model.TaxonomyItem] {
	decode := func(r wire.TaxonomyRecord) model.TaxonomyItem { return wire.FromWireTaxonomy(kind, r) }
	return NewCollection(c, taxonomyPaths[kind], decode, jsonEncoder(wire.ToWireTaxonomy))
}

// Relations attaches and detaches taxonomy items on a saved parent record.
type Relations struct {
	client *Client
	parent string
}

// ProductRelations manages relation lists of products.
func (c *Client) ProductRelations() *Relations {
	return &Relations{client: c, parent: ParentProducts}
}

// ServiceRelations manages relation lists of services.
func (c *Client) ServiceRelations() *Relations {
	return &Relations{client: c, parent: ParentServices}
}

func (r *Relations) path(parentID int64, kind model.TaxonomyKind) (string, error) {
	seg, ok := relationSegments[kind]
	if !ok {
		return "", fmt.Errorf("%s cannot be related to a %s", kind, r.parent)
	}
	return fmt.Sprintf("/%s/%d/%s/", r.parent, parentID, seg), nil
}

// Attach links itemID to the parent.
func (r *Relations) Attach(ctx context.Context, parentID int64, kind model.TaxonomyKind, itemID int64) error {
	path, err := r.path(parentID, kind)
	if err != nil {
		return err
	}
	return r.client.SendJSON(ctx, http.MethodPost, path, map[string]int64{"id": itemID}, nil)
}

// Detach unlinks itemID from the parent.
func (r *Relations) Detach(ctx context.Context, parentID int64, kind model.TaxonomyKind, itemID int64) error {
	path, err := r.path(parentID, kind)
	if err != nil {
		return err
	}
	return r.client.SendJSON(ctx, http.MethodDelete, fmt.Sprintf("%s%d/", path, itemID), nil, nil)
}
