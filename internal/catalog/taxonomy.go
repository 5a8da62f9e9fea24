// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olegiv/finpanel/internal/cache"
	"github.com/olegiv/finpanel/internal/model"
)

const taxonomyKeyPrefix = "taxonomy:"

// Taxonomy serves taxonomy catalogs through the cache.
type Taxonomy struct {
	sources map[model.TaxonomyKind]Lister[model.TaxonomyItem]
	cache   cache.Cache
	typed   *cache.TypedCache[[]model.TaxonomyItem]
	logger  *slog.Logger
}

// NewTaxonomy creates a taxonomy catalog over per-kind sources.
func NewTaxonomy(sources map[model.TaxonomyKind]Lister[model.TaxonomyItem], c cache.Cache, logger *slog.Logger) *Taxonomy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Taxonomy{
		sources: sources,
		cache:   c,
		typed:   cache.NewTypedCache[[]model.TaxonomyItem](c, 0),
		logger:  logger,
	}
}

func taxonomyKey(kind model.TaxonomyKind) string {
	return taxonomyKeyPrefix + string(kind)
}

// Items returns the catalog of kind.
func (t *Taxonomy) Items(ctx context.Context, kind model.TaxonomyKind) ([]model.TaxonomyItem, error) {
	src, ok := t.sources[kind]
	if !ok {
		return nil, fmt.Errorf("no source for taxonomy %q", kind)
	}
	return t.typed.GetOrLoad(ctx, taxonomyKey(kind), src.List)
}

// ItemsOrEmpty returns the catalog of kind, or nil after logging a failure.
// Editors use it so a missing catalog never blocks editing.
func (t *Taxonomy) ItemsOrEmpty(ctx context.Context, kind model.TaxonomyKind) []model.TaxonomyItem {
	items, err := t.Items(ctx, kind)
	if err != nil {
		t.logger.Warn("taxonomy unavailable", "kind", kind, "error", err)
		return nil
	}
	return items
}

// Find returns one item of kind by id.
func (t *Taxonomy) Find(ctx context.Context, kind model.TaxonomyKind, id int64) (model.TaxonomyItem, bool) {
	for _, item := range t.ItemsOrEmpty(ctx, kind) {
		if item.ID == id {
			return item, true
		}
	}
	return model.TaxonomyItem{}, false
}

// Loader returns a function that warms the cache for kind.
func (t *Taxonomy) Loader(kind model.TaxonomyKind) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := t.Items(ctx, kind)
		return err
	}
}

// Invalidate drops the cached catalog of kind.
func (t *Taxonomy) Invalidate(ctx context.Context, kind model.TaxonomyKind) error {
	return t.cache.Delete(ctx, taxonomyKey(kind))
}

// InvalidateAll drops every cached catalog.
func (t *Taxonomy) InvalidateAll(ctx context.Context) error {
	return t.cache.DeleteByPrefix(ctx, taxonomyKeyPrefix)
}
