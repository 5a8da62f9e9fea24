// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/finpanel/internal/cache"
	"github.com/olegiv/finpanel/internal/model"
)

type listFunc[D any] func(ctx context.Context) ([]D, error)

func (f listFunc[D]) List(ctx context.Context) ([]D, error) { return f(ctx) }

func TestStoreRefresh(t *testing.T) {
	products := []model.Product{{ID: 2, Index: 2}, {ID: 1, Index: 1}}
	var fail error
	s := NewStore(
		listFunc[model.Product](func(context.Context) ([]model.Product, error) {
			return append([]model.Product(nil), products...), fail
		}),
		listFunc[model.Service](func(context.Context) ([]model.Service, error) {
			return []model.Service{{ID: 5, Index: 1}}, nil
		}),
		nil,
	)

	assert.Empty(t, s.Products())
	require.NoError(t, s.Refresh(context.Background()))

	got := s.Products()
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Len(t, s.Services(), 1)
	assert.False(t, s.LastRefresh().IsZero())

	p, ok := s.Product(2)
	assert.True(t, ok)
	assert.Equal(t, 2, p.Index)

	fail = errors.New("backend down")
	assert.Error(t, s.Refresh(context.Background()))
	assert.Len(t, s.Products(), 2, "failed refresh keeps previous contents")
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore(
		listFunc[model.Product](func(context.Context) ([]model.Product, error) {
			return []model.Product{{ID: 1, Documents: model.RelationList{{ID: 9}}}}, nil
		}),
		listFunc[model.Service](func(context.Context) ([]model.Service, error) { return nil, nil }),
		nil,
	)
	require.NoError(t, s.Refresh(context.Background()))

	s.Products()[0].Documents[0].ID = 100
	p, _ := s.Product(1)
	assert.Equal(t, int64(9), p.Documents[0].ID)
}

func TestTaxonomyCachesAndInvalidates(t *testing.T) {
	calls := 0
	docs := listFunc[model.TaxonomyItem](func(context.Context) ([]model.TaxonomyItem, error) {
		calls++
		return []model.TaxonomyItem{{ID: 1, Kind: model.TaxonomyDocument, Label: model.NewLocalizedText("Паспорт", "Passport")}}, nil
	})
	tx := NewTaxonomy(map[model.TaxonomyKind]Lister[model.TaxonomyItem]{
		model.TaxonomyDocument: docs,
	}, cache.NewMemoryCache(cache.MemoryOptions{}), nil)
	ctx := context.Background()

	for range 2 {
		items, err := tx.Items(ctx, model.TaxonomyDocument)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Passport", items[0].Label.Get(model.LanguageSecondary))
	}
	assert.Equal(t, 1, calls)

	require.NoError(t, tx.Invalidate(ctx, model.TaxonomyDocument))
	_, ok := tx.Find(ctx, model.TaxonomyDocument, 1)
	assert.True(t, ok)
	assert.Equal(t, 2, calls)

	_, err := tx.Items(ctx, model.TaxonomyCondition)
	assert.Error(t, err)
	assert.Nil(t, tx.ItemsOrEmpty(ctx, model.TaxonomyCondition))
}
