// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog holds the read-mostly data shared by every session: the
// product and service lists and the taxonomy catalogs.
package catalog

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/finpanel/internal/model"
)

// Lister fetches a whole collection.
type Lister[D any] interface {
	List(ctx context.Context) ([]D, error)
}

// Store is the application-wide product and service list. Refresh is the
// only way it changes.
type Store struct {
	products Lister[model.Product]
	services Lister[model.Service]
	logger   *slog.Logger

	mu        sync.RWMutex
	productsV []model.Product
	servicesV []model.Service
	refreshed time.Time

	refreshMu sync.Mutex
}

// NewStore creates an empty store. Call Refresh to populate it.
func NewStore(products Lister[model.Product], services Lister[model.Service], logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{products: products, services: services, logger: logger}
}

// Refresh re-fetches products and services. On failure the previous
// contents are kept.
func (s *Store) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	var products []model.Product
	var services []model.Service
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		services, err = s.services.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("catalog refresh failed", "error", err)
		return err
	}

	sort.SliceStable(products, func(i, j int) bool { return products[i].Index < products[j].Index })
	sort.SliceStable(services, func(i, j int) bool { return services[i].Index < services[j].Index })

	s.mu.Lock()
	s.productsV = products
	s.servicesV = services
	s.refreshed = time.Now()
	s.mu.Unlock()

	s.logger.Debug("catalog refreshed", "products", len(products), "services", len(services))
	return nil
}

// Products returns copies of all products in display order.
func (s *Store) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, len(s.productsV))
	for i, p := range s.productsV {
		out[i] = p.Clone()
	}
	return out
}

// Services returns copies of all services in display order.
func (s *Store) Services() []model.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Service, len(s.servicesV))
	for i, v := range s.servicesV {
		out[i] = v.Clone()
	}
	return out
}

// Product returns the product with id.
func (s *Store) Product(id int64) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.productsV {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return model.Product{}, false
}

// LastRefresh returns when the store was last refreshed successfully.
func (s *Store) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshed
}
