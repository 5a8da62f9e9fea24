// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wire

import "github.com/olegiv/finpanel/internal/model"

// Documented defaults for optional product fields.
const (
	DefaultMaxTermMonths = 60
	DefaultMinRate       = 0
)

// ContentTranslation is the translation entry of products and services.
type ContentTranslation struct {
	Language    int    `json:"language"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func contentTranslations(name, description model.LocalizedText) []ContentTranslation {
	name, description = name.Trimmed(), description.Trimmed()
	return eachLanguage(func(code int, lang model.Language) ContentTranslation {
		return ContentTranslation{
			Language:    code,
			Name:        name.Get(lang),
			Description: description.Get(lang),
		}
	})
}

func contentFromTranslations(entries []ContentTranslation) (name, description model.LocalizedText) {
	texts := collect(entries,
		func(e ContentTranslation) int { return e.Language },
		func(e ContentTranslation) string { return e.Name },
		func(e ContentTranslation) string { return e.Description },
	)
	return texts[0], texts[1]
}

// ProductRecord is a product as the backend returns it.
type ProductRecord struct {
	ID                 int64                `json:"id"`
	Category           int64                `json:"category"`
	ProductType        int64                `json:"product_type"`
	Index              int                  `json:"index"`
	IsVisible          bool                 `json:"is_visible"`
	MinRate            Number               `json:"min_rate"`
	MaxRate            Number               `json:"max_rate"`
	MaxAmount          Number               `json:"max_amount"`
	MaxTerm            int                  `json:"max_term"`
	DownPaymentPercent Number               `json:"down_payment_percent"`
	Translations       []ContentTranslation `json:"translations"`
	Documents          []RelationRecord     `json:"documents"`
	Collaterals        []RelationRecord     `json:"collaterals"`
	Conditions         []RelationRecord     `json:"conditions"`
}

// ProductPayload is the create/update body of a product.
type ProductPayload struct {
	Category           int64                `json:"category"`
	ProductType        int64                `json:"product_type"`
	Index              int                  `json:"index"`
	IsVisible          bool                 `json:"is_visible"`
	MinRate            float64              `json:"min_rate"`
	MaxRate            float64              `json:"max_rate"`
	MaxAmount          float64              `json:"max_amount"`
	MaxTerm            int                  `json:"max_term"`
	DownPaymentPercent float64              `json:"down_payment_percent"`
	Translations       []ContentTranslation `json:"translations"`
	DocumentIDs        []int64              `json:"document_ids"`
	CollateralIDs      []int64              `json:"collateral_ids"`
	ConditionIDs       []int64              `json:"condition_ids"`
}

// ToWireProduct encodes a product draft.
func ToWireProduct(p model.Product) ProductPayload {
	maxTerm := p.MaxTermMonths
	if maxTerm <= 0 {
		maxTerm = DefaultMaxTermMonths
	}
	return ProductPayload{
		Category:           p.CategoryID,
		ProductType:        p.ProductTypeID,
		Index:              p.Index,
		IsVisible:          p.Visible,
		MinRate:            p.MinRate,
		MaxRate:            p.MaxRate,
		MaxAmount:          p.MaxAmount,
		MaxTerm:            maxTerm,
		DownPaymentPercent: p.DownPaymentPercent,
		Translations:       contentTranslations(p.Name, p.Description),
		DocumentIDs:        nonNilIDs(p.Documents.IDs()),
		CollateralIDs:      nonNilIDs(p.Collaterals.IDs()),
		ConditionIDs:       nonNilIDs(p.Conditions.IDs()),
	}
}

// FromWireProduct decodes a product record.
func FromWireProduct(r ProductRecord) model.Product {
	name, description := contentFromTranslations(r.Translations)
	return model.Product{
		ID:                 r.ID,
		CategoryID:         r.Category,
		ProductTypeID:      r.ProductType,
		Index:              r.Index,
		Visible:            r.IsVisible,
		Name:               name,
		Description:        description,
		MinRate:            r.MinRate.Float(),
		MaxRate:            r.MaxRate.Float(),
		MaxAmount:          r.MaxAmount.Float(),
		MaxTermMonths:      r.MaxTerm,
		DownPaymentPercent: r.DownPaymentPercent.Float(),
		Documents:          relationsFromWire(r.Documents),
		Collaterals:        relationsFromWire(r.Collaterals),
		Conditions:         relationsFromWire(r.Conditions),
	}
}

// ServiceRecord is a service as the backend returns it.
type ServiceRecord struct {
	ID           int64                `json:"id"`
	Index        int                  `json:"index"`
	IsVisible    bool                 `json:"is_visible"`
	Icon         string               `json:"icon"`
	Translations []ContentTranslation `json:"translations"`
	Documents    []RelationRecord     `json:"documents"`
	Conditions   []RelationRecord     `json:"conditions"`
}

// ServicePayload is the create/update body of a service.
type ServicePayload struct {
	Index        int                  `json:"index"`
	IsVisible    bool                 `json:"is_visible"`
	Icon         string               `json:"icon"`
	Translations []ContentTranslation `json:"translations"`
	DocumentIDs  []int64              `json:"document_ids"`
	ConditionIDs []int64              `json:"condition_ids"`
}

// ToWireService encodes a service draft.
func ToWireService(s model.Service) ServicePayload {
	return ServicePayload{
		Index:        s.Index,
		IsVisible:    s.Visible,
		Icon:         s.IconURL,
		Translations: contentTranslations(s.Name, s.Description),
		DocumentIDs:  nonNilIDs(s.Documents.IDs()),
		ConditionIDs: nonNilIDs(s.Conditions.IDs()),
	}
}

// FromWireService decodes a service record.
func FromWireService(r ServiceRecord) model.Service {
	name, description := contentFromTranslations(r.Translations)
	return model.Service{
		ID:          r.ID,
		Index:       r.Index,
		Visible:     r.IsVisible,
		IconURL:     r.Icon,
		Name:        name,
		Description: description,
		Documents:   relationsFromWire(r.Documents),
		Conditions:  relationsFromWire(r.Conditions),
	}
}
