// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Product is a loan or other financial product shown on the public site.
type Product struct {
	ID            int64
	CategoryID    int64
	ProductTypeID int64
	Index         int
	Visible       bool
	Name          LocalizedText
	Description   LocalizedText

	// Calculator band
	MinRate            float64
	MaxRate            float64
	MaxAmount          float64
	MaxTermMonths      int
	DownPaymentPercent float64

	Documents   RelationList
	Collaterals RelationList
	Conditions  RelationList
}

// EntityID implements editor.Entity.
func (p Product) EntityID() int64 { return p.ID }

// Clone implements editor.Entity.
func (p Product) Clone() Product {
	p.Documents = p.Documents.Clone()
	p.Collaterals = p.Collaterals.Clone()
	p.Conditions = p.Conditions.Clone()
	return p
}

// SortIndex implements editor.Indexed.
func (p Product) SortIndex() int { return p.Index }

// Relations returns the relation list of the given kind.
func (p Product) Relations(kind TaxonomyKind) RelationList {
	switch kind {
	case TaxonomyDocument:
		return p.Documents
	case TaxonomyCollateral:
		return p.Collaterals
	case TaxonomyCondition:
		return p.Conditions
	default:
		return nil
	}
}

// SetRelations replaces the relation list of the given kind.
func (p *Product) SetRelations(kind TaxonomyKind, list RelationList) {
	switch kind {
	case TaxonomyDocument:
		p.Documents = list.Dedup()
	case TaxonomyCollateral:
		p.Collaterals = list.Dedup()
	case TaxonomyCondition:
		p.Conditions = list.Dedup()
	}
}

// ProductRelationKinds lists the relation lists a product owns.
var ProductRelationKinds = []TaxonomyKind{TaxonomyDocument, TaxonomyCollateral, TaxonomyCondition}

// Service is a non-lending service offered on the public site.
type Service struct {
	ID          int64
	Index       int
	Visible     bool
	Name        LocalizedText
	Description LocalizedText
	IconURL     string

	Documents  RelationList
	Conditions RelationList
}

// EntityID implements editor.Entity.
func (s Service) EntityID() int64 { return s.ID }

// Clone implements editor.Entity.
func (s Service) Clone() Service {
	s.Documents = s.Documents.Clone()
	s.Conditions = s.Conditions.Clone()
	return s
}

// SortIndex implements editor.Indexed.
func (s Service) SortIndex() int { return s.Index }

// Relations returns the relation list of the given kind.
func (s Service) Relations(kind TaxonomyKind) RelationList {
	switch kind {
	case TaxonomyDocument:
		return s.Documents
	case TaxonomyCondition:
		return s.Conditions
	default:
		return nil
	}
}

// SetRelations replaces the relation list of the given kind.
func (s *Service) SetRelations(kind TaxonomyKind, list RelationList) {
	switch kind {
	case TaxonomyDocument:
		s.Documents = list.Dedup()
	case TaxonomyCondition:
		s.Conditions = list.Dedup()
	}
}

// ServiceRelationKinds lists the relation lists a service owns.
var ServiceRelationKinds = []TaxonomyKind{TaxonomyDocument, TaxonomyCondition}
