// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "fmt"

// TaxonomyKind names a catalog of reusable labelled records.
type TaxonomyKind string

// Taxonomy kinds.
const (
	TaxonomyDocument    TaxonomyKind = "document"
	TaxonomyCollateral  TaxonomyKind = "collateral"
	TaxonomyCondition   TaxonomyKind = "condition"
	TaxonomyCategory    TaxonomyKind = "category"
	TaxonomyProductType TaxonomyKind = "product-type"
)

// TaxonomyKinds lists every taxonomy kind.
var TaxonomyKinds = []TaxonomyKind{
	TaxonomyDocument,
	TaxonomyCollateral,
	TaxonomyCondition,
	TaxonomyCategory,
	TaxonomyProductType,
}

// ParseTaxonomyKind validates a taxonomy kind from a URL segment.
func ParseTaxonomyKind(s string) (TaxonomyKind, error) {
	for _, k := range TaxonomyKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown taxonomy kind %q", s)
}

// TaxonomyItem is a shared record referenced from relation lists.
type TaxonomyItem struct {
	ID    int64
	Kind  TaxonomyKind
	Label LocalizedText
}

// EntityID implements editor.Entity.
func (t TaxonomyItem) EntityID() int64 { return t.ID }

// Clone implements editor.Entity.
func (t TaxonomyItem) Clone() TaxonomyItem { return t }

// AsRelation returns a relation entry pointing at t.
func (t TaxonomyItem) AsRelation() Relation {
	return Relation{ID: t.ID, Label: t.Label}
}

// Relation references a TaxonomyItem and caches its label.
type Relation struct {
	ID    int64
	Label LocalizedText
}

// RelationList is an ordered list of relations without duplicate ids.
type RelationList []Relation

// Contains reports whether id is in the list.
func (l RelationList) Contains(id int64) bool {
	for _, r := range l {
		if r.ID == id {
			return true
		}
	}
	return false
}

// With returns a copy of l with r appended, unless r.ID is already present.
func (l RelationList) With(r Relation) RelationList {
	out := l.Clone()
	if out.Contains(r.ID) {
		return out
	}
	return append(out, r)
}

// Without returns a copy of l with id removed.
func (l RelationList) Without(id int64) RelationList {
	out := make(RelationList, 0, len(l))
	for _, r := range l {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// IDs returns the referenced ids in list order.
func (l RelationList) IDs() []int64 {
	ids := make([]int64, len(l))
	for i, r := range l {
		ids[i] = r.ID
	}
	return ids
}

// Clone returns a copy that does not share the backing array.
func (l RelationList) Clone() RelationList {
	if l == nil {
		return nil
	}
	return append(RelationList(nil), l...)
}

// Dedup returns a copy keeping the first occurrence of each id.
func (l RelationList) Dedup() RelationList {
	seen := make(map[int64]bool, len(l))
	out := make(RelationList, 0, len(l))
	for _, r := range l {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}
