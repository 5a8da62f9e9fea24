// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wire

import "github.com/olegiv/finpanel/internal/model"

// TaxonomyRecord is a taxonomy item as the backend returns it.
type TaxonomyRecord struct {
	ID           int64              `json:"id"`
	Translations []LabelTranslation `json:"translations"`
}

// TaxonomyPayload is the create/update body of a taxonomy item.
type TaxonomyPayload struct {
	Translations []LabelTranslation `json:"translations"`
}

// ToWireTaxonomy encodes a taxonomy draft.
func ToWireTaxonomy(item model.TaxonomyItem) TaxonomyPayload {
	return TaxonomyPayload{Translations: LabelTranslations(item.Label.Trimmed())}
}

// FromWireTaxonomy decodes a taxonomy record of the given kind.
func FromWireTaxonomy(kind model.TaxonomyKind, r TaxonomyRecord) model.TaxonomyItem {
	return model.TaxonomyItem{
		ID:    r.ID,
		Kind:  kind,
		Label: LabelFromTranslations(r.Translations),
	}
}
