// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package wire converts editor drafts to and from the backend's JSON and
// multipart shapes. Every translatable payload carries exactly one
// translation entry per content language, even when a label is empty.
package wire

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/olegiv/finpanel/internal/model"
)

// Number decodes a JSON number or a numeric string. Decimal fields arrive
// as strings from the backend.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Float returns n as float64.
func (n Number) Float() float64 { return float64(n) }

// languageCode returns the wire code of a language.
func languageCode(lang model.Language) int { return int(lang) }

// eachLanguage builds one entry per supported language in wire order.
func eachLanguage[T any](build func(code int, lang model.Language) T) []T {
	out := make([]T, 0, len(model.Languages))
	for _, lang := range model.Languages {
		out = append(out, build(languageCode(lang), lang))
	}
	return out
}

// collect fills one LocalizedText per field from translation entries.
// Entries with an unknown language code are ignored.
func collect[T any](entries []T, code func(T) int, fields ...func(T) string) []model.LocalizedText {
	out := make([]model.LocalizedText, len(fields))
	for _, e := range entries {
		lang := model.Language(code(e))
		if !lang.Valid() {
			continue
		}
		for i, field := range fields {
			out[i] = out[i].Set(lang, field(e))
		}
	}
	return out
}

// LabelTranslation is the translation entry of label-only resources.
type LabelTranslation struct {
	Language int    `json:"language"`
	Label    string `json:"label"`
}

// LabelTranslations encodes a single localized label.
func LabelTranslations(text model.LocalizedText) []LabelTranslation {
	return eachLanguage(func(code int, lang model.Language) LabelTranslation {
		return LabelTranslation{Language: code, Label: text.Get(lang)}
	})
}

// LabelFromTranslations decodes a single localized label.
func LabelFromTranslations(entries []LabelTranslation) model.LocalizedText {
	return collect(entries,
		func(e LabelTranslation) int { return e.Language },
		func(e LabelTranslation) string { return e.Label },
	)[0]
}

// RelationRecord is a related taxonomy item embedded in a parent record.
type RelationRecord struct {
	ID           int64              `json:"id"`
	Translations []LabelTranslation `json:"translations"`
}

func relationsFromWire(records []RelationRecord) model.RelationList {
	out := make(model.RelationList, 0, len(records))
	for _, r := range records {
		out = append(out, model.Relation{ID: r.ID, Label: LabelFromTranslations(r.Translations)})
	}
	return out.Dedup()
}

// nonNilIDs makes sure empty id lists encode as [] rather than null.
func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
