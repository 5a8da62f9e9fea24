// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/finpanel/internal/model"
)

// ParseIDParam parses the "id" URL parameter.
func ParseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// localizedFieldName returns the form field of one language slot, for
// example "name_mn".
func localizedFieldName(field string, lang model.Language) string {
	return field + "_" + lang.Code()
}

// formLocalized reads every language slot of a localized field. Slots
// absent from the form keep their current value.
func formLocalized(form url.Values, field string, current model.LocalizedText) model.LocalizedText {
	out := current
	for _, lang := range model.Languages {
		if vals, ok := form[localizedFieldName(field, lang)]; ok && len(vals) > 0 {
			out = out.Set(lang, vals[0])
		}
	}
	return out
}

// formString reads a trimmed string, keeping current when the field is absent.
func formString(form url.Values, field, current string) string {
	if vals, ok := form[field]; ok && len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return current
}

// formFloat reads a number. An empty field is zero; an unparsable one
// (a half-typed "1.") keeps current so live typing never wipes a value.
func formFloat(form url.Values, field string, current float64) float64 {
	vals, ok := form[field]
	if !ok || len(vals) == 0 {
		return current
	}
	s := strings.ReplaceAll(strings.TrimSpace(vals[0]), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return current
	}
	return v
}

// formInt reads an integer with the same rules as formFloat.
func formInt(form url.Values, field string, current int) int {
	vals, ok := form[field]
	if !ok || len(vals) == 0 {
		return current
	}
	s := strings.TrimSpace(vals[0])
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return current
	}
	return v
}

// formID reads a record id; anything that is not a positive integer is 0.
func formID(form url.Values, field string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(form.Get(field)), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// formBool reads a checkbox. Forms carry a hidden "<field>_present" marker
// so an unchecked box can be told apart from a field that was not posted.
func formBool(form url.Values, field string, current bool) bool {
	if _, ok := form[field+"_present"]; !ok {
		if _, ok := form[field]; !ok {
			return current
		}
	}
	v := form.Get(field)
	return v == "on" || v == "true" || v == "1"
}

// rowCount returns the number of repeated rows posted for field.
func rowCount(form url.Values, field string) int {
	return len(form[field])
}

// rowValue returns the i-th posted value of a repeated field.
func rowValue(form url.Values, field string, i int) string {
	vals := form[field]
	if i < len(vals) {
		return strings.TrimSpace(vals[i])
	}
	return ""
}
