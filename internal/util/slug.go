// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides URL slug generation with transliteration of
// non-Latin scripts and sanitising of uploaded filenames.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength caps slugs built from long product names.
const MaxSlugLength = 80

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9]+`)
	stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// mongolian follows the romanization the public site uses for its URLs.
// Letters missing here (Russian-only ones included) go through unidecode.
var mongolian = strings.NewReplacer(
	"ө", "o", "Ө", "o",
	"ү", "u", "Ү", "u",
	"ж", "j", "Ж", "j",
	"х", "kh", "Х", "kh",
	"ц", "ts", "Ц", "ts",
	"е", "ye", "Е", "ye",
	"ё", "yo", "Ё", "yo",
	"й", "i", "Й", "i",
	"ь", "i", "Ь", "i",
	"ъ", "i", "Ъ", "i",
	"ы", "y", "Ы", "y",
	"ю", "yu", "Ю", "yu",
	"я", "ya", "Я", "ya",
)

// Slugify converts a product or service name into a URL segment.
// "Хэрэглээний зээл" becomes "kheregleenii-zeel".
func Slugify(s string) string {
	s = mongolian.Replace(s)
	s, _, _ = transform.String(stripDiacritics, s)
	s = strings.ToLower(unidecode.Unidecode(s))
	s = strings.Trim(nonSlugChars.ReplaceAllString(s, "-"), "-")

	if len(s) > MaxSlugLength {
		s = s[:MaxSlugLength]
		if i := strings.LastIndexByte(s, '-'); i > MaxSlugLength/2 {
			s = s[:i]
		}
		s = strings.TrimRight(s, "-")
	}
	return s
}
