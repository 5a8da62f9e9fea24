// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path"
	"strings"
	"unicode"
)

// MaxFilenameLength bounds the name forwarded to the upload endpoint.
const MaxFilenameLength = 128

// SanitizeFilename reduces a client supplied filename to its base name.
// Browsers on Windows may send "C:\fakepath\logo.png", so both separators
// are stripped. Control characters are dropped and long names are cut,
// keeping the extension.
func SanitizeFilename(filename string) (string, error) {
	name := strings.ReplaceAll(filename, `\`, "/")
	name = path.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '"' {
			return -1
		}
		return r
	}, name)
	if name == "." || name == ".." || name == "" || name == "/" {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}

	if runes := []rune(name); len(runes) > MaxFilenameLength {
		ext := []rune(path.Ext(name))
		if len(ext) >= MaxFilenameLength {
			ext = nil
		}
		name = string(runes[:MaxFilenameLength-len(ext)]) + string(ext)
	}
	return name, nil
}
