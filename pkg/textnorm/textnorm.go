// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textnorm normalizes user supplied display text before it is
// validated and stored.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Clean trims surrounding whitespace and composes the string to NFC, so
// "é" typed as e + combining acute counts and compares as one character.
func Clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// IsBlank reports whether s has no visible characters.
func IsBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsSpace(r) && unicode.IsPrint(r)
	}) < 0
}
