// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package protocol parses legislative session transcripts from class-tagged
// HTML into ordered paragraph records with speaker attribution.
// See docs/ARCHITECTURE § Parser Core.
package protocol

import (
	"regexp"
	"strings"
)

// reWhitespace matches runs of whitespace and soft hyphens. Word HTML
// exports scatter soft hyphens (U+00AD) and non-breaking spaces through
// wrapped text; \s alone misses the non-ASCII ones.
var reWhitespace = regexp.MustCompile(`[\s\p{Zs}\x{00ad}]+`)

// Normalize collapses whitespace and soft-hyphen artifacts in extracted node
// text to single ASCII spaces and trims the ends. It never fails.
func Normalize(text string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}
