// CLAUDE:SUMMARY Country-name folding (trim, lowercase, strip accents) used to match names typed by users.
package table

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldName trims, lowercases and strips accents (e.g. " Côte d'Ivoire" -> "cote d'ivoire").
func FoldName(s string) string {
	// A chain carries buffers, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	return result
}
