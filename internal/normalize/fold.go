// Package normalize turns raw human-entered cell values into canonical
// forms. Every function here is total: malformed input yields an empty or
// passthrough result, never an error.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// FoldAccents removes diacritical marks: "sí" -> "si", "avería" ->
// "averia". Used so synonym and keyword tables match input typed with or
// without accents.
func FoldAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// foldKey is the canonical lookup form for synonym tables: trimmed,
// lower-cased, accent-free.
func foldKey(s string) string {
	return FoldAccents(strings.ToLower(strings.TrimSpace(s)))
}
