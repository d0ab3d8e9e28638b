package claimrisk

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeCell performs Unicode normalization, strips a leading BOM and control
// characters, and trims surrounding whitespace.
func NormalizeCell(v string) string {
	v = strings.TrimPrefix(v, "\ufeff")
	v = norm.NFKC.String(v)
	v = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, v)
	return strings.TrimSpace(v)
}

// NormalizeAll normalizes a slice of cells into a new slice.
func NormalizeAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = NormalizeCell(c)
	}
	return out
}
