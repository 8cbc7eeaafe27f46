package units

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// NormalizeKey maps an ingredient name to the key used for every lookup, so
// "Flour", "flour " and "ｆｌｏｕｒ" are the same ingredient.
func NormalizeKey(name string) string {
	folded := width.Fold.String(name)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
