package schema

import "strings"

// accentFolds covers the Spanish accented runes seen in export headers.
var accentFolds = map[rune]rune{
	'á': 'a', 'é': 'e', 'í': 'i', 'ó': 'o', 'ú': 'u', 'ü': 'u', 'ñ': 'n',
	'Á': 'a', 'É': 'e', 'Í': 'i', 'Ó': 'o', 'Ú': 'u', 'Ü': 'u', 'Ñ': 'n',
}

// Normalize lowercases a header, folds accents, expands the percent
// sign, and collapses all separators to single spaces.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "%", " porcentaje ")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if folded, ok := accentFolds[r]; ok {
			r = folded
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens returns the normalized token list of a header.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}
