// Package similarity scores how close two usernames are.
package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// NormalizedDistance returns the Levenshtein distance between the
// lower-cased strings divided by the longer length, in runes. The result is
// in [0,1]; 0 means identical. Two empty strings are identical.
func NormalizedDistance(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}

	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}
