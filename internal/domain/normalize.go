package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName folds a display name for equality comparison: accents are
// decomposed and dropped along with any other non-ASCII rune, then the result
// is lowercased and trimmed. Never use the result for display.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(isNonASCII)))
	folded, _, err := transform.String(t, name)
	if err != nil {
		// Fall back to dropping non-ASCII runes without decomposition.
		folded = strings.Map(func(r rune) rune {
			if isNonASCII(r) {
				return -1
			}
			return r
		}, name)
	}
	return strings.TrimSpace(strings.ToLower(folded))
}

func isNonASCII(r rune) bool {
	return r > unicode.MaxASCII
}

// NormalizedSet returns the set of normalized names.
func NormalizedSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[NormalizeName(n)] = struct{}{}
	}
	return set
}
