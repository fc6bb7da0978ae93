// Package similarity provides the string metrics used for company name
// resolution. All functions return an integer in [0, 100], are symmetric,
// and expect already-normalized (casefolded) input from the caller.
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio is the plain normalized edit-distance ratio between two strings.
// Identical strings score 100, strings with nothing in common approach 0.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}

	longest := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > longest {
		longest = l
	}
	if longest == 0 {
		return 100
	}

	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(longest))))
}

// TokenSortRatio tokenizes both strings, sorts the tokens and compares the
// rejoined forms, making the metric insensitive to word order.
func TokenSortRatio(a, b string) int {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio compares the token intersection against each side's
// remainder and takes the best of the pairwise ratios. Insensitive to word
// order and duplicates, and forgiving of one-sided extras such as legal
// suffixes ("acme" vs "acme corp").
func TokenSetRatio(a, b string) int {
	ta := tokenSet(a)
	tb := tokenSet(b)

	var common, onlyA, onlyB []string
	for tok := range ta {
		if tb[tok] {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if !ta[tok] {
			onlyB = append(onlyB, tok)
		}
	}

	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	combinedA := joinNonEmpty(base, strings.Join(onlyA, " "))
	combinedB := joinNonEmpty(base, strings.Join(onlyB, " "))

	best := Ratio(base, combinedA)
	if r := Ratio(base, combinedB); r > best {
		best = r
	}
	if r := Ratio(combinedA, combinedB); r > best {
		best = r
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}
