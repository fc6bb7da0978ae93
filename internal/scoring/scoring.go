// Package scoring estimates decision-making seniority from free-text job
// titles using tunable keyword tables.
package scoring

import "strings"

// Scorer is a pure function of the title and its tables; construct once and
// share freely.
type Scorer struct {
	keywords  map[string]int
	penalties map[string]int
}

// New builds a scorer from a positive keyword table and a penalty table.
// Nil tables are treated as empty.
func New(keywords, penalties map[string]int) *Scorer {
	return &Scorer{keywords: keywords, penalties: penalties}
}

// Score casefolds the title and sums the weight of every positive keyword
// found in it, then subtracts every matching penalty. Matching is
// substring-based: "vp" also hits "svp". Tune the tables (e.g. pad keywords
// with spaces) when whole-word behavior is wanted. The result may be
// negative; the minimum-score filter downstream decides what survives.
func (s *Scorer) Score(title string) int {
	lowered := strings.ToLower(title)

	score := 0
	for keyword, weight := range s.keywords {
		if keyword != "" && strings.Contains(lowered, strings.ToLower(keyword)) {
			score += weight
		}
	}

	for keyword, penalty := range s.penalties {
		if keyword != "" && strings.Contains(lowered, strings.ToLower(keyword)) {
			score -= penalty
		}
	}

	return score
}

// DefaultKeywords is the built-in positive table, applied when the config
// does not provide one. Weights are tuned for additive matching: broad terms
// carry small weights because a senior title usually hits several of them.
func DefaultKeywords() map[string]int {
	return map[string]int{
		"chief executive officer":  60,
		"ceo":                      60,
		"chief technology officer": 55,
		"cto":                      55,
		"chief financial officer":  55,
		"cfo":                      55,
		"chief operating officer":  55,
		"coo":                      55,
		"chief":                    30,
		"president":                40,
		"founder":                  50,
		"owner":                    45,
		"partner":                  40,
		"board member":             60,
		"investor":                 50,
		"vice president":           35,
		"vp":                       35,
		"executive":                15,
		"principal":                35,
		"head":                     30,
		"director":                 35,
		"manager":                  20,
		"lead":                     15,
	}
}

// DefaultPenalties is the built-in negative table. "former"/"ex-" carry
// enough weight to sink any title into rejection territory.
func DefaultPenalties() map[string]int {
	return map[string]int{
		"assistant to": 40,
		"assistant":    25,
		"intern":       60,
		"trainee":      60,
		"student":      60,
		"former":       200,
		"ex-":          200,
		"retired":      200,
	}
}
