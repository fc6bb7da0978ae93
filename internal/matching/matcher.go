// Package matching resolves free-text company names against the company
// index.
package matching

import (
	"github.com/jawnty/li-analyzer/internal/company"
	"github.com/jawnty/li-analyzer/internal/similarity"
)

// Result is the outcome of one resolution. Record is nil when the best
// candidate scored below the threshold; Score still reports that best value.
type Result struct {
	Record *company.Record
	Score  int
}

// Matched reports whether the resolution produced a usable record.
func (r Result) Matched() bool {
	return r.Record != nil
}

// RatioFunc scores two normalized names on a 0-100 scale.
type RatioFunc func(a, b string) int

// Matcher scans the index linearly for the best-scoring canonical name.
// Repeated raw names (the common case in real exports) hit a cache. Not safe
// for concurrent use because of that cache.
type Matcher struct {
	index     *company.Index
	threshold int
	ratio     RatioFunc
	cache     map[string]Result
}

// New creates a matcher with the given acceptance threshold. The ratio
// defaults to similarity.TokenSetRatio, which tolerates word order and
// legal-suffix variation.
func New(index *company.Index, threshold int, ratio RatioFunc) *Matcher {
	if ratio == nil {
		ratio = similarity.TokenSetRatio
	}
	return &Matcher{
		index:     index,
		threshold: threshold,
		ratio:     ratio,
		cache:     make(map[string]Result),
	}
}

// Match normalizes raw and returns the best-scoring record at or above the
// threshold. Ties keep the first candidate in index order, which is stable,
// so results are deterministic for a fixed index.
func (m *Matcher) Match(raw string) Result {
	key := company.NormalizeName(raw)
	if key == "" {
		return Result{}
	}

	if cached, ok := m.cache[key]; ok {
		return cached
	}

	// Exact hit short-circuits the scan.
	if record := m.index.LookupNormalized(key); record != nil {
		result := Result{Record: record, Score: 100}
		m.cache[key] = result
		return result
	}

	var best Result
	m.index.Walk(func(candidate string, record *company.Record) {
		score := m.ratio(key, candidate)
		if score > best.Score {
			best = Result{Record: record, Score: score}
		}
	})

	if best.Score < m.threshold {
		best.Record = nil
	}

	m.cache[key] = best
	return best
}
