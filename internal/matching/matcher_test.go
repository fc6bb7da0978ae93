package matching

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jawnty/li-analyzer/internal/company"
	"github.com/jawnty/li-analyzer/internal/tabular"
)

func buildIndex(t *testing.T, rows ...string) *company.Index {
	t.Helper()
	content := "Company Name,Market Capitalization\n"
	for _, row := range rows {
		content += row + "\n"
	}

	path := filepath.Join(t.TempDir(), "companies.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := tabular.Read(path)
	require.NoError(t, err)

	idx, err := company.Build(table)
	require.NoError(t, err)
	return idx
}

func TestMatchExactName(t *testing.T) {
	idx := buildIndex(t, "Acme Corporation,$5B", "Zenith Holdings,$2B")
	matcher := New(idx, 80, nil)

	result := matcher.Match("  ACME corporation ")
	require.True(t, result.Matched())
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, "Acme Corporation", result.Record.Name)
}

func TestMatchSuffixVariation(t *testing.T) {
	idx := buildIndex(t, "Acme Corporation,$5B")
	matcher := New(idx, 80, nil)

	result := matcher.Match("Acme Corp.")
	require.True(t, result.Matched())
	assert.Equal(t, "Acme Corporation", result.Record.Name)
	assert.GreaterOrEqual(t, result.Score, 80)
}

func TestMatchExactNameWithTwoSuffixTokens(t *testing.T) {
	// "Banana Co Ltd" normalizes to "banana co"; stripping a suffix from
	// that again would collide with the "Banana Inc" key.
	idx := buildIndex(t, "Banana Co Ltd,$60M", "Banana Inc,$70M")
	matcher := New(idx, 80, nil)

	result := matcher.Match("Banana Co Ltd")
	require.True(t, result.Matched())
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, "Banana Co Ltd", result.Record.Name)
	assert.Equal(t, 60_000_000.0, result.Record.MarketCap)
}

func TestMatchNothingSimilar(t *testing.T) {
	idx := buildIndex(t, "Acme Corporation,$5B", "Zenith Holdings,$2B")
	matcher := New(idx, 80, nil)

	result := matcher.Match("Completely Unrelated Widgets")
	assert.False(t, result.Matched())
	assert.Less(t, result.Score, 80)
}

func TestMatchEmptyName(t *testing.T) {
	idx := buildIndex(t, "Acme Corporation,$5B")
	matcher := New(idx, 80, nil)

	result := matcher.Match("   ")
	assert.False(t, result.Matched())
	assert.Equal(t, 0, result.Score)
}

func TestMatchBelowThresholdReportsScore(t *testing.T) {
	idx := buildIndex(t, "Acme Corporation,$5B")
	matcher := New(idx, 100, nil)

	result := matcher.Match("Acmi Global")
	assert.False(t, result.Matched())
	assert.Greater(t, result.Score, 0)
	assert.Less(t, result.Score, 100)
}

func TestMatchTieBreakFirstInIndexOrder(t *testing.T) {
	// Both entries score identically against the query under a constant
	// ratio; the first one in file order must win.
	idx := buildIndex(t, "Alpha One,$1B", "Alpha Two,$2B")
	constant := func(a, b string) int { return 90 }
	matcher := New(idx, 80, constant)

	result := matcher.Match("anything")
	require.True(t, result.Matched())
	assert.Equal(t, "Alpha One", result.Record.Name)
}

func TestMatchCacheIsStable(t *testing.T) {
	idx := buildIndex(t, "Acme Corporation,$5B")
	calls := 0
	counting := func(a, b string) int {
		calls++
		return 95
	}
	matcher := New(idx, 80, counting)

	first := matcher.Match("Acme Holdings")
	second := matcher.Match("acme holdings")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second lookup should come from cache")
}

func TestMatchDeterministicAcrossRebuilds(t *testing.T) {
	for i := 0; i < 3; i++ {
		idx := buildIndex(t, "Beta Industries,$1B", "Betamax Industries,$1B")
		matcher := New(idx, 50, nil)

		result := matcher.Match("Beta Industries Inc")
		require.True(t, result.Matched())
		assert.Equal(t, "Beta Industries", result.Record.Name)
	}
}
