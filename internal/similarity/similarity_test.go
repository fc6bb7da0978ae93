package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatioIdentical(t *testing.T) {
	assert.Equal(t, 100, Ratio("acme corporation", "acme corporation"))
}

func TestRatioDisjoint(t *testing.T) {
	assert.Less(t, Ratio("acme", "zenith holdings"), 30)
}

func TestRatioSymmetric(t *testing.T) {
	a, b := "acme corp", "acme corporation"
	assert.Equal(t, Ratio(a, b), Ratio(b, a))
}

func TestRatioEmpty(t *testing.T) {
	assert.Equal(t, 100, Ratio("", ""))
	assert.Equal(t, 0, Ratio("", "acme"))
}

func TestTokenSortRatioIgnoresWordOrder(t *testing.T) {
	assert.Equal(t, 100, TokenSortRatio("global acme holdings", "acme holdings global"))
}

func TestTokenSetRatioIgnoresDuplicatesAndExtras(t *testing.T) {
	assert.Equal(t, 100, TokenSetRatio("acme acme holdings", "holdings acme"))

	// One-sided suffix noise should not drag the score down.
	assert.Equal(t, 100, TokenSetRatio("acme", "acme corp"))
}

func TestTokenSetRatioDisjointTokens(t *testing.T) {
	assert.Less(t, TokenSetRatio("acme widgets", "zenith holdings"), 40)
}

func TestTokenSetRatioSymmetric(t *testing.T) {
	a, b := "acme global widgets", "widgets acme ltd"
	assert.Equal(t, TokenSetRatio(a, b), TokenSetRatio(b, a))
}

func TestTokenSetRatioCloseVariants(t *testing.T) {
	// Raw variants share most of their text; legal-suffix stripping happens
	// upstream in name normalization, so this only needs to stay well above
	// the disjoint case.
	score := TokenSetRatio("acme corp", "acme corporation")
	assert.GreaterOrEqual(t, score, 50)
}
