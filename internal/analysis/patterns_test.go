package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

func TestTopCombinations_ScenarioE(t *testing.T) {
	// El par {3, 7} aparece en todos los sorteos; el resto varía.
	sets := []domain.NumberSet{
		domain.MustNumberSet(3, 7, 1, 2, 4, 5, 6, 8, 9, 10, 11, 12, 13, 14, 15),
		domain.MustNumberSet(3, 7, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23),
		domain.MustNumberSet(3, 7, 25, 24, 23, 22, 21, 20, 19, 18, 17, 16, 1, 2, 4),
	}
	top, err := TopCombinations(sets, 2, DefaultTopN)
	require.NoError(t, err)
	require.Len(t, top, DefaultTopN)
	assert.Equal(t, domain.MustNumberSet(3, 7), top[0].Numbers)
	assert.Equal(t, len(sets), top[0].Count)
}

func TestTopCombinations_TieBreakLexicographic(t *testing.T) {
	sets := []domain.NumberSet{domain.RangeSet(1, 15)}
	top, err := TopCombinations(sets, 3, 4)
	require.NoError(t, err)
	require.Len(t, top, 4)
	assert.Equal(t, []int{1, 2, 3}, top[0].Numbers.Numbers())
	assert.Equal(t, []int{1, 2, 4}, top[1].Numbers.Numbers())
	assert.Equal(t, []int{1, 2, 5}, top[2].Numbers.Numbers())
	assert.Equal(t, []int{1, 2, 6}, top[3].Numbers.Numbers())
}

func TestTopCombinations_CountsAllSubsets(t *testing.T) {
	sets := []domain.NumberSet{domain.RangeSet(1, 15)}
	pairs, err := TopCombinations(sets, 2, 1000)
	require.NoError(t, err)
	assert.Len(t, pairs, 105) // C(15,2)

	trios, err := TopCombinations(sets, 3, 1000)
	require.NoError(t, err)
	assert.Len(t, trios, 455) // C(15,3)
}

func TestTopCombinations_InvalidSize(t *testing.T) {
	_, err := TopCombinations(nil, 4, 10)
	assert.ErrorIs(t, err, ErrInvalidPatternSize)

	top, err := TopCombinations([]domain.NumberSet{domain.RangeSet(1, 15)}, 2, 0)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestAnalyzer_TopCombinations_Memoized(t *testing.T) {
	a := NewAnalyzer()
	sets := []domain.NumberSet{domain.RangeSet(1, 15), domain.RangeSet(5, 19)}

	first, err := a.TopCombinations(sets, 2, 5)
	require.NoError(t, err)
	first[0].Count = -1 // el llamador no puede corromper la caché

	second, err := a.TopCombinations(sets, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, second[0].Count)

	hits, misses := a.combos.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}
