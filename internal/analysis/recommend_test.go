package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

func sequenceOf(t *testing.T, sets ...domain.NumberSet) domain.Sequence {
	t.Helper()
	draws := make([]domain.Draw, len(sets))
	for i, s := range sets {
		draws[i] = domain.Draw{Contest: i + 1, Numbers: s}
	}
	seq, dropped := domain.NewSequence(draws)
	require.Zero(t, dropped)
	return seq
}

func TestRecommend_SizeAndOrder(t *testing.T) {
	seq := sequenceOf(t, domain.RangeSet(1, 15), domain.RangeSet(5, 19), domain.RangeSet(11, 25))
	rec := Recommend(seq, DefaultRecommendConfig())

	assert.Equal(t, 19, rec.Universe.Len())
	require.Len(t, rec.Ranking, 25)
	for i := 1; i < len(rec.Ranking); i++ {
		assert.GreaterOrEqual(t, rec.Ranking[i-1].Score, rec.Ranking[i].Score)
	}
}

func TestRankUniverse_Weights(t *testing.T) {
	var freq domain.FrequencyTable
	var delay domain.DelayTable
	freq[1] = 10 // la más frecuente: 0.6
	delay[2] = 4 // la más atrasada: 0.4
	freq[3], delay[3] = 5, 2

	rec := RankUniverse(freq, delay, 3)
	assert.Equal(t, []int{1, 2, 3}, rec.Universe.Numbers())
	assert.Equal(t, 1, rec.Ranking[0].Number)
	assert.InDelta(t, 0.6, rec.Ranking[0].Score, 1e-9)
	assert.Equal(t, 3, rec.Ranking[1].Number)
	assert.InDelta(t, 0.5, rec.Ranking[1].Score, 1e-9)
	assert.InDelta(t, 0.4, rec.Ranking[2].Score, 1e-9)
}

func TestRankUniverse_TiesByAscendingNumber(t *testing.T) {
	var freq domain.FrequencyTable
	var delay domain.DelayTable
	// Todo en cero: máximos sustituidos por 1, todos los scores empatan.
	rec := RankUniverse(freq, delay, 19)
	assert.Equal(t, domain.RangeSet(1, 19), rec.Universe)
	require.Len(t, rec.Ranking, domain.MaxNumber)
	for i, ns := range rec.Ranking {
		assert.Equal(t, i+1, ns.Number)
		assert.False(t, math.IsNaN(ns.Score), "dezena %d", ns.Number)
		assert.Zero(t, ns.Score)
	}
}

func TestRecommend_EmptySequence(t *testing.T) {
	rec := Recommend(domain.Sequence{}, DefaultRecommendConfig())

	assert.Equal(t, domain.RangeSet(1, 19), rec.Universe)
	require.Len(t, rec.Ranking, domain.MaxNumber)
	for i, ns := range rec.Ranking {
		assert.Equal(t, i+1, ns.Number)
		assert.False(t, math.IsNaN(ns.Score), "dezena %d", ns.Number)
		assert.Zero(t, ns.RecentFrequency)
		assert.Zero(t, ns.Delay)
	}

	// Repetir da el mismo resultado.
	assert.Equal(t, rec, Recommend(domain.Sequence{}, DefaultRecommendConfig()))
}

func TestRecommend_WindowClippedToSequence(t *testing.T) {
	seq := sequenceOf(t, domain.RangeSet(1, 15))
	rec := Recommend(seq, RecommendConfig{RecentWindow: 5000, Size: 15})
	// 1..15 tienen frecuencia 1 y atraso 0 → 0.6; 16..25 atraso 1 (máximo) → 0.4.
	assert.Equal(t, domain.RangeSet(1, 15), rec.Universe)
}

func TestAnalyzer_RecommendMatchesPure(t *testing.T) {
	seq := sequenceOf(t, domain.RangeSet(1, 15), domain.RangeSet(3, 17), domain.RangeSet(9, 23), domain.RangeSet(11, 25))
	cfg := RecommendConfig{RecentWindow: 2, Size: 17}
	assert.Equal(t, Recommend(seq, cfg), NewAnalyzer().Recommend(seq, cfg))
}
