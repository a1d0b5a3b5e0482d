package generator

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

func acceptAll() domain.FilterConfig {
	return domain.FilterConfig{
		Repeated: domain.Range{Min: 0, Max: domain.DrawSize},
		Odd:      domain.Range{Min: 0, Max: domain.DrawSize},
	}
}

func TestCombinations(t *testing.T) {
	assert.Equal(t, int64(1), Combinations(15, 15))
	assert.Equal(t, int64(136), Combinations(17, 15))
	assert.Equal(t, int64(3876), Combinations(19, 15))
	assert.Equal(t, int64(3268760), Combinations(25, 15))
	assert.Equal(t, int64(0), Combinations(14, 15))
}

func TestGenerate_ExactUniverse_Passing(t *testing.T) {
	g := New(DefaultConfig())
	universe := domain.RangeSet(1, 15)
	previous := domain.MustNumberSet(1, 2, 3, 4, 5, 6, 7, 8, 9, 16, 17, 18, 19, 20, 21)

	res, err := g.Generate(context.Background(), universe, previous, domain.DefaultFilterConfig())
	require.NoError(t, err)
	// 9 repetidas, 8 impares
	require.Equal(t, 1, res.Kept())
	assert.Equal(t, "01, 02, 03, 04, 05, 06, 07, 08, 09, 10, 11, 12, 13, 14, 15", res.Tickets[0].Format())
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, int64(1), res.Considered)
	assert.False(t, res.Truncated)
}

func TestGenerate_ExactUniverse_Rejected(t *testing.T) {
	g := New(DefaultConfig())
	universe := domain.RangeSet(1, 15)
	previous := domain.RangeSet(1, 15) // 15 repetidas, fuera de 8–10

	res, err := g.Generate(context.Background(), universe, previous, domain.DefaultFilterConfig())
	require.NoError(t, err)
	assert.Empty(t, res.Tickets)
	assert.Equal(t, int64(1), res.Considered)
}

func TestGenerate_RepeatedCount(t *testing.T) {
	previous := domain.RangeSet(1, 15)
	candidate := domain.MustNumberSet(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 16, 17)
	assert.Equal(t, 13, candidate.Common(previous))

	only13 := acceptAll()
	only13.Repeated = domain.Range{Min: 13, Max: 13}
	assert.True(t, NewFilter(only13, previous).Passes(candidate))
	only13.Repeated = domain.Range{Min: 14, Max: 15}
	assert.False(t, NewFilter(only13, previous).Passes(candidate))
}

func TestGenerate_UniverseTooSmall(t *testing.T) {
	g := New(DefaultConfig())
	res, err := g.Generate(context.Background(), domain.RangeSet(1, 14), domain.RangeSet(1, 15), acceptAll())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUniverseTooSmall))
	assert.Empty(t, res.Tickets)
}

func TestGenerate_ValidOrderedSubsets(t *testing.T) {
	g := New(DefaultConfig())
	universe := domain.MustNumberSet(1, 3, 4, 5, 7, 8, 9, 10, 12, 13, 14, 16, 18, 20, 22, 25, 24)

	res, err := g.Generate(context.Background(), universe, domain.RangeSet(1, 15), acceptAll())
	require.NoError(t, err)
	require.Equal(t, 136, res.Kept())

	seen := make(map[domain.Ticket]bool, res.Kept())
	for i, tk := range res.Tickets {
		assert.Equal(t, domain.DrawSize, tk.Set().Len())
		assert.True(t, universe.Contains(tk.Set()))
		assert.False(t, seen[tk], "duplicate ticket %s", tk)
		seen[tk] = true
		if i > 0 {
			assert.Negative(t, slices.Compare(res.Tickets[i-1].Numbers(), tk.Numbers()))
		}
	}
}

func TestGenerate_KeptSatisfyPredicates(t *testing.T) {
	g := New(DefaultConfig())
	universe := domain.RangeSet(1, 19)
	previous := domain.MustNumberSet(2, 3, 5, 6, 9, 10, 11, 13, 14, 16, 19, 20, 22, 24, 25)
	cfg := domain.DefaultFilterConfig().WithFrame(domain.Range{Min: 9, Max: 11})

	res, err := g.Generate(context.Background(), universe, previous, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, res.Tickets)
	assert.Equal(t, int64(3876), res.Considered)
	for _, tk := range res.Tickets {
		s := tk.Set()
		assert.True(t, cfg.Repeated.Contains(s.Common(previous)))
		assert.True(t, cfg.Odd.Contains(s.Odd()))
		assert.True(t, cfg.Frame.Contains(s.Frame()))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g := New(DefaultConfig())
	universe := domain.RangeSet(3, 21)
	previous := domain.RangeSet(1, 15)

	a, err := g.Generate(context.Background(), universe, previous, domain.DefaultFilterConfig())
	require.NoError(t, err)
	b, err := g.Generate(context.Background(), universe, previous, domain.DefaultFilterConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_WideningNeverShrinks(t *testing.T) {
	g := New(DefaultConfig())
	universe := domain.RangeSet(2, 20)
	previous := domain.MustNumberSet(1, 2, 4, 5, 7, 8, 10, 11, 13, 14, 17, 19, 21, 23, 25)

	base := domain.DefaultFilterConfig().WithFrame(domain.Range{Min: 9, Max: 10})
	widened := []domain.FilterConfig{
		{Repeated: base.Repeated.Widen(1, domain.DrawSize), Odd: base.Odd, Frame: base.Frame},
		{Repeated: base.Repeated, Odd: base.Odd.Widen(2, domain.DrawSize), Frame: base.Frame},
		base.WithFrame(base.Frame.Widen(1, domain.FrameSet.Len())),
		{Repeated: base.Repeated, Odd: base.Odd},
	}

	res, err := g.Generate(context.Background(), universe, previous, base)
	require.NoError(t, err)
	for _, cfg := range widened {
		wide, err := g.Generate(context.Background(), universe, previous, cfg)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, wide.Kept(), res.Kept())
	}
}

func TestGenerate_MaxTickets(t *testing.T) {
	g := New(Config{MaxTickets: 10})
	res, err := g.Generate(context.Background(), domain.RangeSet(1, 20), domain.RangeSet(1, 15), acceptAll())
	require.NoError(t, err)
	assert.Equal(t, 10, res.Kept())
	assert.True(t, res.Truncated)
	assert.Equal(t, int64(10), res.Considered)
	assert.Equal(t, Combinations(20, 15), res.Total)
}

func TestGenerate_Cancelled(t *testing.T) {
	g := New(Config{CheckEvery: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := g.Generate(ctx, domain.RangeSet(1, 25), domain.RangeSet(1, 15), acceptAll())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int64(1), res.Considered)
	assert.Len(t, res.Tickets, 1)
	assert.False(t, res.Truncated)
}

func TestFilter_Apply(t *testing.T) {
	previous := domain.RangeSet(1, 15)
	f := NewFilter(domain.DefaultFilterConfig(), previous)

	keep := domain.Ticket(domain.MustNumberSet(1, 2, 3, 4, 5, 6, 7, 8, 9, 16, 17, 18, 19, 20, 22))
	drop := domain.Ticket(domain.RangeSet(1, 15))
	assert.Equal(t, []domain.Ticket{keep}, f.Apply([]domain.Ticket{drop, keep, drop}))
}
