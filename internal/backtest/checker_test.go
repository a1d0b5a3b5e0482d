package backtest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

func TestCheck(t *testing.T) {
	tickets := []domain.Ticket{
		domain.Ticket(domain.RangeSet(1, 15)),
		domain.Ticket(domain.RangeSet(11, 25)),
		domain.Ticket(domain.MustNumberSet(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 23, 24, 25)),
	}
	res, err := Check(tickets, domain.RangeSet(1, 15))
	require.NoError(t, err)
	require.Len(t, res.Tickets, 3)

	assert.Equal(t, 15, res.Tickets[0].Hits)
	assert.Equal(t, 5, res.Tickets[1].Hits)
	assert.Equal(t, 12, res.Tickets[2].Hits)
	assert.True(t, res.Tickets[0].Prize())
	assert.False(t, res.Tickets[1].Prize())
	assert.Equal(t, 2, res.Tally.Winners())
	assert.Equal(t, 1, res.Tally.Count(12))
}

func TestCheck_InvalidResult(t *testing.T) {
	_, err := Check(nil, domain.RangeSet(1, 14))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidResult))
}
