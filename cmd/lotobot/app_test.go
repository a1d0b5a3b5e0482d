package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

func TestActions_DefaultIsGenerate(t *testing.T) {
	assert.False(t, actions{}.explicit())
	assert.False(t, actions{universe: "1,2,3"}.explicit())
	assert.True(t, actions{backtest: true}.explicit())
	assert.True(t, actions{saveStrategy: "s.json"}.explicit())
}

func TestActions_UsesGenerated(t *testing.T) {
	assert.True(t, actions{simulate: "-"}.usesGenerated())
	assert.False(t, actions{simulate: "tickets.txt"}.usesGenerated())
}

func TestReadTickets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.txt")
	content := "1 2 3 4 5 6 7 8 9 10 11 12 13 14 15\n\n[11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25]\n1 2 3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tickets, err := readTickets(path)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, domain.RangeSet(11, 25), tickets[1].Set())
}

func TestReadTickets_Generated(t *testing.T) {
	tickets, err := readTickets(generatedTickets)
	require.NoError(t, err)
	assert.Nil(t, tickets)
}

func TestReadTickets_NoneValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.txt")
	require.NoError(t, os.WriteFile(path, []byte("a b c\n"), 0o600))

	_, err := readTickets(path)
	assert.ErrorIs(t, err, domain.ErrInvalidTicket)
}
