package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNumberSet_Valid(t *testing.T) {
	s, err := NewNumberSet(25, 1, 13)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int{1, 13, 25}, s.Numbers())
	assert.True(t, s.Has(13))
	assert.False(t, s.Has(2))
	assert.False(t, s.Has(0))
	assert.False(t, s.Has(26))
}

func TestNewNumberSet_Invalid(t *testing.T) {
	_, err := NewNumberSet(0, 5)
	assert.ErrorIs(t, err, ErrInvalidNumber)

	_, err = NewNumberSet(26)
	assert.ErrorIs(t, err, ErrInvalidNumber)

	_, err = NewNumberSet(4, 4)
	assert.ErrorIs(t, err, ErrDuplicateNumber)
}

func TestNumberSet_Counts(t *testing.T) {
	s := RangeSet(1, 15)
	assert.Equal(t, 15, s.Len())
	assert.Equal(t, 8, s.Odd()) // 1,3,5,7,9,11,13,15
	assert.Equal(t, 120, s.Sum())
	// 1..15 ∩ moldura = 1,2,3,4,5,6,10,11,15
	assert.Equal(t, 9, s.Frame())
	// primos <= 15: 2,3,5,7,11,13
	assert.Equal(t, 6, s.Primes())
}

func TestNumberSet_Common_ScenarioB(t *testing.T) {
	previous := RangeSet(1, 15)
	candidate := MustNumberSet(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 16, 17)
	assert.Equal(t, 13, candidate.Common(previous))
}

func TestFrameSet_HasSixteenBorderNumbers(t *testing.T) {
	assert.Equal(t, 16, FrameSet.Len())
	for _, inner := range []int{7, 8, 9, 12, 13, 14, 17, 18, 19} {
		assert.False(t, FrameSet.Has(inner), "la dezena %d no es de borde", inner)
	}
}

func TestNumberSet_Format(t *testing.T) {
	assert.Equal(t, "01, 02, 05, 25", MustNumberSet(5, 1, 25, 2).Format())
	assert.Equal(t, "[01, 10]", MustNumberSet(10, 1).String())
	assert.Equal(t, "", NumberSet(0).Format())
}

func TestRangeSet_Clipped(t *testing.T) {
	assert.Equal(t, 25, RangeSet(-3, 40).Len())
	assert.Equal(t, 0, RangeSet(10, 5).Len())
}
