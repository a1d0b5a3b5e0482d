package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategy_RoundTrip(t *testing.T) {
	s := Strategy{
		Universe: "1, 2, 3, 4, 5, 7, 9, 10, 11, 13, 14, 17, 19, 20, 21, 22, 24, 25",
		Filter:   DefaultFilterConfig().WithFrame(Range{Min: 9, Max: 11}),
	}
	code, err := s.Encode()
	require.NoError(t, err)
	assert.Contains(t, code, "universo_dezenas")

	decoded, universe, err := DecodeStrategy(code)
	require.NoError(t, err)
	assert.Equal(t, s.Filter.Repeated, decoded.Filter.Repeated)
	require.NotNil(t, decoded.Filter.Frame)
	assert.Equal(t, 9, decoded.Filter.Frame.Min)
	assert.Equal(t, 18, universe.Len())
}

func TestDecodeStrategy_Invalid(t *testing.T) {
	_, _, err := DecodeStrategy("not json")
	assert.ErrorIs(t, err, ErrInvalidStrategy)

	_, _, err = DecodeStrategy(`{"universo_dezenas": "1, x"}`)
	assert.ErrorIs(t, err, ErrInvalidStrategy)

	_, _, err = DecodeStrategy(`{"universo_dezenas": "1", "filtro_repetidas": [9, 2]}`)
	assert.ErrorIs(t, err, ErrInvalidStrategy)

	_, _, err = DecodeStrategy(`{"universo_dezenas": "1", "filtro_impares": [7]}`)
	assert.ErrorIs(t, err, ErrInvalidStrategy)
}

func TestDecodeStrategy_PairFormat(t *testing.T) {
	code := `{
  "universo_dezenas": "01, 02, 03, 04, 05, 07, 09, 10, 11, 13, 14, 17, 19, 20, 21, 22, 23, 24, 25",
  "filtro_repetidas": [8, 10],
  "filtro_impares": [7, 9]
}`
	s, universe, err := DecodeStrategy(code)
	require.NoError(t, err)

	assert.Equal(t, 19, universe.Len())
	assert.Equal(t, Range{Min: 8, Max: 10}, s.Filter.Repeated)
	assert.Equal(t, Range{Min: 7, Max: 9}, s.Filter.Odd)
	assert.Nil(t, s.Filter.Frame)
}

func TestDecodeStrategy_MissingFiltersUseDefaults(t *testing.T) {
	s, _, err := DecodeStrategy(`{"universo_dezenas": "1, 2, 3"}`)
	require.NoError(t, err)
	assert.Equal(t, DefaultFilterConfig(), s.Filter)

	s, _, err = DecodeStrategy(`{"universo_dezenas": "1, 2, 3", "filtro_impares": [6, 8]}`)
	require.NoError(t, err)
	assert.Equal(t, DefaultFilterConfig().Repeated, s.Filter.Repeated)
	assert.Equal(t, Range{Min: 6, Max: 8}, s.Filter.Odd)
}

func TestStrategy_EncodeUsesPairs(t *testing.T) {
	code, err := Strategy{Universe: "1, 2", Filter: DefaultFilterConfig()}.Encode()
	require.NoError(t, err)
	assert.Contains(t, code, `"filtro_repetidas": [`)
	assert.Contains(t, code, `"filtro_impares": [`)
	assert.NotContains(t, code, "filtro_moldura")
}
