package analysis

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// DefaultTopN es el tamaño por defecto de los rankings de pares y trios.
const DefaultTopN = 15

// ErrInvalidPatternSize se devuelve si k no es 2 ni 3.
var ErrInvalidPatternSize = errors.New("pattern size must be 2 or 3")

// Combination es un par o trio de dezenas y cuántos sorteos lo contienen.
type Combination struct {
	Numbers domain.NumberSet
	Count   int
}

func checkPatternSize(k int) error {
	if k != 2 && k != 3 {
		return fmt.Errorf("analysis.TopCombinations: k=%d: %w", k, ErrInvalidPatternSize)
	}
	return nil
}

// TopCombinations devuelve los topN subconjuntos de tamaño k más frecuentes
// entre todos los sorteos, ordenados por conteo descendente.
// Empates: orden lexicográfico ascendente de la tupla (el par {1,2} antes que {1,3}).
func TopCombinations(sets []domain.NumberSet, k, topN int) ([]Combination, error) {
	if err := checkPatternSize(k); err != nil {
		return nil, err
	}
	if topN <= 0 {
		return nil, nil
	}

	counts := make(map[domain.NumberSet]int)
	for _, s := range sets {
		eachSubset(s.Numbers(), k, func(sub domain.NumberSet) { counts[sub]++ })
	}

	out := make([]Combination, 0, len(counts))
	for sub, c := range counts {
		out = append(out, Combination{Numbers: sub, Count: c})
	}
	slices.SortFunc(out, func(x, y Combination) int {
		return cmp.Or(cmp.Compare(y.Count, x.Count), slices.Compare(x.Numbers.Numbers(), y.Numbers.Numbers()))
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

// eachSubset llama fn con cada subconjunto de tamaño k (2 o 3) de nums.
func eachSubset(nums []int, k int, fn func(domain.NumberSet)) {
	for i := 0; i < len(nums); i++ {
		a := domain.NumberSet(1) << nums[i]
		for j := i + 1; j < len(nums); j++ {
			ab := a | domain.NumberSet(1)<<nums[j]
			if k == 2 {
				fn(ab)
				continue
			}
			for l := j + 1; l < len(nums); l++ {
				fn(ab | domain.NumberSet(1)<<nums[l])
			}
		}
	}
}
