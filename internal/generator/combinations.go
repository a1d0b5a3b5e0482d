package generator

import (
	"context"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// Combinations devuelve C(n, k). Cabe en int64 para n <= 25.
func Combinations(n, k int) int64 {
	if k < 0 || n < k {
		return 0
	}
	k = min(k, n-k)
	c := int64(1)
	for i := 1; i <= k; i++ {
		c = c * int64(n-k+i) / int64(i)
	}
	return c
}

// enumerate recorre las combinaciones de tamaño k de nums (ascendente) en orden
// lexicográfico, una sola vez cada una. visit devuelve false para cortar.
// El contexto se revisa cada checkEvery combinaciones.
func enumerate(ctx context.Context, nums []int, k, checkEvery int, visit func(domain.NumberSet) bool) (int64, error) {
	n := len(nums)
	if k <= 0 || n < k {
		return 0, nil
	}
	if checkEvery <= 0 {
		checkEvery = defaultCheckEvery
	}

	idx := make([]int, k)
	prefix := make([]domain.NumberSet, k) // prefix[i] = OR de nums[idx[0..i]]
	for i := range idx {
		idx[i] = i
	}
	rebuild := func(from int) {
		for i := from; i < k; i++ {
			var prev domain.NumberSet
			if i > 0 {
				prev = prefix[i-1]
			}
			prefix[i] = prev | domain.NumberSet(1)<<nums[idx[i]]
		}
	}
	rebuild(0)

	var visited int64
	for {
		visited++
		if !visit(prefix[k-1]) {
			return visited, nil
		}
		if visited%int64(checkEvery) == 0 {
			if err := ctx.Err(); err != nil {
				return visited, err
			}
		}

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return visited, nil
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
		rebuild(i)
	}
}
