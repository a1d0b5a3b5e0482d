package classifier

import "github.com/alejandrodnm/lotobot/internal/domain"

// FeatureCount: suma, impares, pares, primos, moldura y 25 indicadores de presencia.
const FeatureCount = 5 + domain.MaxNumber

const (
	minSum = 120 // 1+2+...+15
	maxSum = 270 // 11+12+...+25
)

// Features es el vector de entrada del modelo, normalizado a [0,1].
type Features [FeatureCount]float64

// Extract calcula las features de un jogo.
func Extract(s domain.NumberSet) Features {
	var f Features
	odd := s.Odd()
	f[0] = float64(s.Sum()-minSum) / float64(maxSum-minSum)
	f[1] = float64(odd) / domain.DrawSize
	f[2] = float64(s.Len()-odd) / domain.DrawSize
	f[3] = float64(s.Primes()) / float64(domain.PrimeSet.Len())
	f[4] = float64(s.Frame()) / domain.DrawSize
	for _, n := range s.Numbers() {
		f[4+n] = 1
	}
	return f
}

func dot(w, x *Features) float64 {
	var sum float64
	for i := range w {
		sum += w[i] * x[i]
	}
	return sum
}
