package analysis

import (
	"cmp"
	"slices"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// Pesos del score: 60% frecuencia reciente, 40% atraso general.
const (
	weightFrequency = 0.6
	weightDelay     = 0.4
)

// RecommendConfig controla la sugerencia de universo.
type RecommendConfig struct {
	RecentWindow int // sorteos recientes para la frecuencia
	Size         int // dezenas del universo sugerido
}

// DefaultRecommendConfig analiza los últimos 1000 sorteos y sugiere 19 dezenas.
func DefaultRecommendConfig() RecommendConfig {
	return RecommendConfig{RecentWindow: 1000, Size: 19}
}

func (c RecommendConfig) normalized() RecommendConfig {
	def := DefaultRecommendConfig()
	if c.RecentWindow <= 0 {
		c.RecentWindow = def.RecentWindow
	}
	if c.Size <= 0 {
		c.Size = def.Size
	}
	c.Size = min(c.Size, domain.MaxNumber)
	return c
}

// NumberScore es el score de una dezena y sus componentes.
type NumberScore struct {
	Number          int
	RecentFrequency int
	Delay           int
	Score           float64
}

// Recommendation es el universo sugerido y el ranking completo de 25 dezenas.
type Recommendation struct {
	Universe domain.NumberSet
	Ranking  []NumberScore // score descendente
}

// Recommend calcula la frecuencia sobre los últimos cfg.RecentWindow sorteos
// (recortado al tamaño de la secuencia) y el atraso sobre toda la secuencia.
func Recommend(seq domain.Sequence, cfg RecommendConfig) Recommendation {
	cfg = cfg.normalized()
	recent := domain.Frequency(seq.Tail(cfg.RecentWindow).Sets())
	delay := domain.Delay(seq.Sets())
	return RankUniverse(recent, delay, cfg.Size)
}

// RankUniverse normaliza frecuencia y atraso por su máximo (1 si el máximo es 0),
// puntúa 0.6×freq + 0.4×atraso y devuelve las size mejores dezenas.
// Empates de score: dezena menor primero.
func RankUniverse(recent domain.FrequencyTable, delay domain.DelayTable, size int) Recommendation {
	maxFreq := float64(max(recent.Max(), 1))
	maxDelay := float64(max(delay.Max(), 1))

	ranking := make([]NumberScore, 0, domain.MaxNumber)
	for n := domain.MinNumber; n <= domain.MaxNumber; n++ {
		ranking = append(ranking, NumberScore{
			Number:          n,
			RecentFrequency: recent.Get(n),
			Delay:           delay.Get(n),
			Score:           weightFrequency*float64(recent.Get(n))/maxFreq + weightDelay*float64(delay.Get(n))/maxDelay,
		})
	}
	slices.SortStableFunc(ranking, func(x, y NumberScore) int { return cmp.Compare(y.Score, x.Score) })

	var universe domain.NumberSet
	for _, ns := range ranking[:min(size, len(ranking))] {
		universe |= 1 << ns.Number
	}
	return Recommendation{Universe: universe, Ranking: ranking}
}
