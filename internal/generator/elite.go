package generator

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/alejandrodnm/lotobot/internal/analysis"
	"github.com/alejandrodnm/lotobot/internal/domain"
)

// ErrNoAlignedDraws se devuelve si no hay concursos alineados para el modo élite.
var ErrNoAlignedDraws = errors.New("no aligned draws")

// PatternSource provee las estadísticas que usa el modo élite.
// *analysis.Analyzer lo implementa con memo.
type PatternSource interface {
	Frequency(sets []domain.NumberSet) domain.FrequencyTable
	TopCombinations(sets []domain.NumberSet, k, topN int) ([]analysis.Combination, error)
}

// EliteConfig parametriza el modo élite.
type EliteConfig struct {
	UniverseSize int `yaml:"universe_size"`
	TopPatterns  int `yaml:"top_patterns"`
	PairWeight   int `yaml:"pair_weight"`
	TrioWeight   int `yaml:"trio_weight"`
	Keep         int `yaml:"keep"`
}

// DefaultEliteConfig: 19 dezenas, top-20 pares y trios, +1/+3, 50 jogos.
func DefaultEliteConfig() EliteConfig {
	return EliteConfig{
		UniverseSize: 19,
		TopPatterns:  20,
		PairWeight:   1,
		TrioWeight:   3,
		Keep:         50,
	}
}

// ScoredTicket es un jogo con su puntaje de padrones.
type ScoredTicket struct {
	Ticket domain.Ticket
	Score  int
}

// EliteResult es el resultado del modo élite.
type EliteResult struct {
	Universe domain.NumberSet
	Pairs    []analysis.Combination
	Trios    []analysis.Combination
	Tickets  []ScoredTicket // ordenados por Score descendente
}

// Elite arma un universo con las dezenas más frecuentes de los concursos
// alineados (sólo las que salieron, mínimo 15) y puntúa cada jogo de 15 según cuántos pares y trios top contiene.
func (g *Generator) Elite(ctx context.Context, src PatternSource, aligned []domain.NumberSet, cfg EliteConfig) (EliteResult, error) {
	if len(aligned) == 0 {
		return EliteResult{}, fmt.Errorf("generator.Elite: %w", ErrNoAlignedDraws)
	}
	size := min(max(cfg.UniverseSize, domain.DrawSize), domain.MaxNumber)

	universe := eliteUniverse(src.Frequency(aligned), size)
	pairs, err := src.TopCombinations(aligned, 2, cfg.TopPatterns)
	if err != nil {
		return EliteResult{}, fmt.Errorf("generator.Elite: pairs: %w", err)
	}
	trios, err := src.TopCombinations(aligned, 3, cfg.TopPatterns)
	if err != nil {
		return EliteResult{}, fmt.Errorf("generator.Elite: trios: %w", err)
	}

	var scored []ScoredTicket
	_, err = enumerate(ctx, universe.Numbers(), domain.DrawSize, g.cfg.CheckEvery, func(cand domain.NumberSet) bool {
		score := 0
		for _, p := range pairs {
			if cand.Contains(p.Numbers) {
				score += cfg.PairWeight
			}
		}
		for _, t := range trios {
			if cand.Contains(t.Numbers) {
				score += cfg.TrioWeight
			}
		}
		scored = append(scored, ScoredTicket{Ticket: domain.Ticket(cand), Score: score})
		return true
	})
	if err != nil {
		return EliteResult{}, fmt.Errorf("generator.Elite: %w", err)
	}

	slices.SortStableFunc(scored, func(a, b ScoredTicket) int { return cmp.Compare(b.Score, a.Score) })
	if cfg.Keep > 0 && len(scored) > cfg.Keep {
		scored = scored[:cfg.Keep]
	}

	return EliteResult{
		Universe: universe,
		Pairs:    pairs,
		Trios:    trios,
		Tickets:  scored,
	}, nil
}

// eliteUniverse toma hasta size dezenas entre las que salieron en los
// alineados, de mayor a menor frecuencia; empates por número. Si salieron
// menos de 15, completa con las no sorteadas de menor número.
func eliteUniverse(freq domain.FrequencyTable, size int) domain.NumberSet {
	size = max(size, domain.DrawSize)
	var drawn, unseen []int
	for n := domain.MinNumber; n <= domain.MaxNumber; n++ {
		if freq.Get(n) > 0 {
			drawn = append(drawn, n)
		} else {
			unseen = append(unseen, n)
		}
	}
	slices.SortStableFunc(drawn, func(a, b int) int { return cmp.Compare(freq.Get(b), freq.Get(a)) })

	picked := drawn[:min(size, len(drawn))]
	if short := domain.DrawSize - len(picked); short > 0 {
		picked = append(picked, unseen[:short]...)
	}
	var u domain.NumberSet
	for _, n := range picked {
		u |= domain.NumberSet(1) << n
	}
	return u
}
