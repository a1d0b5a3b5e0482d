package analysis

import (
	"cmp"
	"slices"

	"github.com/alejandrodnm/lotobot/internal/domain"
	"github.com/alejandrodnm/lotobot/internal/memo"
)

// NumberStat resume una dezena para los reportes de tendencias.
type NumberStat struct {
	Number    int
	Frequency int
	Delay     int
}

// Analyzer calcula frecuencias, atrasos y patrones memoizando por huella de
// los sorteos de entrada. Cada sesión tiene el suyo; no hay caché global.
type Analyzer struct {
	freq   *memo.Table[domain.FrequencyTable]
	delay  *memo.Table[domain.DelayTable]
	combos *memo.Table[[]Combination]
}

// NewAnalyzer crea un Analyzer con tablas vacías.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		freq:   memo.New[domain.FrequencyTable](),
		delay:  memo.New[domain.DelayTable](),
		combos: memo.New[[]Combination](),
	}
}

// Frequency cuenta apariciones sobre sets (por ejemplo, una ventana reciente).
func (a *Analyzer) Frequency(sets []domain.NumberSet) domain.FrequencyTable {
	key := memo.NewKey("frequency").Sets(sets).Sum()
	return a.freq.Get(key, func() domain.FrequencyTable { return domain.Frequency(sets) })
}

// Delay calcula el atraso de cada dezena respecto de ref, que puede ser una
// secuencia más larga que la usada para la frecuencia.
func (a *Analyzer) Delay(ref []domain.NumberSet) domain.DelayTable {
	key := memo.NewKey("delay").Sets(ref).Sum()
	return a.delay.Get(key, func() domain.DelayTable { return domain.Delay(ref) })
}

// TopCombinations es la versión memoizada de TopCombinations.
func (a *Analyzer) TopCombinations(sets []domain.NumberSet, k, topN int) ([]Combination, error) {
	if err := checkPatternSize(k); err != nil {
		return nil, err
	}
	key := memo.NewKey("combinations").Sets(sets).Int(k).Int(topN).Sum()
	combos := a.combos.Get(key, func() []Combination {
		c, _ := TopCombinations(sets, k, topN)
		return c
	})
	return slices.Clone(combos), nil
}

// Recommend sugiere el universo usando las tablas memoizadas.
func (a *Analyzer) Recommend(seq domain.Sequence, cfg RecommendConfig) Recommendation {
	cfg = cfg.normalized()
	recent := a.Frequency(seq.Tail(cfg.RecentWindow).Sets())
	delay := a.Delay(seq.Sets())
	return RankUniverse(recent, delay, cfg.Size)
}

// Stats devuelve frecuencia sobre freqSets y atraso sobre delayRef por dezena,
// ordenado por dezena ascendente.
func (a *Analyzer) Stats(freqSets, delayRef []domain.NumberSet) []NumberStat {
	f := a.Frequency(freqSets)
	d := a.Delay(delayRef)
	out := make([]NumberStat, 0, domain.MaxNumber)
	for n := domain.MinNumber; n <= domain.MaxNumber; n++ {
		out = append(out, NumberStat{Number: n, Frequency: f.Get(n), Delay: d.Get(n)})
	}
	return out
}

// Hot ordena por frecuencia descendente; empate por dezena ascendente.
func Hot(stats []NumberStat) []NumberStat {
	out := slices.Clone(stats)
	slices.SortStableFunc(out, func(x, y NumberStat) int {
		return cmp.Or(cmp.Compare(y.Frequency, x.Frequency), cmp.Compare(x.Number, y.Number))
	})
	return out
}

// Overdue ordena por atraso descendente; empate por dezena ascendente.
func Overdue(stats []NumberStat) []NumberStat {
	out := slices.Clone(stats)
	slices.SortStableFunc(out, func(x, y NumberStat) int {
		return cmp.Or(cmp.Compare(y.Delay, x.Delay), cmp.Compare(x.Number, y.Number))
	})
	return out
}
