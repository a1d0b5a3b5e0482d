// Package backtest mide la estrategia contra el histórico, simula el
// custo/benefício de un conjunto de jogos y confiere jogos contra un resultado.
package backtest

import (
	"github.com/alejandrodnm/lotobot/internal/domain"
)

// Result es la salida de un backtest sobre los últimos N sorteos.
type Result struct {
	Window  int           // sorteos efectivamente usados (<= N)
	Tested  int           // max(Window-1, 0)
	Aligned []domain.Draw // concursos cuyo sorteo cumple todos los filtros
}

// Hits devuelve cuántos concursos quedaron alineados.
func (r Result) Hits() int { return len(r.Aligned) }

// HitRate devuelve Hits/Tested en [0,1]; 0 si no hubo nada que probar.
func (r Result) HitRate() float64 {
	if r.Tested == 0 {
		return 0
	}
	return float64(r.Hits()) / float64(r.Tested)
}

// Percent devuelve HitRate en porcentaje.
func (r Result) Percent() float64 { return r.HitRate() * 100 }

// Contests devuelve los números de concurso alineados, en orden.
func (r Result) Contests() []int {
	out := make([]int, len(r.Aligned))
	for i, d := range r.Aligned {
		out[i] = d.Contest
	}
	return out
}

// Sets devuelve las dezenas de los concursos alineados.
func (r Result) Sets() []domain.NumberSet {
	out := make([]domain.NumberSet, len(r.Aligned))
	for i, d := range r.Aligned {
		out[i] = d.Numbers
	}
	return out
}

// Run compara cada sorteo de la cola con el anterior y se queda con los que
// habrían pasado el filtro. Sin filtro de moldura se usa [0,16].
func Run(seq domain.Sequence, tail int, filter domain.FilterConfig) Result {
	if filter.Frame == nil {
		filter = filter.WithFrame(domain.FullFrameRange())
	}
	window := seq.Tail(tail)

	res := Result{Window: window.Len(), Tested: max(window.Len()-1, 0)}
	for i := 1; i < window.Len(); i++ {
		cur := window.At(i)
		if filter.Passes(cur.Numbers, window.At(i-1).Numbers) {
			res.Aligned = append(res.Aligned, cur)
		}
	}
	return res
}
