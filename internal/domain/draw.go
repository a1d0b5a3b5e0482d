package domain

import (
	"fmt"
	"slices"
	"time"
)

// Draw es un resultado histórico: concurso, fecha y las 15 dezenas sorteadas.
type Draw struct {
	Contest int
	Date    time.Time
	Numbers NumberSet
}

// Validate comprueba las invariantes de un sorteo.
func (d Draw) Validate() error {
	if d.Contest <= 0 {
		return fmt.Errorf("domain.Draw: contest %d must be positive", d.Contest)
	}
	if d.Numbers.Len() != DrawSize || d.Numbers&1 != 0 || d.Numbers>>(MaxNumber+1) != 0 {
		return fmt.Errorf("domain.Draw: contest %d: %w", d.Contest, ErrInvalidResult)
	}
	return nil
}

// Sequence es la secuencia inmutable de sorteos ordenada por concurso ascendente.
// Ningún método modifica la secuencia; WithLatest y Tail devuelven valores nuevos.
type Sequence struct {
	draws []Draw
}

// NewSequence ordena por concurso y descarta sorteos inválidos.
// Si un concurso aparece repetido se conserva la primera aparición.
// Devuelve la secuencia y cuántos registros se descartaron.
func NewSequence(draws []Draw) (Sequence, int) {
	seen := make(map[int]struct{}, len(draws))
	out := make([]Draw, 0, len(draws))
	dropped := 0
	for _, d := range draws {
		if d.Validate() != nil {
			dropped++
			continue
		}
		if _, dup := seen[d.Contest]; dup {
			dropped++
			continue
		}
		seen[d.Contest] = struct{}{}
		out = append(out, d)
	}
	slices.SortStableFunc(out, func(a, b Draw) int { return a.Contest - b.Contest })
	return Sequence{draws: out}, dropped
}

// Len devuelve la cantidad de sorteos.
func (s Sequence) Len() int { return len(s.draws) }

// At devuelve el sorteo i (0 = el más antiguo).
func (s Sequence) At(i int) Draw { return s.draws[i] }

// Draws devuelve una copia de los sorteos.
func (s Sequence) Draws() []Draw { return slices.Clone(s.draws) }

// Last devuelve el sorteo más reciente; ok es false si la secuencia está vacía.
func (s Sequence) Last() (Draw, bool) {
	if len(s.draws) == 0 {
		return Draw{}, false
	}
	return s.draws[len(s.draws)-1], true
}

// Has indica si el concurso ya está en la secuencia.
func (s Sequence) Has(contest int) bool {
	_, found := slices.BinarySearchFunc(s.draws, contest, func(d Draw, c int) int { return d.Contest - c })
	return found
}

// Tail devuelve los últimos n sorteos (todos si n >= Len, ninguno si n <= 0).
func (s Sequence) Tail(n int) Sequence {
	if n <= 0 {
		return Sequence{}
	}
	if n >= len(s.draws) {
		return s
	}
	return Sequence{draws: s.draws[len(s.draws)-n:]}
}

// Select devuelve los sorteos cuyos concursos están en contests, en orden cronológico.
func (s Sequence) Select(contests []int) Sequence {
	want := make(map[int]struct{}, len(contests))
	for _, c := range contests {
		want[c] = struct{}{}
	}
	var out []Draw
	for _, d := range s.draws {
		if _, ok := want[d.Contest]; ok {
			out = append(out, d)
		}
	}
	return Sequence{draws: out}
}

// WithLatest agrega d si su concurso no existe y reordena (append-then-sort).
// Devuelve la secuencia nueva y si d fue agregado.
func (s Sequence) WithLatest(d Draw) (Sequence, bool) {
	if d.Validate() != nil || s.Has(d.Contest) {
		return s, false
	}
	draws := append(slices.Clone(s.draws), d)
	slices.SortStableFunc(draws, func(a, b Draw) int { return a.Contest - b.Contest })
	return Sequence{draws: draws}, true
}

// Sets devuelve las dezenas de cada sorteo en orden cronológico.
func (s Sequence) Sets() []NumberSet {
	out := make([]NumberSet, len(s.draws))
	for i, d := range s.draws {
		out[i] = d.Numbers
	}
	return out
}

// Contests devuelve los números de concurso en orden.
func (s Sequence) Contests() []int {
	out := make([]int, len(s.draws))
	for i, d := range s.draws {
		out[i] = d.Contest
	}
	return out
}
