// Package generator enumera los jogos de 15 dezenas de un universo y se queda
// con los que cumplen la estrategia de filtros.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

const defaultCheckEvery = 1 << 14

// Config limita el trabajo de una generación. Con universo de 25 dezenas hay
// 3.268.760 combinaciones; MaxTickets y el contexto acotan la latencia.
type Config struct {
	MaxTickets int // 0 = sin límite
	CheckEvery int // cada cuántos candidatos se revisa el contexto
}

// DefaultConfig no limita tickets y revisa el contexto cada 16384 candidatos.
func DefaultConfig() Config {
	return Config{CheckEvery: defaultCheckEvery}
}

// Result es el resultado de una generación.
type Result struct {
	Tickets    []domain.Ticket
	Total      int64 // C(|universo|, 15)
	Considered int64 // candidatos evaluados
	Truncated  bool  // se cortó por MaxTickets antes de evaluar todo
}

// Kept devuelve cuántos jogos pasaron los filtros.
func (r Result) Kept() int { return len(r.Tickets) }

// Generator es stateless entre llamadas; Config solo fija límites.
type Generator struct {
	cfg Config
}

// New crea un Generator.
func New(cfg Config) *Generator {
	if cfg.CheckEvery <= 0 {
		cfg.CheckEvery = defaultCheckEvery
	}
	return &Generator{cfg: cfg}
}

// Generate evalúa cada combinación de 15 dezenas del universo una sola vez,
// en orden lexicográfico, y conserva las que pasan el filtro contra previous.
//
// Un universo con menos de 15 dezenas devuelve ErrUniverseTooSmall sin
// generar nada. Un resultado vacío no es un error. Si el contexto se cancela
// devuelve lo generado hasta ese momento junto con ctx.Err().
func (g *Generator) Generate(ctx context.Context, universe, previous domain.NumberSet, filter domain.FilterConfig) (Result, error) {
	n := universe.Len()
	if n < domain.DrawSize {
		return Result{}, fmt.Errorf("generator.Generate: %w (got %d)", domain.ErrUniverseTooSmall, n)
	}

	start := time.Now()
	f := NewFilter(filter, previous)
	res := Result{Total: Combinations(n, domain.DrawSize)}

	considered, err := enumerate(ctx, universe.Numbers(), domain.DrawSize, g.cfg.CheckEvery, func(cand domain.NumberSet) bool {
		if !f.Passes(cand) {
			return true
		}
		res.Tickets = append(res.Tickets, domain.Ticket(cand))
		return g.cfg.MaxTickets <= 0 || len(res.Tickets) < g.cfg.MaxTickets
	})
	res.Considered = considered
	res.Truncated = considered < res.Total && err == nil

	slog.Debug("generation complete",
		"universe", n,
		"total", res.Total,
		"considered", res.Considered,
		"kept", res.Kept(),
		"truncated", res.Truncated,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if err != nil {
		return res, fmt.Errorf("generator.Generate: %w", err)
	}
	return res, nil
}
