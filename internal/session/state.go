package session

import (
	"github.com/alejandrodnm/lotobot/internal/backtest"
	"github.com/alejandrodnm/lotobot/internal/domain"
)

// State es lo que la presentación elige entre acciones: universo, filtros,
// últimos jogos generados y el último backtest. El núcleo no lo ve; el
// Service se lo pasa como argumentos.
type State struct {
	Sequence     domain.Sequence
	Universe     domain.NumberSet
	Filter       domain.FilterConfig
	LastTickets  []domain.Ticket
	LastBacktest *backtest.Result
}

// Strategy devuelve la estrategia actual lista para Encode.
func (s State) Strategy() domain.Strategy {
	return domain.Strategy{Universe: s.Universe.Format(), Filter: s.Filter}
}

// Aligned devuelve las dezenas de los concursos alineados del último backtest.
func (s State) Aligned() []domain.NumberSet {
	if s.LastBacktest == nil {
		return nil
	}
	return s.LastBacktest.Sets()
}
