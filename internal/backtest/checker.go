package backtest

import (
	"fmt"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// CheckedTicket es un jogo conferido.
type CheckedTicket struct {
	Ticket domain.Ticket
	Hits   int
}

// Prize indica si el jogo alcanzó la faixa mínima de premio.
func (c CheckedTicket) Prize() bool { return c.Hits >= domain.MinPrizeHits }

// CheckResult es la conferencia de un lote de jogos contra un resultado.
type CheckResult struct {
	Result  domain.NumberSet
	Tickets []CheckedTicket // en el orden de entrada
	Tally   domain.HitTally
}

// Check confiere los jogos contra un resultado de 15 dezenas.
func Check(tickets []domain.Ticket, result domain.NumberSet) (CheckResult, error) {
	if result.Len() != domain.DrawSize {
		return CheckResult{}, fmt.Errorf("backtest.Check: %w: %d numbers", domain.ErrInvalidResult, result.Len())
	}
	out := CheckResult{Result: result, Tickets: make([]CheckedTicket, len(tickets))}
	for i, t := range tickets {
		hits := t.Hits(result)
		out.Tickets[i] = CheckedTicket{Ticket: t, Hits: hits}
		out.Tally.Record(hits)
	}
	return out, nil
}
