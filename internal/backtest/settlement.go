package backtest

import (
	"github.com/shopspring/decimal"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// Settle confiere cada jogo contra cada sorteo de la ventana y arma el
// reporte de custo/benefício. Solo 11, 12 y 13 aciertos tienen premio fijo.
func Settle(tickets []domain.Ticket, window []domain.Draw, p domain.Pricing) domain.PayoutReport {
	report := domain.PayoutReport{
		Tickets: len(tickets),
		Draws:   len(window),
		Cost:    decimal.Zero,
		Revenue: decimal.Zero,
		Net:     decimal.Zero,
	}
	if len(tickets) == 0 || len(window) == 0 {
		return report
	}

	for _, d := range window {
		for _, t := range tickets {
			report.Tally.Record(t.Hits(d.Numbers))
		}
	}

	plays := decimal.NewFromInt(int64(len(tickets)) * int64(len(window)))
	report.Cost = p.TicketCost.Mul(plays)
	for k := domain.MinPrizeHits; k <= domain.DrawSize; k++ {
		report.Revenue = report.Revenue.Add(report.RevenueFor(p, k))
	}
	report.Net = report.Revenue.Sub(report.Cost)
	return report
}
