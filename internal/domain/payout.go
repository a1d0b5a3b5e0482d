package domain

import "github.com/shopspring/decimal"

// MinPrizeHits es la cantidad mínima de aciertos que paga premio.
const MinPrizeHits = 11

// Pricing contiene el coste por apuesta y los premios fijos.
// 14 y 15 aciertos dependen del pozo y no tienen valor fijo.
type Pricing struct {
	TicketCost decimal.Decimal
	Prizes     map[int]decimal.Decimal // aciertos → premio fijo (11, 12, 13)
}

// DefaultPricing devuelve la tabla vigente: apuesta R$ 3,00 y premios
// fijos de R$ 6, 12 y 30 para 11, 12 y 13 aciertos.
func DefaultPricing() Pricing {
	return Pricing{
		TicketCost: decimal.NewFromInt(3),
		Prizes: map[int]decimal.Decimal{
			11: decimal.NewFromInt(6),
			12: decimal.NewFromInt(12),
			13: decimal.NewFromInt(30),
		},
	}
}

// HitTally cuenta pares (ticket, sorteo) por cantidad exacta de aciertos.
// Solo se usan los índices 11..15.
type HitTally [DrawSize + 1]int

// Count devuelve el conteo para k aciertos exactos.
func (h HitTally) Count(k int) int {
	if k < MinPrizeHits || k > DrawSize {
		return 0
	}
	return h[k]
}

// Winners devuelve el total de pares con 11 o más aciertos.
func (h HitTally) Winners() int {
	total := 0
	for k := MinPrizeHits; k <= DrawSize; k++ {
		total += h[k]
	}
	return total
}

// Record suma un par con k aciertos si k >= 11.
func (h *HitTally) Record(k int) {
	if k >= MinPrizeHits && k <= DrawSize {
		h[k]++
	}
}

// PayoutReport es el resultado de la simulación de custo/benefício.
type PayoutReport struct {
	Tickets int
	Draws   int
	Tally   HitTally
	Cost    decimal.Decimal
	Revenue decimal.Decimal // solo premios fijos (11..13)
	Net     decimal.Decimal
}

// RevenueFor devuelve la receta fija de k aciertos (cero para 14 y 15).
func (r PayoutReport) RevenueFor(p Pricing, k int) decimal.Decimal {
	prize, ok := p.Prizes[k]
	if !ok {
		return decimal.Zero
	}
	return prize.Mul(decimal.NewFromInt(int64(r.Tally.Count(k))))
}
