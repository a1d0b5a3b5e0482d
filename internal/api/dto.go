package api

import (
	"github.com/shopspring/decimal"

	"github.com/alejandrodnm/lotobot/internal/analysis"
	"github.com/alejandrodnm/lotobot/internal/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Draws       int    `json:"draws"`
	LastContest int    `json:"last_contest"`
}

type numberStat struct {
	Number    int `json:"number"`
	Frequency int `json:"frequency"`
	Delay     int `json:"delay"`
}

type combination struct {
	Numbers []int `json:"numbers"`
	Count   int   `json:"count"`
}

func combinationsOf(cs []analysis.Combination) []combination {
	out := make([]combination, len(cs))
	for i, c := range cs {
		out[i] = combination{Numbers: c.Numbers.Numbers(), Count: c.Count}
	}
	return out
}

type patternsResponse struct {
	Pairs []combination `json:"pairs"`
	Trios []combination `json:"trios"`
}

type numberScore struct {
	Number          int     `json:"number"`
	RecentFrequency int     `json:"recent_frequency"`
	Delay           int     `json:"delay"`
	Score           float64 `json:"score"`
}

type recommendResponse struct {
	Universe []int         `json:"universe"`
	Ranking  []numberScore `json:"ranking"`
	Applied  bool          `json:"applied"`
}

// strategyRequest acepta el mismo código que -load-strategy.
type strategyRequest struct {
	Code string `json:"code"`
}

type strategyResponse struct {
	Universe []int               `json:"universe"`
	Filter   domain.FilterConfig `json:"filter"`
	Code     string              `json:"code"`
}

// generateRequest permite cambiar universo y filtros antes de generar.
// Campos vacíos mantienen el estado actual de la sesión.
type generateRequest struct {
	Universe string               `json:"universe,omitempty"`
	Filter   *domain.FilterConfig `json:"filter,omitempty"`
	Limit    int                  `json:"limit,omitempty"`
}

type generateResponse struct {
	Universe   []int   `json:"universe"`
	Previous   int     `json:"previous_contest"`
	Total      int64   `json:"total"`
	Considered int64   `json:"considered"`
	Kept       int     `json:"kept"`
	Truncated  bool    `json:"truncated"`
	Tickets    [][]int `json:"tickets"`
}

type backtestResponse struct {
	Window   int     `json:"window"`
	Tested   int     `json:"tested"`
	Hits     int     `json:"hits"`
	Percent  float64 `json:"percent"`
	Contests []int   `json:"contests"`
}

type scoredTicket struct {
	Numbers []int `json:"numbers"`
	Score   int   `json:"score"`
}

type eliteResponse struct {
	Universe []int          `json:"universe"`
	Pairs    []combination  `json:"pairs"`
	Trios    []combination  `json:"trios"`
	Tickets  []scoredTicket `json:"tickets"`
}

// ticketsRequest lleva jogos en texto, uno por línea. Vacío usa los últimos
// jogos generados.
type ticketsRequest struct {
	Tickets string `json:"tickets"`
	Result  string `json:"result,omitempty"`
}

type payoutResponse struct {
	Tickets int             `json:"tickets"`
	Draws   int             `json:"draws"`
	Hits    map[int]int     `json:"hits"`
	Cost    decimal.Decimal `json:"cost"`
	Revenue decimal.Decimal `json:"revenue"`
	Net     decimal.Decimal `json:"net"`
	Skipped int             `json:"skipped"`
}

func hitsOf(t domain.HitTally) map[int]int {
	out := make(map[int]int, domain.DrawSize-domain.MinPrizeHits+1)
	for k := domain.MinPrizeHits; k <= domain.DrawSize; k++ {
		out[k] = t.Count(k)
	}
	return out
}

type checkedTicket struct {
	Numbers []int `json:"numbers"`
	Hits    int   `json:"hits"`
	Prize   bool  `json:"prize"`
}

type checkResponse struct {
	Result  []int           `json:"result"`
	Tickets []checkedTicket `json:"tickets"`
	Hits    map[int]int     `json:"hits"`
	Skipped int             `json:"skipped"`
}

type rankedTicket struct {
	Numbers []int   `json:"numbers"`
	Score   float64 `json:"score"`
}

type heatmapResponse struct {
	Metric string  `json:"metric"`
	Max    int     `json:"max"`
	Board  [][]int `json:"board"`
}
