package caixa

// DTOs raw del portal de loterias. La conversión a domain se hace en mapping.go.

// resultResponse es la respuesta de GET /lotofacil y GET /lotofacil/{concurso}.
type resultResponse struct {
	Numero       int      `json:"numero"`
	DataApuracao string   `json:"dataApuracao"` // dd/mm/aaaa
	ListaDezenas []string `json:"listaDezenas"` // "01".."25"
	Acumulado    bool     `json:"acumulado"`
}
