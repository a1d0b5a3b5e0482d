package generator

import "github.com/alejandrodnm/lotobot/internal/domain"

// Filter aplica la estrategia contra un sorteo anterior fijo.
type Filter struct {
	cfg      domain.FilterConfig
	previous domain.NumberSet
}

// NewFilter crea un Filter para comparar candidatos contra previous.
func NewFilter(cfg domain.FilterConfig, previous domain.NumberSet) *Filter {
	return &Filter{cfg: cfg, previous: previous}
}

// Passes devuelve true si el candidato cumple todos los intervalos.
// Sin puntaje parcial: falla uno, queda afuera.
func (f *Filter) Passes(candidate domain.NumberSet) bool {
	return f.cfg.Passes(candidate, f.previous)
}

// Apply devuelve los tickets que pasan todos los filtros, en el mismo orden.
func (f *Filter) Apply(tickets []domain.Ticket) []domain.Ticket {
	result := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if f.Passes(t.Set()) {
			result = append(result, t)
		}
	}
	return result
}
