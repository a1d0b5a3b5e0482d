package ports

import (
	"context"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// Reporter presenta los jogos generados al usuario.
type Reporter interface {
	// ReportTickets muestra los jogos y el resumen considerados/seleccionados.
	ReportTickets(ctx context.Context, summary domain.GenerationSummary, tickets []domain.Ticket) error
}
