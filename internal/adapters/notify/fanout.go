package notify

import (
	"context"
	"errors"

	"github.com/alejandrodnm/lotobot/internal/domain"
	"github.com/alejandrodnm/lotobot/internal/ports"
)

// Fanout reenvía los jogos a varios reporters. Un reporter que falla no
// impide que los demás reciban el reporte.
type Fanout []ports.Reporter

// ReportTickets llama a cada reporter y junta los errores.
func (f Fanout) ReportTickets(ctx context.Context, s domain.GenerationSummary, tickets []domain.Ticket) error {
	var errs []error
	for _, r := range f {
		if err := r.ReportTickets(ctx, s, tickets); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
