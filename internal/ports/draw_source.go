package ports

import (
	"context"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// DrawSource lee el histórico de sorteos (planilla o CSV).
type DrawSource interface {
	// LoadDraws devuelve los sorteos válidos y cuántas filas descartó
	// por valores no numéricos o fuera de rango.
	LoadDraws(ctx context.Context) (draws []domain.Draw, skipped int, err error)
}

// LatestDrawProvider obtiene el último resultado publicado.
type LatestDrawProvider interface {
	FetchLatest(ctx context.Context) (domain.Draw, error)
}
