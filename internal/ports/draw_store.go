package ports

import (
	"context"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// DrawStore es la copia local del histórico. Guarda también los sorteos
// traídos de la API para no depender de ella en la próxima ejecución.
type DrawStore interface {
	// SaveDraws hace upsert por concurso.
	SaveDraws(ctx context.Context, draws []domain.Draw) error

	// LoadDraws devuelve todos los sorteos guardados ordenados por concurso.
	LoadDraws(ctx context.Context) ([]domain.Draw, error)

	// SaveRun registra una acción del CLI (generación, backtest, simulación).
	SaveRun(ctx context.Context, run domain.Run) error

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
