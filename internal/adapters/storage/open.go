package storage

import (
	"context"
	"strings"

	"github.com/alejandrodnm/lotobot/internal/domain"
	"github.com/alejandrodnm/lotobot/internal/ports"
)

// Store es un DrawStore que además lista el historial de ejecuciones.
type Store interface {
	ports.DrawStore
	RecentRuns(ctx context.Context, limit int) ([]domain.Run, error)
}

// Open elige el backend según el DSN: postgres:// o postgresql:// usa
// PostgreSQL, cualquier otra cosa es la ruta de un archivo SQLite.
func Open(ctx context.Context, dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return NewPostgresStorage(ctx, dsn)
	}
	return NewSQLiteStorage(dsn)
}
