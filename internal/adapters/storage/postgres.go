package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS draws (
    contest      INTEGER PRIMARY KEY,
    draw_date    DATE,
    numbers      INTEGER     NOT NULL,
    numbers_text TEXT        NOT NULL,
    saved_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS runs (
    id           UUID PRIMARY KEY,
    kind         TEXT        NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    last_contest INTEGER     NOT NULL DEFAULT 0,
    params       TEXT        NOT NULL DEFAULT '',
    considered   INTEGER     NOT NULL DEFAULT 0,
    kept         INTEGER     NOT NULL DEFAULT 0,
    summary      TEXT        NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
`

// PostgresStorage implementa ports.DrawStore sobre PostgreSQL, para compartir
// el histórico entre varias máquinas.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage conecta, verifica la conexión y aplica el schema.
func NewPostgresStorage(ctx context.Context, dsn string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage.NewPostgresStorage: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage.NewPostgresStorage: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage.NewPostgresStorage: apply schema: %w", err)
	}

	s := &PostgresStorage{pool: pool}
	if _, err := pool.Exec(ctx, `DELETE FROM runs WHERE created_at < $1`, time.Now().UTC().Add(-retentionRuns)); err != nil {
		return nil, errors.Join(fmt.Errorf("storage.NewPostgresStorage: prune: %w", err), s.Close())
	}
	return s, nil
}

// SaveDraws hace upsert de los sorteos válidos en un único batch.
// Solo reescribe filas cuyas dezenas cambiaron.
func (s *PostgresStorage) SaveDraws(ctx context.Context, draws []domain.Draw) error {
	batch := &pgx.Batch{}
	for _, d := range draws {
		if d.Validate() != nil {
			continue
		}
		var date *time.Time
		if !d.Date.IsZero() {
			date = &d.Date
		}
		batch.Queue(`
			INSERT INTO draws (contest, draw_date, numbers, numbers_text)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (contest) DO UPDATE SET
				draw_date    = EXCLUDED.draw_date,
				numbers      = EXCLUDED.numbers,
				numbers_text = EXCLUDED.numbers_text,
				saved_at     = now()
			WHERE draws.numbers <> EXCLUDED.numbers`,
			d.Contest, date, int32(d.Numbers), d.Numbers.Format())
	}
	if batch.Len() == 0 {
		return nil
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("storage.SaveDraws: %w", err)
	}
	return nil
}

// LoadDraws devuelve todos los sorteos guardados ordenados por concurso.
func (s *PostgresStorage) LoadDraws(ctx context.Context) ([]domain.Draw, error) {
	rows, err := s.pool.Query(ctx, `SELECT contest, draw_date, numbers FROM draws ORDER BY contest ASC`)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadDraws: query: %w", err)
	}
	defer rows.Close()

	var draws []domain.Draw
	for rows.Next() {
		var d domain.Draw
		var date *time.Time
		var numbers int32
		if err := rows.Scan(&d.Contest, &date, &numbers); err != nil {
			return nil, fmt.Errorf("storage.LoadDraws: scan row: %w", err)
		}
		d.Numbers = domain.NumberSet(numbers)
		if date != nil {
			d.Date = date.UTC()
		}
		draws = append(draws, d)
	}
	return draws, rows.Err()
}

// SaveRun registra una ejecución.
func (s *PostgresStorage) SaveRun(ctx context.Context, run domain.Run) error {
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO runs (id, kind, created_at, last_contest, params, considered, kept, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, string(run.Kind), run.CreatedAt.UTC(), run.LastContest,
		run.Params, run.Considered, run.Kept, run.Summary,
	); err != nil {
		return fmt.Errorf("storage.SaveRun: insert: %w", err)
	}
	return nil
}

// RecentRuns devuelve las últimas limit ejecuciones, la más nueva primero.
func (s *PostgresStorage) RecentRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::TEXT, kind, created_at, last_contest, params, considered, kept, summary
		FROM runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var r domain.Run
		var kind string
		if err := rows.Scan(&r.ID, &kind, &r.CreatedAt, &r.LastContest, &r.Params, &r.Considered, &r.Kept, &r.Summary); err != nil {
			return nil, fmt.Errorf("storage.RecentRuns: scan row: %w", err)
		}
		r.Kind = domain.RunKind(kind)
		r.CreatedAt = r.CreatedAt.UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close cierra el pool.
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}
