package storage

// sqlite.go: copia local del histórico y registro de ejecuciones.
//
//   - `draws`: una fila por concurso (UPSERT). Las dezenas se guardan como
//     bitmask en un INTEGER y también como texto para inspección manual.
//   - `runs`: una fila por acción del CLI. Solo auditoría; el núcleo no la lee.
//   - Cache en memoria de concursos guardados: SaveDraws no reescribe los que
//     no cambiaron. Con ~3500 sorteos casi todas las ejecuciones no escriben nada.
//   - Prune al arrancar: runs de más de 90 días.

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS draws (
    contest      INTEGER PRIMARY KEY,
    draw_date    TEXT,
    numbers      INTEGER NOT NULL,
    numbers_text TEXT    NOT NULL,
    saved_at     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
    id           TEXT PRIMARY KEY,
    kind         TEXT    NOT NULL,
    created_at   INTEGER NOT NULL,
    last_contest INTEGER NOT NULL DEFAULT 0,
    params       TEXT    NOT NULL DEFAULT '',
    considered   INTEGER NOT NULL DEFAULT 0,
    kept         INTEGER NOT NULL DEFAULT 0,
    summary      TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_kind    ON runs(kind);
`

const (
	retentionRuns = 90 * 24 * time.Hour
	dateLayout    = "2006-01-02"
)

// SQLiteStorage implementa ports.DrawStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db    *sql.DB
	cache map[int]domain.NumberSet // concurso → dezenas guardadas
	mu    sync.Mutex
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema, limpia runs antiguos y precarga la cache.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{
		db:    db,
		cache: make(map[int]domain.NumberSet),
	}
	s.pruneOld(context.Background())
	s.warmCache(context.Background())
	return s, nil
}

// SaveDraws hace upsert de los sorteos que no están guardados o cambiaron.
func (s *SQLiteStorage) SaveDraws(ctx context.Context, draws []domain.Draw) error {
	toWrite := s.filterChanged(draws)
	if len(toWrite) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveDraws: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO draws (contest, draw_date, numbers, numbers_text, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(contest) DO UPDATE SET
			draw_date    = excluded.draw_date,
			numbers      = excluded.numbers,
			numbers_text = excluded.numbers_text,
			saved_at     = excluded.saved_at
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveDraws: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Unix()
	for _, d := range toWrite {
		var date *string
		if !d.Date.IsZero() {
			v := d.Date.Format(dateLayout)
			date = &v
		}
		if _, err := stmt.ExecContext(ctx, d.Contest, date, int64(d.Numbers), d.Numbers.Format(), now); err != nil {
			return fmt.Errorf("storage.SaveDraws: contest %d: %w", d.Contest, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveDraws: commit: %w", err)
	}

	s.mu.Lock()
	for _, d := range toWrite {
		s.cache[d.Contest] = d.Numbers
	}
	s.mu.Unlock()
	return nil
}

// LoadDraws devuelve todos los sorteos guardados ordenados por concurso.
func (s *SQLiteStorage) LoadDraws(ctx context.Context) ([]domain.Draw, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT contest, draw_date, numbers
		FROM draws
		ORDER BY contest ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadDraws: query: %w", err)
	}
	defer rows.Close()

	var draws []domain.Draw
	for rows.Next() {
		var d domain.Draw
		var date sql.NullString
		var numbers int64
		if err := rows.Scan(&d.Contest, &date, &numbers); err != nil {
			return nil, fmt.Errorf("storage.LoadDraws: scan row: %w", err)
		}
		d.Numbers = domain.NumberSet(numbers)
		if date.Valid {
			d.Date, _ = time.Parse(dateLayout, date.String)
		}
		draws = append(draws, d)
	}
	return draws, rows.Err()
}

// SaveRun registra una ejecución.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run domain.Run) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, kind, created_at, last_contest, params, considered, kept, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		string(run.Kind),
		run.CreatedAt.UTC().Unix(),
		run.LastContest,
		run.Params,
		run.Considered,
		run.Kept,
		run.Summary,
	); err != nil {
		return fmt.Errorf("storage.SaveRun: insert: %w", err)
	}
	return nil
}

// RecentRuns devuelve las últimas limit ejecuciones, la más nueva primero.
func (s *SQLiteStorage) RecentRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, created_at, last_contest, params, considered, kept, summary
		FROM runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var r domain.Run
		var kind string
		var created int64
		if err := rows.Scan(&r.ID, &kind, &created, &r.LastContest, &r.Params, &r.Considered, &r.Kept, &r.Summary); err != nil {
			return nil, fmt.Errorf("storage.RecentRuns: scan row: %w", err)
		}
		r.Kind = domain.RunKind(kind)
		r.CreatedAt = time.Unix(created, 0).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// filterChanged devuelve los sorteos válidos que no están en la cache
// o cuyas dezenas cambiaron.
func (s *SQLiteStorage) filterChanged(draws []domain.Draw) []domain.Draw {
	s.mu.Lock()
	defer s.mu.Unlock()

	var toWrite []domain.Draw
	for _, d := range draws {
		if d.Validate() != nil {
			continue
		}
		if prev, ok := s.cache[d.Contest]; ok && prev == d.Numbers {
			continue
		}
		toWrite = append(toWrite, d)
	}
	return toWrite
}

// pruneOld elimina runs antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionRuns).Unix()
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff)
}

// warmCache precarga la cache desde la DB al arrancar.
func (s *SQLiteStorage) warmCache(ctx context.Context) {
	rows, err := s.db.QueryContext(ctx, `SELECT contest, numbers FROM draws`)
	if err != nil {
		return
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		var contest int
		var numbers int64
		if rows.Scan(&contest, &numbers) == nil {
			s.cache[contest] = domain.NumberSet(numbers)
		}
	}
}
