// Package history lee el histórico de sorteos desde la planilla oficial
// (.xlsx) o desde un export .csv con las mismas columnas:
// Concurso, Data Sorteio, Bola1..Bola15.
package history

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// ErrUnsupportedFormat se devuelve para extensiones que no son .xlsx ni .csv.
var ErrUnsupportedFormat = errors.New("unsupported history format")

const columns = 2 + domain.DrawSize

var dateLayouts = []string{"02/01/2006", "2006-01-02", "01-02-06", "2/1/2006"}

// FileSource implementa ports.DrawSource sobre un archivo local.
type FileSource struct {
	path string
}

// NewFileSource crea un FileSource para path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path devuelve la ruta del archivo.
func (s *FileSource) Path() string { return s.path }

// LoadDraws lee el archivo y devuelve los sorteos válidos y cuántas filas se
// descartaron. La primera fila se toma como encabezado.
func (s *FileSource) LoadDraws(ctx context.Context) ([]domain.Draw, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	rows, err := readRows(s.path)
	if err != nil {
		return nil, 0, fmt.Errorf("history.LoadDraws: %w", err)
	}
	if len(rows) > 0 {
		rows = rows[1:]
	}

	draws, skipped := parseRows(rows)
	slog.Debug("history loaded", "path", s.path, "draws", len(draws), "skipped", skipped)
	return draws, skipped, nil
}

func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readCSV(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// readXLSX lee la primera hoja.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}

// readCSV acepta ',' o ';' como separador (el export de la Caixa usa ';').
func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(strings.NewReader(string(data)))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if first, _, _ := strings.Cut(string(data), "\n"); strings.Count(first, ";") > strings.Count(first, ",") {
		cr.Comma = ';'
	}
	return cr.ReadAll()
}

// parseRows convierte filas en sorteos. Filas con concurso o dezenas no
// numéricas, o que no formen un sorteo válido, se descartan.
func parseRows(rows [][]string) ([]domain.Draw, int) {
	draws := make([]domain.Draw, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		d, ok := parseRow(row)
		if !ok {
			skipped++
			continue
		}
		draws = append(draws, d)
	}
	return draws, skipped
}

func parseRow(row []string) (domain.Draw, bool) {
	if len(row) < columns {
		return domain.Draw{}, false
	}
	contest, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return domain.Draw{}, false
	}
	nums := make([]int, 0, domain.DrawSize)
	for _, cell := range row[2:columns] {
		n, err := strconv.Atoi(strings.TrimSpace(cell))
		if err != nil {
			return domain.Draw{}, false
		}
		nums = append(nums, n)
	}
	set, err := domain.NewNumberSet(nums...)
	if err != nil {
		return domain.Draw{}, false
	}
	d := domain.Draw{Contest: contest, Date: parseDate(row[1]), Numbers: set}
	return d, d.Validate() == nil
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
