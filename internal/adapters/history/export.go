package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// WriteCSV escribe los sorteos con el mismo layout que lee FileSource.
func WriteCSV(w io.Writer, draws []domain.Draw) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, columns)
	header = append(header, "Concurso", "Data Sorteio")
	for i := 1; i <= domain.DrawSize; i++ {
		header = append(header, fmt.Sprintf("Bola%d", i))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("history.WriteCSV: %w", err)
	}

	for _, d := range draws {
		row := make([]string, 0, columns)
		date := ""
		if !d.Date.IsZero() {
			date = d.Date.Format(dateLayouts[0])
		}
		row = append(row, strconv.Itoa(d.Contest), date)
		for _, n := range d.Numbers.Numbers() {
			row = append(row, strconv.Itoa(n))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("history.WriteCSV: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
