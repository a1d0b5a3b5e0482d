package analysis

import (
	"errors"
	"fmt"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// BoardSide es el lado del volante: 5 filas de 5 dezenas.
const BoardSide = 5

// DefaultHeatWindow son los sorteos que cuenta la métrica recent.
const DefaultHeatWindow = 200

// HeatMetric es el valor que colorea el volante.
type HeatMetric string

const (
	MetricFrequency HeatMetric = "frequency" // frecuencia en la ventana de estadísticas
	MetricRecent    HeatMetric = "recent"    // frecuencia en los últimos sorteos
	MetricDelay     HeatMetric = "delay"     // atraso sobre toda la secuencia
)

// ErrUnknownMetric se devuelve para una métrica de heatmap desconocida.
var ErrUnknownMetric = errors.New("unknown heatmap metric")

// ParseHeatMetric valida el nombre de la métrica; vacío es frequency.
func ParseHeatMetric(s string) (HeatMetric, error) {
	switch m := HeatMetric(s); m {
	case "":
		return MetricFrequency, nil
	case MetricFrequency, MetricRecent, MetricDelay:
		return m, nil
	default:
		return "", fmt.Errorf("%w %q (frequency|recent|delay)", ErrUnknownMetric, s)
	}
}

// Cell es una casilla del volante con el valor a colorear.
type Cell struct {
	Number int
	Value  int
}

// Board es el volante 5×5: fila 0 = 1..5, fila 1 = 6..10, etc.
type Board [BoardSide][BoardSide]Cell

// BoardOf ubica los valores de cada dezena en el volante.
// value recibe la dezena y devuelve el número a mostrar (frecuencia, atraso...).
func BoardOf(value func(n int) int) Board {
	var b Board
	for n := domain.MinNumber; n <= domain.MaxNumber; n++ {
		row, col := (n-1)/BoardSide, (n-1)%BoardSide
		b[row][col] = Cell{Number: n, Value: value(n)}
	}
	return b
}

// Max devuelve el mayor valor del volante, útil para escalar colores.
func (b Board) Max() int {
	m := 0
	for _, row := range b {
		for _, c := range row {
			m = max(m, c.Value)
		}
	}
	return m
}
