// Package classifier entrena un clasificador binario "sorteo real vs. jogo
// sintético" y lo usa para ordenar jogos por plausibilidad.
package classifier

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// ErrNotEnoughData se devuelve si no hay sorteos para entrenar.
var ErrNotEnoughData = errors.New("not enough draws to train")

// Options configura el entrenamiento.
type Options struct {
	Seed         uint64  `yaml:"seed"`
	Epochs       int     `yaml:"epochs"`
	LearningRate float64 `yaml:"learning_rate"`
}

// DefaultOptions devuelve una configuración razonable para ~3000 sorteos.
func DefaultOptions() Options {
	return Options{Seed: 42, Epochs: 200, LearningRate: 0.5}
}

// Model es una regresión logística sobre Features.
// Es inmutable tras Train y seguro para uso concurrente.
type Model struct {
	weights Features
	bias    float64
}

// Score devuelve la probabilidad estimada de que el jogo parezca un sorteo real.
func (m *Model) Score(t domain.Ticket) float64 {
	x := Extract(t.Set())
	return sigmoid(dot(&m.weights, &x) + m.bias)
}

// Train ajusta el modelo con los sorteos históricos como positivos y la misma
// cantidad de jogos aleatorios ausentes del histórico como negativos.
// Con la misma semilla el modelo resultante es idéntico.
func Train(sets []domain.NumberSet, opts Options) (*Model, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("classifier.Train: %w", ErrNotEnoughData)
	}
	if opts.Epochs <= 0 || opts.LearningRate <= 0 {
		def := DefaultOptions()
		opts.Epochs, opts.LearningRate = def.Epochs, def.LearningRate
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	negatives := syntheticTickets(rng, sets, len(sets))

	xs := make([]Features, 0, len(sets)+len(negatives))
	ys := make([]float64, 0, cap(xs))
	for _, s := range sets {
		xs = append(xs, Extract(s))
		ys = append(ys, 1)
	}
	for _, s := range negatives {
		xs = append(xs, Extract(s))
		ys = append(ys, 0)
	}

	m := &Model{}
	n := float64(len(xs))
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		var grad Features
		var gradBias float64
		for i := range xs {
			diff := sigmoid(dot(&m.weights, &xs[i])+m.bias) - ys[i]
			for j := range grad {
				grad[j] += diff * xs[i][j]
			}
			gradBias += diff
		}
		for j := range m.weights {
			m.weights[j] -= opts.LearningRate * grad[j] / n
		}
		m.bias -= opts.LearningRate * gradBias / n
	}

	slog.Debug("classifier trained",
		"positives", len(sets),
		"negatives", len(negatives),
		"epochs", opts.Epochs,
	)
	return m, nil
}

// syntheticTickets sortea hasta want jogos distintos que no están en history.
// Corta tras 100×want intentos para no ciclar con históricos patológicos.
func syntheticTickets(rng *rand.Rand, history []domain.NumberSet, want int) []domain.NumberSet {
	seen := make(map[domain.NumberSet]struct{}, len(history)+want)
	for _, s := range history {
		seen[s] = struct{}{}
	}
	out := make([]domain.NumberSet, 0, want)
	for attempts := 0; len(out) < want && attempts < 100*want; attempts++ {
		var s domain.NumberSet
		for _, i := range rng.Perm(domain.MaxNumber)[:domain.DrawSize] {
			s |= domain.NumberSet(1) << (i + 1)
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func sigmoid(z float64) float64 { return 1 / (1 + math.Exp(-z)) }
