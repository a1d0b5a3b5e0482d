package domain

import "time"

// RunKind identifica la acción del CLI que produjo un Run.
type RunKind string

const (
	RunGenerate RunKind = "generate"
	RunElite    RunKind = "elite"
	RunBacktest RunKind = "backtest"
	RunSimulate RunKind = "simulate"
	RunCheck    RunKind = "check"
)

// Run es el registro de una ejecución, solo para auditoría local.
// El núcleo nunca lo lee.
type Run struct {
	ID          string
	Kind        RunKind
	CreatedAt   time.Time
	LastContest int    // último concurso de la base usada
	Params      string // estrategia o ventana, legible por humanos
	Considered  int
	Kept        int
	Summary     string
}

// GenerationSummary resume una generación: cuántas combinaciones había,
// cuántas se evaluaron y cuántas pasaron los filtros.
type GenerationSummary struct {
	Universe   NumberSet
	Previous   Draw
	Total      int64
	Considered int64
	Kept       int
	Truncated  bool
	Duration   time.Duration
}
