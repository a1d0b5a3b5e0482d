// Package session orquesta una sesión de análisis: carga el histórico, guarda
// las elecciones del usuario en un State explícito y llama al núcleo
// (analysis, generator, backtest, classifier) con esos valores.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/lotobot/internal/analysis"
	"github.com/alejandrodnm/lotobot/internal/backtest"
	"github.com/alejandrodnm/lotobot/internal/classifier"
	"github.com/alejandrodnm/lotobot/internal/domain"
	"github.com/alejandrodnm/lotobot/internal/generator"
	"github.com/alejandrodnm/lotobot/internal/metrics"
	"github.com/alejandrodnm/lotobot/internal/ports"
)

// Config contiene los parámetros de la sesión.
type Config struct {
	Generator        generator.Config
	Elite            generator.EliteConfig
	Recommend        analysis.RecommendConfig
	StatsWindow      int // sorteos recientes para la tabla de frecuencia (0 = todos)
	HeatmapWindow    int // sorteos de la métrica recent (0 = analysis.DefaultHeatWindow)
	TopN             int // tamaño de los rankings de pares/trios
	BacktestWindow   int // N del backtest
	SimulationWindow int // sorteos contra los que se simula
	Pricing          domain.Pricing
	Classifier       classifier.Options
	RankWorkers      int
}

// LoadReport describe de dónde salió la secuencia cargada.
type LoadReport struct {
	Draws       int
	Skipped     int   // filas descartadas del archivo
	FromStore   int   // sorteos que solo estaban en la base local
	LatestAdded bool  // el último resultado de la API era nuevo
	SourceErr   error // el archivo no se pudo leer (se siguió con la base)
	LatestErr   error // la API no respondió (se siguió sin el último)
}

// Service es el orquestador de la sesión. No es seguro para uso concurrente.
type Service struct {
	cfg      Config
	source   ports.DrawSource
	store    ports.DrawStore
	latest   ports.LatestDrawProvider
	reporter ports.Reporter
	analyzer *analysis.Analyzer
	gen      *generator.Generator
	scorer   ports.Scorer
	state    State
}

// New crea un Service. store, latest y reporter pueden ser nil.
func New(
	cfg Config,
	source ports.DrawSource,
	store ports.DrawStore,
	latest ports.LatestDrawProvider,
	reporter ports.Reporter,
) *Service {
	if cfg.TopN <= 0 {
		cfg.TopN = analysis.DefaultTopN
	}
	return &Service{
		cfg:      cfg,
		source:   source,
		store:    store,
		latest:   latest,
		reporter: reporter,
		analyzer: analysis.NewAnalyzer(),
		gen:      generator.New(cfg.Generator),
		state:    State{Filter: domain.DefaultFilterConfig()},
	}
}

// State devuelve una copia del estado actual.
func (s *Service) State() State { return s.state }

// Pricing devuelve la tabla de preços usada en Simulate.
func (s *Service) Pricing() domain.Pricing { return s.cfg.Pricing }

// SetScorer reemplaza el clasificador (por defecto se entrena uno al primer uso).
func (s *Service) SetScorer(sc ports.Scorer) { s.scorer = sc }

// Load arma la secuencia: archivo + base local + último resultado de la API.
// Falla solo si no queda ningún sorteo.
func (s *Service) Load(ctx context.Context) (LoadReport, error) {
	var report LoadReport

	draws, skipped, err := s.source.LoadDraws(ctx)
	if err != nil {
		report.SourceErr = err
		slog.Warn("history file unavailable, using local store", "err", err)
	}
	report.Skipped = skipped

	fromFile, _ := domain.NewSequence(draws)
	if s.store != nil {
		stored, err := s.store.LoadDraws(ctx)
		if err != nil {
			slog.Warn("local store unavailable", "err", err)
		}
		for _, d := range stored {
			if d.Validate() == nil && !fromFile.Has(d.Contest) {
				report.FromStore++
			}
		}
		draws = append(draws, stored...)
	}

	seq, _ := domain.NewSequence(draws)

	if s.latest != nil {
		d, err := s.latest.FetchLatest(ctx)
		if err != nil {
			report.LatestErr = err
			metrics.LatestFetchFailures.Inc()
			slog.Warn("latest draw unavailable, continuing with history", "err", err)
		} else {
			seq, report.LatestAdded = seq.WithLatest(d)
		}
	}

	if seq.Len() == 0 {
		return report, fmt.Errorf("session.Load: %w", domain.ErrNoHistory)
	}

	if s.store != nil {
		if err := s.store.SaveDraws(ctx, seq.Draws()); err != nil {
			slog.Warn("could not persist draws", "err", err)
		}
	}

	s.state.Sequence = seq
	s.state.LastBacktest = nil
	report.Draws = seq.Len()
	metrics.DrawsLoaded.Set(float64(seq.Len()))

	last, _ := seq.Last()
	slog.Info("history loaded",
		"draws", report.Draws,
		"skipped", report.Skipped,
		"from_store", report.FromStore,
		"latest_added", report.LatestAdded,
		"last_contest", last.Contest,
	)
	return report, nil
}

// SetUniverse fija el universo de generación.
func (s *Service) SetUniverse(u domain.NumberSet) { s.state.Universe = u }

// SetFilter valida y fija los filtros.
func (s *Service) SetFilter(f domain.FilterConfig) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("session.SetFilter: %w", err)
	}
	s.state.Filter = f
	s.state.LastBacktest = nil
	return nil
}

// LoadStrategy aplica un código de estrategia guardado.
func (s *Service) LoadStrategy(code string) error {
	st, universe, err := domain.DecodeStrategy(code)
	if err != nil {
		return err
	}
	s.state.Universe = universe
	s.state.Filter = st.Filter
	s.state.LastBacktest = nil
	return nil
}

// SaveStrategy devuelve el código de la estrategia actual.
func (s *Service) SaveStrategy() (string, error) {
	return s.state.Strategy().Encode()
}

// Stats devuelve frecuencia (ventana reciente) y atraso (secuencia completa).
func (s *Service) Stats() []analysis.NumberStat {
	seq := s.state.Sequence
	recent := seq
	if s.cfg.StatsWindow > 0 {
		recent = seq.Tail(s.cfg.StatsWindow)
	}
	return s.analyzer.Stats(recent.Sets(), seq.Sets())
}

// Patterns devuelve los pares y trios más frecuentes de toda la secuencia.
func (s *Service) Patterns() (pairs, trios []analysis.Combination, err error) {
	sets := s.state.Sequence.Sets()
	if pairs, err = s.analyzer.TopCombinations(sets, 2, s.cfg.TopN); err != nil {
		return nil, nil, err
	}
	if trios, err = s.analyzer.TopCombinations(sets, 3, s.cfg.TopN); err != nil {
		return nil, nil, err
	}
	return pairs, trios, nil
}

// Suggest calcula el universo recomendado y, si apply, lo fija como universo.
func (s *Service) Suggest(apply bool) analysis.Recommendation {
	rec := s.analyzer.Recommend(s.state.Sequence, s.cfg.Recommend)
	if apply {
		s.state.Universe = rec.Universe
	}
	return rec
}

// Heatmap devuelve la métrica pedida sobre el volante.
func (s *Service) Heatmap(metric analysis.HeatMetric) (analysis.Board, error) {
	seq := s.state.Sequence
	switch metric {
	case analysis.MetricDelay:
		d := s.analyzer.Delay(seq.Sets())
		return analysis.BoardOf(d.Get), nil
	case analysis.MetricRecent:
		window := s.cfg.HeatmapWindow
		if window <= 0 {
			window = analysis.DefaultHeatWindow
		}
		f := s.analyzer.Frequency(seq.Tail(window).Sets())
		return analysis.BoardOf(f.Get), nil
	case analysis.MetricFrequency:
		if s.cfg.StatsWindow > 0 {
			seq = seq.Tail(s.cfg.StatsWindow)
		}
		f := s.analyzer.Frequency(seq.Sets())
		return analysis.BoardOf(f.Get), nil
	default:
		return analysis.Board{}, fmt.Errorf("session.Heatmap: %w %q", analysis.ErrUnknownMetric, metric)
	}
}

// Generate genera los jogos del universo actual contra el último sorteo.
// Si el universo no fue fijado se usa el sugerido.
func (s *Service) Generate(ctx context.Context) (generator.Result, error) {
	prev, ok := s.state.Sequence.Last()
	if !ok {
		return generator.Result{}, fmt.Errorf("session.Generate: %w", domain.ErrNoHistory)
	}
	if s.state.Universe == 0 {
		s.Suggest(true)
	}

	start := time.Now()
	res, err := s.gen.Generate(ctx, s.state.Universe, prev.Numbers, s.state.Filter)
	elapsed := time.Since(start)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return res, err
	}

	metrics.GenerationsTotal.WithLabelValues("filtered").Inc()
	metrics.CandidatesConsidered.Add(float64(res.Considered))
	metrics.TicketsKept.Add(float64(res.Kept()))
	metrics.GenerationDuration.Observe(elapsed.Seconds())

	s.state.LastTickets = res.Tickets
	summary := domain.GenerationSummary{
		Universe:   s.state.Universe,
		Previous:   prev,
		Total:      res.Total,
		Considered: res.Considered,
		Kept:       res.Kept(),
		Truncated:  res.Truncated,
		Duration:   elapsed.Round(time.Millisecond),
	}
	if s.reporter != nil {
		if rerr := s.reporter.ReportTickets(ctx, summary, res.Tickets); rerr != nil {
			slog.Warn("reporter error", "err", rerr)
		}
	}
	s.saveRun(ctx, domain.RunGenerate, int(res.Considered), res.Kept(),
		fmt.Sprintf("universe=%s", s.state.Universe.Format()), "")
	return res, err
}

// Backtest mide la estrategia sobre los últimos cfg.BacktestWindow sorteos.
func (s *Service) Backtest(ctx context.Context) backtest.Result {
	res := backtest.Run(s.state.Sequence, s.cfg.BacktestWindow, s.state.Filter)
	s.state.LastBacktest = &res
	metrics.BacktestHitRate.Set(res.HitRate())
	s.saveRun(ctx, domain.RunBacktest, res.Tested, res.Hits(), "",
		fmt.Sprintf("%.1f%%", res.Percent()))
	return res
}

// Elite genera los jogos élite a partir de los concursos alineados.
// Corre el backtest si todavía no se hizo con los filtros actuales.
func (s *Service) Elite(ctx context.Context) (generator.EliteResult, error) {
	if s.state.LastBacktest == nil {
		s.Backtest(ctx)
	}
	res, err := s.gen.Elite(ctx, s.analyzer, s.state.Aligned(), s.cfg.Elite)
	if err != nil {
		return generator.EliteResult{}, fmt.Errorf("session.Elite: %w", err)
	}

	tickets := make([]domain.Ticket, len(res.Tickets))
	for i, st := range res.Tickets {
		tickets[i] = st.Ticket
	}
	s.state.LastTickets = tickets
	metrics.GenerationsTotal.WithLabelValues("elite").Inc()
	s.saveRun(ctx, domain.RunElite, int(generator.Combinations(res.Universe.Len(), domain.DrawSize)), len(tickets),
		fmt.Sprintf("universe=%s", res.Universe.Format()), "")
	return res, nil
}

// Simulate confiere los jogos (los últimos generados si tickets es nil)
// contra los últimos cfg.SimulationWindow sorteos.
func (s *Service) Simulate(ctx context.Context, tickets []domain.Ticket) domain.PayoutReport {
	if tickets == nil {
		tickets = s.state.LastTickets
	}
	window := s.state.Sequence.Tail(s.cfg.SimulationWindow).Draws()
	report := backtest.Settle(tickets, window, s.cfg.Pricing)
	s.saveRun(ctx, domain.RunSimulate, report.Tickets*report.Draws, report.Tally.Winners(), "",
		"net="+report.Net.StringFixed(2))
	return report
}

// Check confiere los jogos (los últimos generados si tickets es nil) contra result.
func (s *Service) Check(ctx context.Context, tickets []domain.Ticket, result domain.NumberSet) (backtest.CheckResult, error) {
	if tickets == nil {
		tickets = s.state.LastTickets
	}
	res, err := backtest.Check(tickets, result)
	if err != nil {
		return res, err
	}
	s.saveRun(ctx, domain.RunCheck, len(tickets), res.Tally.Winners(), "result="+result.Format(), "")
	return res, nil
}

// Score ordena los jogos por plausibilidad. El clasificador se entrena una
// vez por sesión con toda la secuencia.
func (s *Service) Score(ctx context.Context, tickets []domain.Ticket) ([]classifier.Ranked, error) {
	if tickets == nil {
		tickets = s.state.LastTickets
	}
	if s.scorer == nil {
		m, err := classifier.Train(s.state.Sequence.Sets(), s.cfg.Classifier)
		if err != nil {
			return nil, fmt.Errorf("session.Score: %w", err)
		}
		s.scorer = m
	}
	return classifier.Rank(ctx, s.scorer, tickets, s.cfg.RankWorkers)
}

// saveRun registra la acción en la base local. Un fallo solo se loguea.
func (s *Service) saveRun(ctx context.Context, kind domain.RunKind, considered, kept int, params, summary string) {
	if s.store == nil {
		return
	}
	last, _ := s.state.Sequence.Last()
	if params == "" {
		params = filterParams(s.state.Filter)
	}
	run := domain.Run{
		ID:          uuid.NewString(),
		Kind:        kind,
		CreatedAt:   time.Now().UTC(),
		LastContest: last.Contest,
		Params:      params,
		Considered:  considered,
		Kept:        kept,
		Summary:     summary,
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		slog.Warn("could not save run", "kind", kind, "err", err)
	}
}

func filterParams(f domain.FilterConfig) string {
	p := fmt.Sprintf("repeated=%d-%d odd=%d-%d", f.Repeated.Min, f.Repeated.Max, f.Odd.Min, f.Odd.Max)
	if f.Frame != nil {
		p += fmt.Sprintf(" frame=%d-%d", f.Frame.Min, f.Frame.Max)
	}
	return p
}
