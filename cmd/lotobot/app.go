package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/lotobot/internal/adapters/history"
	"github.com/alejandrodnm/lotobot/internal/adapters/notify"
	"github.com/alejandrodnm/lotobot/internal/adapters/storage"
	"github.com/alejandrodnm/lotobot/internal/analysis"
	"github.com/alejandrodnm/lotobot/internal/api"
	"github.com/alejandrodnm/lotobot/internal/domain"
	"github.com/alejandrodnm/lotobot/internal/session"
)

// generatedTickets es el valor de -simulate/-check/-score que usa los
// jogos generados en esta misma ejecución.
const generatedTickets = "-"

type actions struct {
	universe     string
	loadStrategy string
	saveStrategy string

	analyze  bool
	suggest  bool
	heatmap  string
	backtest bool
	elite    bool
	generate bool
	simulate string
	check    string
	result   string
	score    string
	runs     int
	export   string

	serve       bool
	addr        string
	corsOrigins []string
	timeout     time.Duration
}

// explicit indica si se pidió alguna acción; sin ninguna se genera.
func (a actions) explicit() bool {
	return a.analyze || a.suggest || a.heatmap != "" || a.backtest || a.elite ||
		a.simulate != "" || a.check != "" || a.score != "" || a.runs > 0 ||
		a.export != "" || a.serve || a.saveStrategy != ""
}

func (a actions) usesGenerated() bool {
	return a.simulate == generatedTickets || a.check == generatedTickets || a.score == generatedTickets
}

type app struct {
	svc     *session.Service
	console *notify.Console
	store   storage.Store
}

// run ejecuta las acciones en orden fijo y devuelve el exit code.
func (a *app) run(ctx context.Context, act actions) int {
	if err := a.prepare(act); err != nil {
		slog.Error("invalid input", "err", err)
		return 2
	}

	report, err := a.svc.Load(ctx)
	if err != nil {
		slog.Error("no history to work with", "err", err)
		return 1
	}
	if report.Skipped > 0 {
		slog.Warn("history rows discarded", "count", report.Skipped)
	}

	steps := []struct {
		enabled bool
		name    string
		fn      func(context.Context, actions) error
	}{
		{act.export != "", "export", a.export},
		{act.runs > 0, "runs", a.recentRuns},
		{act.analyze, "analyze", a.analyze},
		{act.heatmap != "", "heatmap", a.heatmap},
		{act.suggest, "suggest", a.suggest},
		{act.backtest, "backtest", a.backtest},
		{act.elite, "elite", a.elite},
		{act.generate || !act.explicit() || (act.usesGenerated() && !act.elite), "generate", a.generate},
		{act.simulate != "", "simulate", a.simulate},
		{act.check != "", "check", a.check},
		{act.score != "", "score", a.score},
		{act.saveStrategy != "", "save-strategy", a.saveStrategy},
		{act.serve, "serve", a.serve},
	}

	for _, s := range steps {
		if !s.enabled {
			continue
		}
		if err := s.fn(ctx, act); err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Warn("interrupted", "step", s.name)
				return 130
			}
			slog.Error("action failed", "step", s.name, "err", err)
			return 1
		}
	}
	return 0
}

// prepare aplica estrategia y universo antes de cargar el histórico.
func (a *app) prepare(act actions) error {
	if act.loadStrategy != "" {
		code, err := os.ReadFile(act.loadStrategy)
		if err != nil {
			return fmt.Errorf("read strategy: %w", err)
		}
		if err := a.svc.LoadStrategy(string(code)); err != nil {
			return err
		}
		slog.Info("strategy loaded", "path", act.loadStrategy)
	}
	if act.universe != "" {
		u, err := domain.ParseUniverse(act.universe)
		if err != nil {
			return err
		}
		a.svc.SetUniverse(u)
	}
	if act.check != "" && act.result == "" {
		return errors.New("-check needs -result")
	}
	return nil
}

func (a *app) export(_ context.Context, act actions) error {
	f, err := os.Create(act.export)
	if err != nil {
		return err
	}
	if err := history.WriteCSV(f, a.svc.State().Sequence.Draws()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("history exported", "path", act.export, "draws", a.svc.State().Sequence.Len())
	return nil
}

func (a *app) recentRuns(ctx context.Context, act actions) error {
	if a.store == nil {
		return errors.New("-runs needs the local database")
	}
	runs, err := a.store.RecentRuns(ctx, act.runs)
	if err != nil {
		return err
	}
	a.console.PrintRuns(runs)
	return nil
}

func (a *app) analyze(context.Context, actions) error {
	a.console.PrintStats(a.svc.Stats(), 10)
	pairs, trios, err := a.svc.Patterns()
	if err != nil {
		return err
	}
	a.console.PrintPatterns(pairs, trios)
	return nil
}

func (a *app) heatmap(_ context.Context, act actions) error {
	metric, err := analysis.ParseHeatMetric(act.heatmap)
	if err != nil {
		return err
	}
	board, err := a.svc.Heatmap(metric)
	if err != nil {
		return err
	}
	a.console.PrintHeatmap(strings.ToUpper(string(metric)), board)
	return nil
}

func (a *app) suggest(context.Context, actions) error {
	a.console.PrintRecommendation(a.svc.Suggest(true))
	return nil
}

func (a *app) backtest(ctx context.Context, _ actions) error {
	res := a.svc.Backtest(ctx)
	a.console.PrintBacktest(res, a.svc.State().Filter)
	return nil
}

func (a *app) elite(ctx context.Context, _ actions) error {
	res, err := a.svc.Elite(ctx)
	if err != nil {
		return err
	}
	a.console.PrintElite(res)
	return nil
}

func (a *app) generate(ctx context.Context, _ actions) error {
	res, err := a.svc.Generate(ctx)
	if err != nil {
		return err
	}
	if res.Truncated {
		slog.Warn("generation truncated by max_tickets", "kept", res.Kept(), "total", res.Total)
	}
	return nil
}

func (a *app) simulate(ctx context.Context, act actions) error {
	tickets, err := readTickets(act.simulate)
	if err != nil {
		return err
	}
	report := a.svc.Simulate(ctx, tickets)
	a.console.PrintPayout(report, a.svc.Pricing())
	return nil
}

func (a *app) check(ctx context.Context, act actions) error {
	tickets, err := readTickets(act.check)
	if err != nil {
		return err
	}
	result, err := domain.ParseResult(act.result)
	if err != nil {
		return err
	}
	res, err := a.svc.Check(ctx, tickets, result)
	if err != nil {
		return err
	}
	a.console.PrintCheck(res)
	return nil
}

func (a *app) score(ctx context.Context, act actions) error {
	tickets, err := readTickets(act.score)
	if err != nil {
		return err
	}
	ranked, err := a.svc.Score(ctx, tickets)
	if err != nil {
		return err
	}
	a.console.PrintScores(ranked)
	return nil
}

func (a *app) saveStrategy(_ context.Context, act actions) error {
	code, err := a.svc.SaveStrategy()
	if err != nil {
		return err
	}
	if err := os.WriteFile(act.saveStrategy, []byte(code+"\n"), 0o644); err != nil {
		return err
	}
	a.console.PrintStrategy(code)
	slog.Info("strategy saved", "path", act.saveStrategy)
	return nil
}

func (a *app) serve(ctx context.Context, act actions) error {
	srv := api.NewServer(a.svc)
	return api.ListenAndServe(ctx, act.addr, srv.Router(act.corsOrigins, act.timeout))
}

// readTickets lee un jogo por línea. "-" devuelve nil: la sesión usa los
// jogos generados en esta ejecución.
func readTickets(path string) ([]domain.Ticket, error) {
	if path == generatedTickets {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tickets: %w", err)
	}
	tickets, skipped := domain.ParseTickets(string(data))
	if skipped > 0 {
		slog.Warn("invalid ticket lines discarded", "path", path, "count", skipped)
	}
	if len(tickets) == 0 {
		return nil, fmt.Errorf("read tickets %q: %w", path, domain.ErrInvalidTicket)
	}
	return tickets, nil
}
