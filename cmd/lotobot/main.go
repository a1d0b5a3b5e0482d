package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/lotobot/config"
	"github.com/alejandrodnm/lotobot/internal/adapters/caixa"
	"github.com/alejandrodnm/lotobot/internal/adapters/history"
	"github.com/alejandrodnm/lotobot/internal/adapters/notify"
	"github.com/alejandrodnm/lotobot/internal/adapters/storage"
	"github.com/alejandrodnm/lotobot/internal/metrics"
	"github.com/alejandrodnm/lotobot/internal/ports"
	"github.com/alejandrodnm/lotobot/internal/session"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	historyPath := flag.String("history", "", "results spreadsheet (.xlsx or .csv), overrides config")
	offline := flag.Bool("offline", false, "do not query the latest result API")
	noStore := flag.Bool("no-store", false, "do not open the local database")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")

	universe := flag.String("universe", "", "universe of numbers to combine, e.g. \"1,2,3,...\"")
	loadStrategy := flag.String("load-strategy", "", "load a strategy code from file")
	saveStrategy := flag.String("save-strategy", "", "write the current strategy code to file")

	analyze := flag.Bool("analyze", false, "print frequency, delay and top pairs/trios")
	suggest := flag.Bool("suggest", false, "print the suggested universe and use it")
	heatmap := flag.String("heatmap", "", "print the board heatmap: frequency|recent|delay")
	runBacktest := flag.Bool("backtest", false, "measure the strategy against the last draws")
	elite := flag.Bool("elite", false, "generate elite tickets from the backtest's aligned draws")
	generate := flag.Bool("generate", false, "generate tickets (default when no other action is given)")
	simulate := flag.String("simulate", "", "simulate cost/benefit of tickets in file (\"-\" = generated tickets)")
	check := flag.String("check", "", "check tickets in file (\"-\" = generated tickets) against -result")
	result := flag.String("result", "", "draw result for -check, e.g. \"1 2 3 ...\"")
	score := flag.String("score", "", "rank tickets in file (\"-\" = generated tickets) by plausibility")
	runs := flag.Int("runs", 0, "print the last N runs recorded in the local database")
	export := flag.String("export", "", "write the loaded history to a CSV file")
	serve := flag.Bool("serve", false, "serve the session over HTTP")
	metricsFile := flag.String("metrics-file", "", "write Prometheus metrics to file on exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *historyPath != "" {
		cfg.History.Path = *historyPath
	}
	if *offline {
		cfg.API.Disabled = true
	}
	setupLogger(cfg.Log)

	slog.Info("lotobot starting",
		"config", *configPath,
		"history", cfg.History.Path,
		"offline", cfg.API.Disabled,
		"serve", *serve,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store storage.Store
	if !*noStore {
		store, err = storage.Open(ctx, cfg.Storage.DSN)
		if err != nil {
			slog.Warn("local database unavailable, continuing without it", "err", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	var latest ports.LatestDrawProvider
	if !cfg.API.Disabled {
		latest = caixa.NewClient(cfg.API.CaixaBase,
			caixa.WithTimeout(cfg.APITimeout()),
			caixa.WithRateLimit(rate.Limit(cfg.API.RatePerSecond)),
		)
	}

	console := notify.NewConsole(cfg.Generator.ShowMax)
	reporters := notify.Fanout{console}
	if cfg.Telegram.Enabled {
		tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.Endpoint,
			cfg.Telegram.MaxRetries, cfg.RetryDelay())
		if err != nil {
			slog.Warn("telegram disabled", "err", err)
		} else {
			reporters = append(reporters, tg)
		}
	}

	var drawStore ports.DrawStore
	if store != nil {
		drawStore = store
	}
	svc := session.New(cfg.Session(), history.NewFileSource(cfg.History.Path), drawStore, latest, reporters)
	if err := svc.SetFilter(cfg.Strategy); err != nil {
		slog.Error("invalid strategy in config", "err", err)
		os.Exit(1)
	}

	a := &app{
		svc:     svc,
		console: console,
		store:   store,
	}

	code := a.run(ctx, actions{
		universe:     *universe,
		loadStrategy: *loadStrategy,
		saveStrategy: *saveStrategy,
		analyze:      *analyze,
		suggest:      *suggest,
		heatmap:      *heatmap,
		backtest:     *runBacktest,
		elite:        *elite,
		generate:     *generate,
		simulate:     *simulate,
		check:        *check,
		result:       *result,
		score:        *score,
		runs:         *runs,
		export:       *export,
		serve:        *serve,
		addr:         cfg.Server.Addr,
		corsOrigins:  cfg.Server.CORSOrigins,
		timeout:      cfg.RequestTimeout(),
	})

	if *metricsFile != "" {
		if err := metrics.WriteTextfile(*metricsFile); err != nil {
			slog.Warn("could not write metrics file", "err", err, "path", *metricsFile)
		}
	}

	if code != 0 {
		os.Exit(code)
	}
	slog.Info("lotobot stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
