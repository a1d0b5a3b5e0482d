package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/lotobot/internal/analysis"
	"github.com/alejandrodnm/lotobot/internal/classifier"
	"github.com/alejandrodnm/lotobot/internal/domain"
	"github.com/alejandrodnm/lotobot/internal/generator"
	"github.com/alejandrodnm/lotobot/internal/session"
)

// Config es la configuración completa de lotobot.
type Config struct {
	History    HistoryConfig         `yaml:"history"`
	API        APIConfig             `yaml:"api"`
	Strategy   domain.FilterConfig   `yaml:"strategy"`
	Generator  GeneratorConfig       `yaml:"generator"`
	Elite      generator.EliteConfig `yaml:"elite"`
	Analysis   AnalysisConfig        `yaml:"analysis"`
	Pricing    PricingConfig         `yaml:"pricing"`
	Classifier classifier.Options    `yaml:"classifier"`
	Storage    StorageConfig         `yaml:"storage"`
	Telegram   TelegramConfig        `yaml:"telegram"`
	Server     ServerConfig          `yaml:"server"`
	Log        LogConfig             `yaml:"log"`
}

// HistoryConfig indica dónde está la planilla de resultados.
type HistoryConfig struct {
	Path string `yaml:"path"` // .xlsx o .csv
}

// APIConfig controla el cliente del último resultado.
type APIConfig struct {
	CaixaBase      string  `yaml:"caixa_base"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	RatePerSecond  float64 `yaml:"rate_per_second"`
	Disabled       bool    `yaml:"disabled"` // no consultar la API (modo offline)
}

// GeneratorConfig limita la generación.
type GeneratorConfig struct {
	MaxTickets int `yaml:"max_tickets"` // 0 = sin límite
	ShowMax    int `yaml:"show_max"`    // jogos impresos en consola
	Workers    int `yaml:"workers"`     // workers del ranking (0 = NumCPU)
}

// AnalysisConfig agrupa las ventanas de análisis.
type AnalysisConfig struct {
	StatsWindow      int `yaml:"stats_window"`
	RecentWindow     int `yaml:"recent_window"`
	HeatmapWindow    int `yaml:"heatmap_window"`
	UniverseSize     int `yaml:"universe_size"`
	TopN             int `yaml:"top_n"`
	BacktestWindow   int `yaml:"backtest_window"`
	SimulationWindow int `yaml:"simulation_window"`
}

// PricingConfig es la tabla de preços en reais.
type PricingConfig struct {
	TicketCost string         `yaml:"ticket_cost"`
	Prizes     map[int]string `yaml:"prizes"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta SQLite, ":memory:" o postgres://...
}

// TelegramConfig activa el envío de jogos por Telegram.
type TelegramConfig struct {
	Enabled      bool   `yaml:"enabled"`
	BotToken     string `yaml:"bot_token"`
	ChatID       string `yaml:"chat_id"`
	Endpoint     string `yaml:"endpoint"` // vacío = api.telegram.org
	MaxRetries   int    `yaml:"max_retries"`
	RetryDelayMs int    `yaml:"retry_delay_ms"`
}

// ServerConfig controla el modo -serve.
type ServerConfig struct {
	Addr                  string   `yaml:"addr"`
	CORSOrigins           []string `yaml:"cors_origins"`
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
// Si path no existe se usan solo los defaults y el entorno.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate comprueba los valores que no tienen un default razonable.
func (c *Config) Validate() error {
	if err := c.Strategy.Validate(); err != nil {
		return fmt.Errorf("config: strategy: %w", err)
	}
	if _, err := c.pricing(); err != nil {
		return err
	}
	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.ChatID == "") {
		return fmt.Errorf("config: telegram enabled but bot_token or chat_id missing")
	}
	return nil
}

// Session devuelve la configuración de la sesión.
func (c *Config) Session() session.Config {
	pricing, _ := c.pricing()
	return session.Config{
		Generator: generator.Config{MaxTickets: c.Generator.MaxTickets},
		Elite:     c.Elite,
		Recommend: analysis.RecommendConfig{
			RecentWindow: c.Analysis.RecentWindow,
			Size:         c.Analysis.UniverseSize,
		},
		StatsWindow:      c.Analysis.StatsWindow,
		HeatmapWindow:    c.Analysis.HeatmapWindow,
		TopN:             c.Analysis.TopN,
		BacktestWindow:   c.Analysis.BacktestWindow,
		SimulationWindow: c.Analysis.SimulationWindow,
		Pricing:          pricing,
		Classifier:       c.Classifier,
		RankWorkers:      c.Generator.Workers,
	}
}

// APITimeout devuelve el timeout del cliente HTTP.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RetryDelay devuelve la base del backoff de Telegram.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Telegram.RetryDelayMs) * time.Millisecond
}

// RequestTimeout devuelve el timeout por request del modo -serve.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

func (c *Config) pricing() (domain.Pricing, error) {
	cost, err := decimal.NewFromString(c.Pricing.TicketCost)
	if err != nil {
		return domain.Pricing{}, fmt.Errorf("config: pricing.ticket_cost %q: %w", c.Pricing.TicketCost, err)
	}
	p := domain.Pricing{TicketCost: cost, Prizes: make(map[int]decimal.Decimal, len(c.Pricing.Prizes))}
	for hits, v := range c.Pricing.Prizes {
		if hits < domain.MinPrizeHits || hits > domain.DrawSize {
			return domain.Pricing{}, fmt.Errorf("config: pricing.prizes: %d hits out of range", hits)
		}
		prize, err := decimal.NewFromString(v)
		if err != nil {
			return domain.Pricing{}, fmt.Errorf("config: pricing.prizes[%d] %q: %w", hits, v, err)
		}
		p.Prizes[hits] = prize
	}
	return p, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("LOTOBOT_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("LOTOBOT_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("LOTOBOT_OFFLINE"); v != "" {
		cfg.API.Disabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("LOTOBOT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.History.Path == "" {
		cfg.History.Path = "Lotofacil.xlsx"
	}
	if cfg.API.CaixaBase == "" {
		cfg.API.CaixaBase = "https://servicebus2.caixa.gov.br/portaldeloterias/api"
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 10
	}
	if cfg.API.RatePerSecond <= 0 {
		cfg.API.RatePerSecond = 2
	}
	if cfg.Strategy == (domain.FilterConfig{}) {
		cfg.Strategy = domain.DefaultFilterConfig()
	}
	if cfg.Generator.ShowMax <= 0 {
		cfg.Generator.ShowMax = 20
	}
	if cfg.Elite == (generator.EliteConfig{}) {
		cfg.Elite = generator.DefaultEliteConfig()
	}

	def := analysis.DefaultRecommendConfig()
	if cfg.Analysis.RecentWindow <= 0 {
		cfg.Analysis.RecentWindow = def.RecentWindow
	}
	if cfg.Analysis.HeatmapWindow <= 0 {
		cfg.Analysis.HeatmapWindow = analysis.DefaultHeatWindow
	}
	if cfg.Analysis.UniverseSize <= 0 {
		cfg.Analysis.UniverseSize = def.Size
	}
	if cfg.Analysis.TopN <= 0 {
		cfg.Analysis.TopN = analysis.DefaultTopN
	}
	if cfg.Analysis.BacktestWindow <= 0 {
		cfg.Analysis.BacktestWindow = 100
	}
	if cfg.Analysis.SimulationWindow <= 0 {
		cfg.Analysis.SimulationWindow = 100
	}

	if cfg.Pricing.TicketCost == "" {
		cfg.Pricing.TicketCost = "3.00"
	}
	if len(cfg.Pricing.Prizes) == 0 {
		cfg.Pricing.Prizes = map[int]string{11: "6.00", 12: "12.00", 13: "30.00"}
	}

	opts := classifier.DefaultOptions()
	if cfg.Classifier.Seed == 0 {
		cfg.Classifier.Seed = opts.Seed
	}
	if cfg.Classifier.Epochs <= 0 {
		cfg.Classifier.Epochs = opts.Epochs
	}
	if cfg.Classifier.LearningRate <= 0 {
		cfg.Classifier.LearningRate = opts.LearningRate
	}

	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "lotobot.db"
	}
	if cfg.Telegram.MaxRetries <= 0 {
		cfg.Telegram.MaxRetries = 3
	}
	if cfg.Telegram.RetryDelayMs <= 0 {
		cfg.Telegram.RetryDelayMs = 1000
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.RequestTimeoutSeconds <= 0 {
		cfg.Server.RequestTimeoutSeconds = 60
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
