// Package metrics expone la instrumentación Prometheus de lotobot.
// En modo CLI se vuelca a un archivo para el textfile collector de
// node_exporter; en modo servidor se sirve en /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GenerationsTotal cuenta generaciones por tipo (filtered, elite).
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lotobot_generations_total",
		Help: "Total ticket generations",
	}, []string{"kind"})

	// CandidatesConsidered cuenta combinaciones evaluadas por el generador.
	CandidatesConsidered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lotobot_candidates_considered_total",
		Help: "Combinations evaluated by the generator",
	})

	// TicketsKept cuenta jogos que pasaron los filtros.
	TicketsKept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lotobot_tickets_kept_total",
		Help: "Tickets that passed every filter",
	})

	// GenerationDuration mide la duración de cada generación.
	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lotobot_generation_duration_seconds",
		Help:    "Generation duration in seconds",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	// DrawsLoaded es el tamaño de la secuencia cargada.
	DrawsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lotobot_draws_loaded",
		Help: "Draws in the loaded sequence",
	})

	// LatestFetchFailures cuenta fallos al traer el último resultado.
	LatestFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lotobot_latest_fetch_failures_total",
		Help: "Failed fetches of the latest published draw",
	})

	// BacktestHitRate es la última tasa de alineación medida.
	BacktestHitRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lotobot_backtest_hit_rate",
		Help: "Hit rate of the last backtest (0..1)",
	})

	// HTTPRequestsTotal cuenta requests por método, ruta y status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lotobot_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration mide la duración por método y ruta.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lotobot_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0},
	}, []string{"method", "path"})
)

// Handler devuelve el handler HTTP de Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}

// WriteTextfile vuelca todas las métricas registradas a path.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// Middleware registra métricas por request. Usa el patrón de ruta de chi
// como label para no explotar la cardinalidad.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// statusWriter captura el status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
