// Package api expone la sesión por HTTP (modo -serve). Cada request toma el
// lock de la sesión: el núcleo es single-threaded.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/alejandrodnm/lotobot/internal/metrics"
	"github.com/alejandrodnm/lotobot/internal/session"
)

const shutdownTimeout = 10 * time.Second

// Server serializa el acceso a una sesión.
type Server struct {
	mu  sync.Mutex
	svc *session.Service
}

// NewServer crea un Server sobre una sesión ya cargada.
func NewServer(svc *session.Service) *Server {
	return &Server{svc: svc}
}

// Router arma el router chi con middleware, CORS y métricas.
func (s *Server) Router(corsOrigins []string, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(metrics.Middleware)

	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", s.stats)
		r.Get("/patterns", s.patterns)
		r.Get("/heatmap", s.heatmap)
		r.Get("/recommend", s.recommend)

		r.Get("/strategy", s.getStrategy)
		r.Post("/strategy", s.putStrategy)

		r.Post("/generate", s.generate)
		r.Post("/backtest", s.backtest)
		r.Post("/elite", s.elite)
		r.Post("/simulate", s.simulate)
		r.Post("/check", s.check)
		r.Post("/score", s.score)
	})

	return r
}

// ListenAndServe sirve h en addr hasta que ctx se cancela y luego hace
// shutdown ordenado.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api.ListenAndServe: shutdown: %w", err)
	}
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
