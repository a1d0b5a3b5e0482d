// Package caixa consulta el último resultado de la Lotofácil en el portal de
// loterias de la Caixa.
package caixa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

const (
	defaultBaseURL = "https://servicebus2.caixa.gov.br/portaldeloterias/api"
	lotofacilPath  = "/lotofacil"

	// El portal no documenta límites; 1 req/s alcanza para un resultado por corrida.
	ratePerSec = 1

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
	maxRetryAfter = 30 * time.Second

	// El portal rechaza clientes sin User-Agent de navegador.
	userAgent = "Mozilla/5.0"
)

// Client es el HTTP client del portal con rate limiting y retries.
type Client struct {
	http      *http.Client
	baseURL   string
	limiter   *rate.Limiter
	retryWait time.Duration
}

// Option modifica un Client.
type Option func(*Client)

// WithTimeout cambia el timeout por request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRetryWait cambia la espera base entre reintentos.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) { c.retryWait = d }
}

// WithRateLimit cambia el límite de requests por segundo.
func WithRateLimit(r rate.Limit) Option {
	return func(c *Client) { c.limiter.SetLimit(r) }
}

// NewClient crea un Client. Si baseURL está vacío usa el portal de producción.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		http:      &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		limiter:   rate.NewLimiter(ratePerSec, 1),
		retryWait: baseRetryWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchLatest devuelve el último sorteo publicado.
func (c *Client) FetchLatest(ctx context.Context) (domain.Draw, error) {
	return c.fetch(ctx, c.baseURL+lotofacilPath)
}

// FetchContest devuelve un concurso concreto.
func (c *Client) FetchContest(ctx context.Context, contest int) (domain.Draw, error) {
	return c.fetch(ctx, fmt.Sprintf("%s%s/%d", c.baseURL, lotofacilPath, contest))
}

func (c *Client) fetch(ctx context.Context, url string) (domain.Draw, error) {
	var resp resultResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return domain.Draw{}, fmt.Errorf("caixa.fetch: %w", err)
	}
	d, err := mapResult(resp)
	if err != nil {
		return domain.Draw{}, fmt.Errorf("caixa.fetch: %w", err)
	}
	slog.Debug("caixa result fetched", "contest", d.Contest, "accumulated", resp.Acumulado)
	return d, nil
}

// get hace un GET con rate limiting y retries.
func (c *Client) get(ctx context.Context, url string, out any) error {
	return c.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)
		return c.http.Do(req)
	}, out)
}

// doWithRetry reintenta errores de red, 429 y 5xx. En 429 respeta Retry-After
// (acotado a maxRetryAfter); si no viene, usa backoff exponencial.
// Tras el último intento no espera.
func (c *Client) doWithRetry(ctx context.Context, fn func() (*http.Response, error), out any) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, attempt-1, lastErr); err != nil {
				return err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			slog.Warn("rate limited by caixa portal", "attempt", attempt+1, "retry_after", resp.Header.Get("Retry-After"))
			lastErr = &rateLimitedError{wait: retryAfter(resp.Header.Get("Retry-After"), time.Now())}
			continue
		case resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("server error %d", resp.StatusCode)
			continue
		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

// rateLimitedError es un 429; wait es el Retry-After parseado (0 si no vino).
type rateLimitedError struct {
	wait time.Duration
}

func (e *rateLimitedError) Error() string { return "rate limited (429)" }

// retryAfter parsea Retry-After en segundos o como fecha HTTP.
func retryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return min(max(time.Duration(secs)*time.Second, 0), maxRetryAfter)
	}
	if at, err := http.ParseTime(v); err == nil {
		return min(max(at.Sub(now), 0), maxRetryAfter)
	}
	return 0
}

// sleep espera el Retry-After del último 429 o, si no hay, backoff exponencial.
func (c *Client) sleep(ctx context.Context, attempt int, lastErr error) error {
	wait := time.Duration(math.Pow(2, float64(attempt))) * c.retryWait
	var rl *rateLimitedError
	if errors.As(lastErr, &rl) && rl.wait > 0 {
		wait = rl.wait
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
