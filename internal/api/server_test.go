package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/lotobot/internal/analysis"
	"github.com/alejandrodnm/lotobot/internal/api"
	"github.com/alejandrodnm/lotobot/internal/classifier"
	"github.com/alejandrodnm/lotobot/internal/domain"
	"github.com/alejandrodnm/lotobot/internal/generator"
	"github.com/alejandrodnm/lotobot/internal/session"
)

type staticSource []domain.Draw

func (s staticSource) LoadDraws(context.Context) ([]domain.Draw, int, error) { return s, 0, nil }

func rotatingHistory(n int) staticSource {
	out := make(staticSource, n)
	for i := range out {
		var set domain.NumberSet
		for j := range domain.DrawSize {
			set |= 1 << ((i+1+j)%domain.MaxNumber + 1)
		}
		out[i] = domain.Draw{Contest: i + 1, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Numbers: set}
	}
	return out
}

func newTestServer(t *testing.T, draws int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(newTestRouter(t, draws))
	t.Cleanup(ts.Close)
	return ts
}

func newTestRouter(t *testing.T, draws int) http.Handler {
	t.Helper()
	cfg := session.Config{
		Generator:        generator.DefaultConfig(),
		Elite:            generator.DefaultEliteConfig(),
		Recommend:        analysis.DefaultRecommendConfig(),
		BacktestWindow:   10,
		SimulationWindow: 5,
		Pricing:          domain.DefaultPricing(),
		Classifier:       classifier.DefaultOptions(),
	}
	svc := session.New(cfg, rotatingHistory(draws), nil, nil, nil)
	if draws > 0 {
		_, err := svc.Load(context.Background())
		require.NoError(t, err)
	}
	return api.NewServer(svc).Router([]string{"http://localhost:3000"}, 10*time.Second)
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

const openFilter = `{"repeated":{"min":0,"max":15},"odd":{"min":0,"max":15}}`

func TestHealth(t *testing.T) {
	ts := newTestServer(t, 20)
	resp := get(t, ts, "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 20, body["draws"])
	assert.EqualValues(t, 20, body["last_contest"])
}

func TestStats_HotOrder(t *testing.T) {
	ts := newTestServer(t, 20)
	resp := get(t, ts, "/api/v1/stats?order=hot")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stats := decode[[]map[string]int](t, resp)
	require.Len(t, stats, domain.MaxNumber)
	for i := 1; i < len(stats); i++ {
		assert.GreaterOrEqual(t, stats[i-1]["frequency"], stats[i]["frequency"])
	}
}

func TestGenerate_WithUniverseAndFilter(t *testing.T) {
	ts := newTestServer(t, 20)
	body := `{"universe":"1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16","filter":` + openFilter + `,"limit":5}`

	resp := post(t, ts, "/api/v1/generate", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[struct {
		Total    int64   `json:"total"`
		Kept     int     `json:"kept"`
		Previous int     `json:"previous_contest"`
		Tickets  [][]int `json:"tickets"`
	}](t, resp)
	assert.Equal(t, int64(16), out.Total)
	assert.Equal(t, 16, out.Kept)
	assert.Equal(t, 20, out.Previous)
	assert.Len(t, out.Tickets, 5)
}

func TestGenerate_InvalidUniverse(t *testing.T) {
	ts := newTestServer(t, 20)
	resp := post(t, ts, "/api/v1/generate", `{"universe":"1 2 x"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGenerate_NoHistory(t *testing.T) {
	ts := newTestServer(t, 0)
	resp := post(t, ts, "/api/v1/generate", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestBacktestThenElite(t *testing.T) {
	ts := newTestServer(t, 30)
	code := `{"universo_dezenas":"1,2,3,4,5,6,7,8,9,10,11,12,13,14,15","filtro_repetidas":[0,15],"filtro_impares":[0,15]}`
	req, err := json.Marshal(map[string]string{"code": code})
	require.NoError(t, err)
	resp := post(t, ts, "/api/v1/strategy", string(req))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post(t, ts, "/api/v1/backtest", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bt := decode[map[string]any](t, resp)
	assert.EqualValues(t, 9, bt["hits"])
	assert.EqualValues(t, 100, bt["percent"])

	resp = post(t, ts, "/api/v1/elite", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	el := decode[struct {
		Universe []int `json:"universe"`
		Tickets  []any `json:"tickets"`
	}](t, resp)
	assert.Len(t, el.Universe, 19)
	assert.Len(t, el.Tickets, 50)
}

func TestGenerate_CancelledIsGatewayTimeout(t *testing.T) {
	router := newTestRouter(t, 10)
	// 25 dezenas y repetidas 15..15: casi nada pasa el filtro, así que la
	// enumeración llega al chequeo de contexto antes de cortar por MaxTickets.
	body := `{"universe":"1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,16,17,18,19,20,21,22,23,24,25",` +
		`"filter":{"repeated":{"min":15,"max":15},"odd":{"min":0,"max":15}}}`

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	var out struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, http.StatusGatewayTimeout, out.Code)
}

func TestStrategy_Invalid(t *testing.T) {
	ts := newTestServer(t, 5)
	resp := post(t, ts, "/api/v1/strategy", `{"code":"nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCheck(t *testing.T) {
	ts := newTestServer(t, 5)
	body := `{"tickets":"1 2 3 4 5 6 7 8 9 10 11 12 13 14 15\nbad line","result":"1,2,3,4,5,6,7,8,9,10,11,12,13,24,25"}`

	resp := post(t, ts, "/api/v1/check", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[struct {
		Tickets []struct {
			Hits  int  `json:"hits"`
			Prize bool `json:"prize"`
		} `json:"tickets"`
		Skipped int `json:"skipped"`
	}](t, resp)
	require.Len(t, out.Tickets, 1)
	assert.Equal(t, 13, out.Tickets[0].Hits)
	assert.True(t, out.Tickets[0].Prize)
	assert.Equal(t, 1, out.Skipped)
}

func TestCheck_InvalidResult(t *testing.T) {
	ts := newTestServer(t, 5)
	resp := post(t, ts, "/api/v1/check", `{"tickets":"1 2 3 4 5 6 7 8 9 10 11 12 13 14 15","result":"1 2 3"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSimulate(t *testing.T) {
	ts := newTestServer(t, 10)
	resp := post(t, ts, "/api/v1/simulate", `{"tickets":"1 2 3 4 5 6 7 8 9 10 11 12 13 14 15"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[map[string]any](t, resp)
	assert.EqualValues(t, 1, out["tickets"])
	assert.EqualValues(t, 5, out["draws"])
	assert.Equal(t, "15", out["cost"])
}

func TestSimulate_NoValidTickets(t *testing.T) {
	ts := newTestServer(t, 10)
	resp := post(t, ts, "/api/v1/simulate", `{"tickets":"1 2 3"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHeatmap_InvalidMetric(t *testing.T) {
	ts := newTestServer(t, 10)
	resp := get(t, ts, "/api/v1/heatmap?metric=nope")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get(t, ts, "/api/v1/heatmap?metric=delay")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHeatmap_Recent(t *testing.T) {
	ts := newTestServer(t, 10)
	resp := get(t, ts, "/api/v1/heatmap?metric=recent")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[struct {
		Metric string  `json:"metric"`
		Max    int     `json:"max"`
		Board  [][]int `json:"board"`
	}](t, resp)
	assert.Equal(t, "recent", out.Metric)
	require.Len(t, out.Board, 5)
	total := 0
	for _, row := range out.Board {
		for _, v := range row {
			total += v
		}
	}
	assert.Equal(t, 10*15, total)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, 10)
	get(t, ts, "/health")

	resp := get(t, ts, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sb strings.Builder
	_, err := io.Copy(&sb, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, sb.String(), "lotobot_http_requests_total")
}
