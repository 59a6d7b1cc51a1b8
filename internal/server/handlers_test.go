package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monteCarloDash/internal/dashboard"
	"monteCarloDash/internal/montecarlo"
	"monteCarloDash/internal/storage"
)

type stubProvider struct {
	err error
}

func (s stubProvider) History(_ context.Context, _ string, _, _ time.Time) (montecarlo.PriceSeries, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := montecarlo.PriceSeries{}
	for i, p := range []float64{100, 102, 101, 105, 107} {
		out = append(out, montecarlo.PricePoint{Date: time.Date(2025, 1, 2+i, 0, 0, 0, 0, time.UTC), Price: p})
	}
	return out, nil
}

func (s stubProvider) LatestPrice(context.Context, string) (float64, error) { return 107, s.err }

type stubUsage struct{}

func (stubUsage) Usage(time.Time) ([]storage.UsageStats, error) {
	return []storage.UsageStats{{Symbol: "TSLA", Count: 3, Paths: 1500}, {Symbol: "AAPL", Count: 1, Paths: 10}}, nil
}

var today = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

func newTestMux(p stubProvider, usage UsageSource) *http.ServeMux {
	svc := dashboard.NewService(p, montecarlo.NewSimulator(montecarlo.WithSeed(5)),
		dashboard.WithClock(func() time.Time { return today }),
		dashboard.WithRenderer(func(string, montecarlo.PathMatrix, float64) ([]byte, error) {
			return []byte("\x89PNG fake"), nil
		}))
	h := NewHandlers(svc, usage, time.Second)
	h.today = func() time.Time { return today }
	return NewHTTPMux(h, nil)
}

func get(t *testing.T, mux http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPage(t *testing.T) {
	rec := get(t, newTestMux(stubProvider{}, nil), "/?ticker=AAPL&start=2024-01-01&n=50")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<option value="AAPL" selected>`)
	assert.Contains(t, body, "data:image/png;base64,")
	assert.Contains(t, body, `value="2024-01-01"`)
	assert.Contains(t, body, `max="2025-06-30"`)
	assert.NotContains(t, body, `class="error"`)
}

func TestPage_ErrorReplacesChart(t *testing.T) {
	rec := get(t, newTestMux(stubProvider{}, nil), "/?n=5")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="error"`)
	assert.Contains(t, body, "INVALID_CONFIG")
	assert.NotContains(t, body, "data:image/png")
}

func TestChart(t *testing.T) {
	mux := newTestMux(stubProvider{}, nil)

	rec := get(t, mux, "/chart.png?ticker=TSLA")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec = get(t, mux, "/chart.png?start=yesterday")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = get(t, newTestMux(stubProvider{err: errors.New("yahoo down")}, nil), "/chart.png")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "yahoo down")
}

func TestChart_HorizonTooLong(t *testing.T) {
	rec := get(t, newTestMux(stubProvider{}, nil), "/chart.png?n=3000&horizon=1000000000")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "horizon must be in [1, 2520]")
}

func TestSimulateJSON(t *testing.T) {
	rec := get(t, newTestMux(stubProvider{}, nil), "/api/simulate?ticker=msft&n=20&horizon=30&paths=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var out simulateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "MSFT", out.Ticker)
	assert.Equal(t, 5, out.HistoryDays)
	assert.Equal(t, 107.0, out.InitialPrice)
	require.Len(t, out.Paths, 20)
	for _, row := range out.Paths {
		require.Len(t, row, 30)
		assert.Equal(t, 107.0, row[0])
	}
	assert.Greater(t, out.Volatility, 0.0)
}

func TestSimulateJSON_Error(t *testing.T) {
	rec := get(t, newTestMux(stubProvider{}, nil), "/api/simulate?n=abc")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var out errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Contains(t, out.Error, "not an integer")
}

func TestUsageChart(t *testing.T) {
	rec := get(t, newTestMux(stubProvider{}, nil), "/api/usage.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	mux := newTestMux(stubProvider{}, stubUsage{})
	rec = get(t, mux, "/api/usage.png?days=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, mux, "/api/usage.png?days=30")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestMux(stubProvider{}, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}
