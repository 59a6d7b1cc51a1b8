package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"monteCarloDash/internal/logger"
	"monteCarloDash/internal/metrics"
	"monteCarloDash/internal/montecarlo"
)

// Provider supplies historical prices and the current quote for a symbol.
type Provider interface {
	History(ctx context.Context, symbol string, start, end time.Time) (montecarlo.PriceSeries, error)
	LatestPrice(ctx context.Context, symbol string) (float64, error)
}

var defaultHosts = []string{"https://query1.finance.yahoo.com", "https://query2.finance.yahoo.com"}

var defaultBackoffs = []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second}

// YahooProvider reads daily bars from the Yahoo v8 chart endpoint, rotating
// between hosts and backing off on throttling.
type YahooProvider struct {
	Client   *http.Client
	Hosts    []string
	Backoffs []time.Duration
}

// NewYahooProvider builds a provider. An empty baseURL uses the public hosts.
func NewYahooProvider(baseURL string) *YahooProvider {
	p := &YahooProvider{
		Client:   &http.Client{Timeout: 15 * time.Second},
		Hosts:    defaultHosts,
		Backoffs: defaultBackoffs,
	}
	if baseURL != "" {
		p.Hosts = []string{strings.TrimRight(baseURL, "/")}
	}
	return p
}

// History returns adjusted daily closes for symbol in [start, end].
func (p *YahooProvider) History(ctx context.Context, symbol string, start, end time.Time) (montecarlo.PriceSeries, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("history window %s..%s is empty", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	q := url.Values{}
	q.Set("period1", fmt.Sprint(start.Unix()))
	// period2 is exclusive on Yahoo's side
	q.Set("period2", fmt.Sprint(end.Add(24*time.Hour).Unix()))
	q.Set("interval", "1d")
	q.Set("events", "div,splits")
	q.Set("includeAdjustedClose", "true")

	yc, err := p.chart(ctx, symbol, q)
	if err != nil {
		metrics.ProviderFetches.WithLabelValues("history", metrics.OutcomeFailed).Inc()
		return nil, err
	}
	closes := pickCloses(yc)
	series := buildSeries(yc.Chart.Result[0].Timestamp, closes)
	if len(series) == 0 {
		metrics.ProviderFetches.WithLabelValues("history", metrics.OutcomeFailed).Inc()
		return nil, fmt.Errorf("%s: no valid daily closes between %s and %s",
			strings.ToUpper(symbol), start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	metrics.ProviderFetches.WithLabelValues("history", metrics.OutcomeOK).Inc()
	logger.With("yahoo").WithFields(logrus.Fields{
		"symbol": strings.ToUpper(symbol),
		"points": len(series),
	}).Debug("history fetched")
	return series, nil
}

// LatestPrice returns the regular market price, or the last close of the
// current session when the quote is missing.
func (p *YahooProvider) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("range", "1d")
	q.Set("interval", "1d")

	yc, err := p.chart(ctx, symbol, q)
	if err != nil {
		metrics.ProviderFetches.WithLabelValues("quote", metrics.OutcomeFailed).Inc()
		return 0, err
	}
	r := yc.Chart.Result[0]
	if r.Meta.RegularMarketPrice > 0 {
		metrics.ProviderFetches.WithLabelValues("quote", metrics.OutcomeOK).Inc()
		return r.Meta.RegularMarketPrice, nil
	}
	if len(r.Indicators.Quote) > 0 {
		if last, ok := buildSeries(r.Timestamp, r.Indicators.Quote[0].Close).Last(); ok {
			metrics.ProviderFetches.WithLabelValues("quote", metrics.OutcomeOK).Inc()
			return last.Price, nil
		}
	}
	metrics.ProviderFetches.WithLabelValues("quote", metrics.OutcomeFailed).Inc()
	return 0, fmt.Errorf("%s: no current price available", strings.ToUpper(symbol))
}

func (p *YahooProvider) chart(ctx context.Context, symbol string, q url.Values) (*yahooChartResp, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}
	var lastErr error
	for attempt := 0; attempt < len(p.Backoffs)+1; attempt++ {
		for _, host := range p.Hosts {
			u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", host, url.PathEscape(symbol), q.Encode())
			yc, err := p.get(ctx, u, symbol)
			if err == nil {
				return yc, nil
			}
			var nf notFoundError
			if errors.As(err, &nf) || ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
		}
		if attempt < len(p.Backoffs) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.Backoffs[attempt]):
			}
		}
	}
	return nil, lastErr
}

// notFoundError stops retries: the symbol does not exist.
type notFoundError struct{ msg string }

func (e notFoundError) Error() string { return e.msg }

func (p *YahooProvider) get(ctx context.Context, u, symbol string) (*yahooChartResp, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s/history", symbol))
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("failed to read yahoo response: %w", readErr)
	}
	if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
		return nil, fmt.Errorf("yahoo %s returned 429: Edge: Too Many Requests", req.URL.Host)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, notFoundError{msg: fmt.Sprintf("yahoo: unknown symbol %s", symbol)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo %s returned %d: %s", req.URL.Host, resp.StatusCode, preview(body))
	}
	if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
		return nil, fmt.Errorf("yahoo returned non-json body: %s", preview(body))
	}
	var yc yahooChartResp
	if err := json.Unmarshal(body, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse yahoo json: %v; body: %s", err, preview(body))
	}
	if yc.Chart.Error != nil {
		return nil, notFoundError{msg: fmt.Sprintf("yahoo: %s: %s", yc.Chart.Error.Code, yc.Chart.Error.Description)}
	}
	if len(yc.Chart.Result) == 0 {
		return nil, errors.New("no data")
	}
	return &yc, nil
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
