package finance

import (
	"context"
	"strings"
	"sync"
	"time"

	"monteCarloDash/internal/metrics"
	"monteCarloDash/internal/montecarlo"
)

// CachedProvider memoizes history lookups for a short TTL. Quotes always
// pass through so the initial price is current.
type CachedProvider struct {
	next Provider
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]historyCacheEntry
}

func NewCachedProvider(next Provider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = defaultHistoryCacheTTL
	}
	return &CachedProvider{next: next, ttl: ttl, now: time.Now, entries: map[string]historyCacheEntry{}}
}

func historyKey(symbol string, start, end time.Time) string {
	return strings.ToUpper(symbol) + "|" + start.Format(time.DateOnly) + "|" + end.Format(time.DateOnly)
}

func (c *CachedProvider) History(ctx context.Context, symbol string, start, end time.Time) (montecarlo.PriceSeries, error) {
	key := historyKey(symbol, start, end)
	if s, ok := c.get(key); ok {
		metrics.HistoryCache.WithLabelValues("hit").Inc()
		return s, nil
	}
	metrics.HistoryCache.WithLabelValues("miss").Inc()
	s, err := c.next.History(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	c.set(key, s)
	return clone(s), nil
}

func (c *CachedProvider) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	return c.next.LatestPrice(ctx, symbol)
}

func (c *CachedProvider) get(key string) (montecarlo.PriceSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.createdAt.Add(c.ttl)) {
		delete(c.entries, key)
		return nil, false
	}
	return clone(entry.series), true
}

func (c *CachedProvider) set(key string, s montecarlo.PriceSeries) {
	c.mu.Lock()
	c.entries[key] = historyCacheEntry{createdAt: c.now(), series: clone(s)}
	c.mu.Unlock()
}

func clone(s montecarlo.PriceSeries) montecarlo.PriceSeries {
	out := make(montecarlo.PriceSeries, len(s))
	copy(out, s)
	return out
}
