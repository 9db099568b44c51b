package market

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFetched is returned when the provider is asked for data before the
// first successful fetch.
var ErrNotFetched = errors.New("historical data not fetched yet")

// Provider serves historical data memoized for a bounded time window.
// Within the TTL, repeated History calls return the cached result without
// re-fetching; after expiry the next call downloads a fresh copy.
type Provider struct {
	fetcher *Fetcher
	tickers []string
	period  string
	ttl     time.Duration

	mu       sync.Mutex
	cached   *History
	cacheKey string
}

// NewProvider creates a provider for a fixed ticker set and lookback period.
func NewProvider(fetcher *Fetcher, tickers []string, period string, ttl time.Duration) *Provider {
	return &Provider{
		fetcher: fetcher,
		tickers: tickers,
		period:  period,
		ttl:     ttl,
	}
}

// History returns the historical series, fetching only when the cache is
// empty, stale, or keyed for different inputs.
func (p *Provider) History(ctx context.Context) (*History, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := strings.Join(p.tickers, ",") + "|" + p.period
	if p.cached != nil && p.cacheKey == key && time.Since(p.cached.fetchedAt) < p.ttl {
		return p.cached, nil
	}

	history, err := p.fetcher.Fetch(ctx, p.tickers, p.period)
	if err != nil {
		return nil, err
	}

	p.cached = history
	p.cacheKey = key
	log.Printf("Historical data cached for %v", p.ttl)
	return history, nil
}

// Refresh drops the cache so the next History call re-fetches.
func (p *Provider) Refresh() {
	p.mu.Lock()
	p.cached = nil
	p.mu.Unlock()
}

// Series returns the cached candles for a ticker.
func (p *Provider) Series(ticker string) ([]Candle, error) {
	history, err := p.current()
	if err != nil {
		return nil, err
	}
	return history.Series(ticker)
}

// LastClose returns the most recent cached close price for a ticker.
func (p *Provider) LastClose(ticker string) (decimal.Decimal, error) {
	history, err := p.current()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return history.LastClose(ticker)
}

func (p *Provider) current() (*History, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cached == nil {
		return nil, ErrNotFetched
	}
	return p.cached, nil
}
