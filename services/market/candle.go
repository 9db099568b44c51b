// Package market provides historical equity price data for the dashboard.
// It downloads a CSV of daily OHLC rows, parses them into per-ticker candle
// series and memoizes the result for a bounded time window.
package market

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoSuchTicker is returned when a ticker has no rows in the fetched series.
var ErrNoSuchTicker = errors.New("no historical data for ticker")

// Candle represents one daily OHLC row for a ticker.
type Candle struct {
	Ticker string
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
}

// History holds the parsed historical series for a set of tickers.
// It is immutable once built; dates per ticker are strictly increasing.
type History struct {
	series    map[string][]Candle
	fetchedAt time.Time
}

// NewHistory builds a history from pre-sorted per-ticker candle series.
// Callers must supply dates in strictly increasing order per ticker.
func NewHistory(series map[string][]Candle) *History {
	return &History{series: series, fetchedAt: time.Now()}
}

// Series returns the candles for a ticker, oldest first.
func (h *History) Series(ticker string) ([]Candle, error) {
	candles, ok := h.series[ticker]
	if !ok || len(candles) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchTicker, ticker)
	}
	return candles, nil
}

// LastClose returns the most recent close price for a ticker.
func (h *History) LastClose(ticker string) (decimal.Decimal, error) {
	candles, err := h.Series(ticker)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return candles[len(candles)-1].Close, nil
}

// Tickers returns the tickers present in the history.
func (h *History) Tickers() []string {
	tickers := make([]string, 0, len(h.series))
	for ticker := range h.series {
		tickers = append(tickers, ticker)
	}
	return tickers
}

// FetchedAt returns when the underlying CSV was downloaded.
func (h *History) FetchedAt() time.Time {
	return h.fetchedAt
}
