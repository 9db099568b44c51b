// Package chart computes renderable chart specifications from the current
// dashboard state and renders them as terminal output. Projections are pure:
// same inputs, same spec.
package chart

import (
	"fmt"

	"folio/services/holdings"
	"folio/services/market"
)

// NoSelection asks for the default ticker's chart.
const NoSelection = -1

// CandlestickSpec describes the daily price chart for one ticker.
type CandlestickSpec struct {
	Ticker  string
	Company string
	Title   string
	Candles []market.Candle
}

// Default ticker when no table row is selected.
const (
	defaultTicker  = "AAPL"
	defaultCompany = "Apple"
)

// Candlestick projects the selected row onto a price chart spec. With no
// selection it falls back to the default ticker regardless of snapshot
// contents; otherwise ticker and company resolve strictly from the selected
// snapshot row.
func Candlestick(selected int, snapshot []holdings.Position, history *market.History) (CandlestickSpec, error) {
	ticker := defaultTicker
	company := defaultCompany

	if selected != NoSelection {
		if selected < 0 || selected >= len(snapshot) {
			return CandlestickSpec{}, fmt.Errorf("selected row %d out of range", selected)
		}
		ticker = snapshot[selected].Ticker
		company = snapshot[selected].Company
	}

	candles, err := history.Series(ticker)
	if err != nil {
		return CandlestickSpec{}, fmt.Errorf("price chart for %s: %w", ticker, err)
	}

	return CandlestickSpec{
		Ticker:  ticker,
		Company: company,
		Title:   fmt.Sprintf("%s %s Daily Price", ticker, company),
		Candles: candles,
	}, nil
}
