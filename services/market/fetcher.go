package market

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const requestTimeout = 30 * time.Second

// Columns the equities CSV must carry. Extra columns are ignored.
var requiredColumns = []string{"Ticker", "Date", "Open", "High", "Low", "Close"}

// Fetcher downloads and parses the historical equities CSV.
type Fetcher struct {
	url        string
	httpClient *http.Client
}

// NewFetcher creates a fetcher for the given CSV URL.
func NewFetcher(url string) *Fetcher {
	return &Fetcher{
		url: url,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Fetch downloads the CSV and builds the history for the requested tickers.
// Every requested ticker must have at least one row; dates per ticker end up
// strictly increasing. Any network or parse failure returns an error with no
// partial result.
func (f *Fetcher) Fetch(ctx context.Context, tickers []string, period string) (*History, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	log.Printf("Fetching historical data for %d tickers (period %s)...", len(tickers), period)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch historical data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	history, err := parseCSV(resp.Body, tickers)
	if err != nil {
		return nil, fmt.Errorf("parse historical data: %w", err)
	}

	log.Printf("Fetched %d ticker series", len(history.series))
	return history, nil
}

// parseCSV reads the CSV body into a History, keeping only requested tickers.
func parseCSV(r io.Reader, tickers []string) (*History, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	wanted := make(map[string]bool, len(tickers))
	for _, ticker := range tickers {
		wanted[ticker] = true
	}

	series := make(map[string][]Candle, len(tickers))
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		ticker := record[cols["Ticker"]]
		if !wanted[ticker] {
			continue
		}

		candle, err := parseCandle(ticker, record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		series[ticker] = append(series[ticker], candle)
	}

	for _, ticker := range tickers {
		candles := series[ticker]
		if len(candles) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchTicker, ticker)
		}
		sort.Slice(candles, func(i, j int) bool {
			return candles[i].Date.Before(candles[j].Date)
		})
		for i := 1; i < len(candles); i++ {
			if !candles[i].Date.After(candles[i-1].Date) {
				return nil, fmt.Errorf("duplicate date %s for %s",
					candles[i].Date.Format("2006-01-02"), ticker)
			}
		}
	}

	return &History{series: series, fetchedAt: time.Now()}, nil
}

// parseCandle converts one CSV record into a Candle.
func parseCandle(ticker string, record []string, cols map[string]int) (Candle, error) {
	date, err := time.Parse("2006-01-02", record[cols["Date"]])
	if err != nil {
		return Candle{}, fmt.Errorf("parse date: %w", err)
	}

	candle := Candle{Ticker: ticker, Date: date}

	fields := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"Open", &candle.Open},
		{"High", &candle.High},
		{"Low", &candle.Low},
		{"Close", &candle.Close},
	}
	for _, field := range fields {
		value, err := decimal.NewFromString(record[cols[field.name]])
		if err != nil {
			return Candle{}, fmt.Errorf("parse %s: %w", field.name, err)
		}
		*field.dst = value
	}

	return candle, nil
}
