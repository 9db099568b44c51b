// Package main provides a fetch smoke-check: it downloads the equities CSV
// once and prints the latest close per configured ticker, without the TUI.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"folio/pkg/config"
	"folio/pkg/moneyfmt"
	"folio/services/market"
)

func main() {
	log.SetFlags(log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	provider := market.NewProvider(market.NewFetcher(cfg.CSVURL), cfg.Tickers(), cfg.Period, cfg.CacheTTL)

	history, err := provider.History(ctx)
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}

	fmt.Printf("%-7s %-20s %12s %8s\n", "Ticker", "Company", "Last Close", "Rows")
	for _, eq := range cfg.Equities {
		candles, err := history.Series(eq.Ticker)
		if err != nil {
			fmt.Printf("%-7s %-20s %12s\n", eq.Ticker, eq.Company, "n/a")
			continue
		}
		lastClose, err := history.LastClose(eq.Ticker)
		if err != nil {
			fmt.Printf("%-7s %-20s %12s\n", eq.Ticker, eq.Company, "n/a")
			continue
		}
		fmt.Printf("%-7s %-20s %12s %8d\n", eq.Ticker, eq.Company, moneyfmt.Price(lastClose), len(candles))
	}

	fmt.Printf("\nFetched at %s (cache TTL %v)\n", history.FetchedAt().Format(time.RFC3339), cfg.CacheTTL)
}
