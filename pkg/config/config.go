// Package config provides configuration loading for the Folio dashboard.
// Settings come from environment variables with sensible defaults; a .env
// file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the dashboard session.
const (
	DefaultCSVURL   = "https://datasets.holoviz.org/equities/v1/equities.csv"
	DefaultPeriod   = "2y"
	DefaultCacheTTL = 600 * time.Second
	DefaultNotesMax = 100
	DefaultLogFile  = "logs/folio.log"
)

// Config holds all application configuration.
type Config struct {
	// Historical data source
	CSVURL   string
	Period   string
	CacheTTL time.Duration

	// Table constraints
	NotesMaxLen int

	// Logging (the TUI owns the terminal, so logs go to a file)
	LogFile string

	// The portfolio tracked by the dashboard, in display order
	Equities []Equity
}

// Equity is one configured portfolio line: the ticker, its company name and
// the starting quantity/action shown before any edits.
type Equity struct {
	Ticker   string
	Company  string
	Quantity int
	Action   string
}

// defaultEquities returns the built-in portfolio.
func defaultEquities() []Equity {
	return []Equity{
		{Ticker: "AAPL", Company: "Apple", Quantity: 75, Action: "buy"},
		{Ticker: "MSFT", Company: "Microsoft", Quantity: 40, Action: "sell"},
		{Ticker: "AMZN", Company: "Amazon", Quantity: 100, Action: "hold"},
		{Ticker: "GOOGL", Company: "Alphabet", Quantity: 50, Action: "hold"},
		{Ticker: "TSLA", Company: "Tesla", Quantity: 40, Action: "hold"},
		{Ticker: "BRK-B", Company: "Berkshire Hathaway", Quantity: 60, Action: "hold"},
		{Ticker: "UNH", Company: "United Health Group", Quantity: 20, Action: "hold"},
		{Ticker: "JNJ", Company: "Johnson & Johnson", Quantity: 40, Action: "hold"},
	}
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		CSVURL:      getEnvOrDefault("FOLIO_CSV_URL", DefaultCSVURL),
		Period:      getEnvOrDefault("FOLIO_PERIOD", DefaultPeriod),
		CacheTTL:    getEnvDurationOrDefault("FOLIO_CACHE_TTL", DefaultCacheTTL),
		NotesMaxLen: getEnvIntOrDefault("FOLIO_NOTES_MAX_LEN", DefaultNotesMax),
		LogFile:     getEnvOrDefault("FOLIO_LOG_FILE", DefaultLogFile),
		Equities:    defaultEquities(),
	}

	if cfg.CSVURL == "" {
		return nil, fmt.Errorf("FOLIO_CSV_URL cannot be empty")
	}
	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("FOLIO_CACHE_TTL must be positive, got %v", cfg.CacheTTL)
	}
	if cfg.NotesMaxLen <= 0 {
		return nil, fmt.Errorf("FOLIO_NOTES_MAX_LEN must be positive, got %d", cfg.NotesMaxLen)
	}

	return cfg, nil
}

// Tickers returns the configured ticker symbols in display order.
func (c *Config) Tickers() []string {
	tickers := make([]string, len(c.Equities))
	for i, eq := range c.Equities {
		tickers[i] = eq.Ticker
	}
	return tickers
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
