package chart

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"folio/services/holdings"
)

func TestRenderCandlestick(t *testing.T) {
	spec, err := Candlestick(NoSelection, nil, testHistory())
	if err != nil {
		t.Fatalf("Candlestick() error = %v", err)
	}

	out := RenderCandlestick(spec, 60, 10)

	if !strings.Contains(out, "AAPL Apple Daily Price") {
		t.Error("output missing title")
	}
	if !strings.Contains(out, "2024-01-02 to 2024-01-03") {
		t.Error("output missing date range footer")
	}
	if !strings.Contains(out, "$186.50") {
		t.Error("output missing last close")
	}

	lines := strings.Split(out, "\n")
	// title + height rows + footer
	if len(lines) != 12 {
		t.Errorf("line count = %v, want 12", len(lines))
	}
}

func TestRenderCandlestick_EmptySeries(t *testing.T) {
	spec := CandlestickSpec{Ticker: "AAPL", Company: "Apple", Title: "AAPL Apple Daily Price"}

	out := RenderCandlestick(spec, 60, 10)
	if !strings.Contains(out, "no price history") {
		t.Error("empty series should render a placeholder")
	}
}

func TestRenderCandlestick_NarrowWindowKeepsRecent(t *testing.T) {
	spec, err := Candlestick(NoSelection, nil, testHistory())
	if err != nil {
		t.Fatalf("Candlestick() error = %v", err)
	}

	// Width leaves room for a single candle column; the footer must show
	// only the most recent day.
	out := RenderCandlestick(spec, axisLabelWidth+1, 5)
	if !strings.Contains(out, "2024-01-03 to 2024-01-03") {
		t.Error("narrow chart should keep the most recent candles")
	}
}

func TestRenderAllocation(t *testing.T) {
	snapshot := []holdings.Position{
		holdings.NewPosition("AAPL", "Apple", 75, decimal.NewFromInt(200), holdings.ActionBuy),
		holdings.NewPosition("MSFT", "Microsoft", 40, decimal.NewFromInt(125), holdings.ActionSell),
	}

	out := RenderAllocation(Allocation(snapshot), 60)

	if !strings.Contains(out, "Portfolio Total $20,000") {
		t.Error("output missing total title")
	}
	if !strings.Contains(out, "AAPL") || !strings.Contains(out, "MSFT") {
		t.Error("output missing ticker labels")
	}
	if !strings.Contains(out, "75.0%") || !strings.Contains(out, "25.0%") {
		t.Error("output missing share percentages")
	}
	if !strings.Contains(out, "$15,000") || !strings.Contains(out, "$5,000") {
		t.Error("output missing slice values")
	}
}

func TestRenderAllocation_Degenerate(t *testing.T) {
	out := RenderAllocation(Allocation(nil), 60)

	if !strings.Contains(out, "no holdings to display") {
		t.Error("degenerate spec should render a placeholder")
	}
	if !strings.Contains(out, "Portfolio Total $0") {
		t.Error("degenerate spec should still show the zero total")
	}
}

func TestScaledLength(t *testing.T) {
	tests := []struct {
		share float64
		width int
		want  int
	}{
		{0, 40, 0},
		{0.001, 40, 1}, // nonzero shares stay visible
		{0.5, 40, 20},
		{1.0, 40, 40},
		{1.5, 40, 40}, // clamped
	}

	for _, tt := range tests {
		if got := scaledLength(tt.share, tt.width); got != tt.want {
			t.Errorf("scaledLength(%v, %v) = %v, want %v", tt.share, tt.width, got, tt.want)
		}
	}
}
