package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"folio/pkg/moneyfmt"
	"folio/services/market"
)

// Palette carried over from the web dashboard this replaces.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA"))

	axisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5AD534"))

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D94467"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BB2649"))

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#626262")).
				Italic(true)
)

const axisLabelWidth = 10

// RenderCandlestick draws the price chart as a column-per-candle glyph grid
// with a price axis on the left. The most recent candles that fit the width
// are shown; rising candles render green, falling ones red.
func RenderCandlestick(spec CandlestickSpec, width, height int) string {
	if height < 3 {
		height = 3
	}
	cols := width - axisLabelWidth
	if cols < 1 {
		cols = 1
	}

	candles := spec.Candles
	if len(candles) > cols {
		candles = candles[len(candles)-cols:]
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(spec.Title) + "\n")

	if len(candles) == 0 {
		b.WriteString(placeholderStyle.Render("no price history"))
		return b.String()
	}

	low, high := priceRange(candles)
	span := high - low
	if span <= 0 {
		span = 1
	}

	// row 0 is the top of the chart
	toRow := func(price float64) int {
		r := int(float64(height-1) * (high - price) / span)
		if r < 0 {
			r = 0
		}
		if r > height-1 {
			r = height - 1
		}
		return r
	}

	for row := 0; row < height; row++ {
		rowPrice := high - span*float64(row)/float64(height-1)
		b.WriteString(axisStyle.Render(fmt.Sprintf("%9.2f ", rowPrice)))

		for _, candle := range candles {
			o, _ := candle.Open.Float64()
			c, _ := candle.Close.Float64()
			h, _ := candle.High.Float64()
			l, _ := candle.Low.Float64()

			bodyTop, bodyBottom := toRow(maxFloat(o, c)), toRow(minFloat(o, c))
			wickTop, wickBottom := toRow(h), toRow(l)

			style := upStyle
			if c < o {
				style = downStyle
			}

			switch {
			case row >= bodyTop && row <= bodyBottom:
				b.WriteString(style.Render("█"))
			case row >= wickTop && row <= wickBottom:
				b.WriteString(style.Render("│"))
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	first := candles[0].Date.Format("2006-01-02")
	last := candles[len(candles)-1].Date.Format("2006-01-02")
	footer := fmt.Sprintf("%s to %s  last close %s",
		first, last, moneyfmt.Price(candles[len(candles)-1].Close))
	b.WriteString(axisStyle.Render(footer))

	return b.String()
}

// RenderAllocation draws the distribution chart as proportional bars, one
// per ticker, with the formatted portfolio total in the title.
func RenderAllocation(spec AllocationSpec, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(spec.Title) + "\n")

	if spec.Degenerate {
		b.WriteString(placeholderStyle.Render("no holdings to display"))
		return b.String()
	}

	// "TICKR ████████ 12.3% $1,234,567"
	barWidth := width - 28
	if barWidth < 4 {
		barWidth = 4
	}

	for _, slice := range spec.Slices {
		bar := strings.Repeat("█", scaledLength(slice.Share, barWidth))
		line := fmt.Sprintf("%-6s %s %5.1f%% %s",
			slice.Ticker,
			barStyle.Render(fmt.Sprintf("%-*s", barWidth, bar)),
			slice.Share*100,
			moneyfmt.Amount(slice.Value),
		)
		b.WriteString(line + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// scaledLength maps a share to a bar length, keeping nonzero shares visible.
func scaledLength(share float64, barWidth int) int {
	if share <= 0 {
		return 0
	}
	n := int(share*float64(barWidth) + 0.5)
	if n < 1 {
		n = 1
	}
	if n > barWidth {
		n = barWidth
	}
	return n
}

// priceRange returns the lowest low and highest high across the window.
func priceRange(candles []market.Candle) (float64, float64) {
	low, _ := candles[0].Low.Float64()
	high, _ := candles[0].High.Float64()
	for _, candle := range candles[1:] {
		if l, _ := candle.Low.Float64(); l < low {
			low = l
		}
		if h, _ := candle.High.Float64(); h > high {
			high = h
		}
	}
	return low, high
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
