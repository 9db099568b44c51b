// Package moneyfmt formats decimal amounts as US dollar strings for display.
package moneyfmt

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	// price cells: $1,234.56
	priceFormatter = money.NewFormatter(2, ".", ",", "$", "$1")
	// value cells and totals: $1,234,567
	amountFormatter = money.NewFormatter(0, ".", ",", "$", "$1")
)

// Price renders a per-share price with two decimal places.
func Price(d decimal.Decimal) string {
	return priceFormatter.Format(d.Shift(2).Round(0).IntPart())
}

// Amount renders a market value rounded to whole dollars.
func Amount(d decimal.Decimal) string {
	return amountFormatter.Format(d.Round(0).IntPart())
}
