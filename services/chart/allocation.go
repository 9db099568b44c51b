package chart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"folio/pkg/moneyfmt"
	"folio/services/holdings"
)

// AllocationSpec describes the portfolio-distribution chart: one slice per
// ticker, sized by its share of the total market value.
type AllocationSpec struct {
	Title  string
	Total  decimal.Decimal
	Slices []AllocationSlice

	// Degenerate is set when the portfolio total is zero and there is
	// nothing to apportion; render a placeholder instead of slices.
	Degenerate bool
}

// AllocationSlice is one ticker's share of the portfolio.
type AllocationSlice struct {
	Ticker string
	Value  decimal.Decimal
	Share  float64
}

// Allocation projects the holdings snapshot onto a distribution chart spec.
// The snapshot is read at call time; dependency tracking decides when to
// call, the revision counter itself carries no data.
func Allocation(snapshot []holdings.Position) AllocationSpec {
	total := decimal.Zero
	for _, pos := range snapshot {
		total = total.Add(pos.Value)
	}

	spec := AllocationSpec{
		Title: fmt.Sprintf("Portfolio Total %s", moneyfmt.Amount(total)),
		Total: total,
	}

	if total.IsZero() {
		spec.Degenerate = true
		return spec
	}

	spec.Slices = make([]AllocationSlice, 0, len(snapshot))
	for _, pos := range snapshot {
		spec.Slices = append(spec.Slices, AllocationSlice{
			Ticker: pos.Ticker,
			Value:  pos.Value,
			Share:  pos.Value.Div(total).InexactFloat64(),
		})
	}

	return spec
}
