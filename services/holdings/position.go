// Package holdings owns the editable portfolio table state: the ordered
// positions, the cell-patch store and the reconciler that keeps the derived
// market value consistent with quantity edits.
package holdings

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Column names of the holdings table.
const (
	ColTicker   = "ticker"
	ColCompany  = "company"
	ColQuantity = "quantity"
	ColPrice    = "price"
	ColValue    = "value"
	ColAction   = "action"
	ColNotes    = "notes"
)

// editableColumns are the only columns the edit surface may write. Value is
// derived, price comes from market data, ticker and company are fixed.
var editableColumns = map[string]bool{
	ColQuantity: true,
	ColAction:   true,
	ColNotes:    true,
}

// ErrRejected marks an edit that violates a column constraint or targets a
// read-only cell. The store is untouched when an edit is rejected.
var ErrRejected = errors.New("edit rejected")

// Action is the buy/sell/hold marker on a position.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Valid reports whether a is one of the three known actions.
func (a Action) Valid() bool {
	return a == ActionBuy || a == ActionSell || a == ActionHold
}

// Next returns the following action in the buy -> sell -> hold cycle.
func (a Action) Next() Action {
	switch a {
	case ActionBuy:
		return ActionSell
	case ActionSell:
		return ActionHold
	default:
		return ActionBuy
	}
}

// Position is one row of the holdings table. Value is always
// Quantity x Price; only the reconciler writes it.
type Position struct {
	Ticker   string
	Company  string
	Quantity int
	Price    decimal.Decimal
	Value    decimal.Decimal
	Action   Action
	Notes    string
}

// NewPosition builds a position with Value derived from quantity and price.
func NewPosition(ticker, company string, quantity int, price decimal.Decimal, action Action) Position {
	return Position{
		Ticker:   ticker,
		Company:  company,
		Quantity: quantity,
		Price:    price,
		Value:    price.Mul(decimal.NewFromInt(int64(quantity))),
		Action:   action,
	}
}
