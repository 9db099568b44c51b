package holdings

import (
	"fmt"
	"log"
	"sync/atomic"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"folio/pkg/signal"
)

// EditEvent is a single-cell edit from the UI, consumed once by the
// reconciler. Value must be an int for quantity, an Action for action and a
// string for notes.
type EditEvent struct {
	Row    int
	Column string
	Value  any
}

// Reconciler validates edits, applies them to the store and keeps the
// derived value column consistent with quantity changes. After each applied
// quantity edit it increments the revision counter and publishes on the bus;
// action and notes edits leave the revision alone because they cannot change
// any displayed total.
type Reconciler struct {
	store       *Store
	bus         *signal.Bus
	notesMaxLen int
	revision    atomic.Uint64
}

// NewReconciler wires a reconciler to its store and notification bus.
func NewReconciler(store *Store, bus *signal.Bus, notesMaxLen int) *Reconciler {
	return &Reconciler{
		store:       store,
		bus:         bus,
		notesMaxLen: notesMaxLen,
	}
}

// Revision returns the monotonically increasing change counter. Chart
// dependency tracking treats any increment as "recompute needed".
func (r *Reconciler) Revision() uint64 {
	return r.revision.Load()
}

// Apply processes one edit event. A rejected or failed edit leaves the store
// and the revision exactly as they were.
func (r *Reconciler) Apply(ev EditEvent) error {
	if err := r.validate(ev); err != nil {
		return err
	}

	switch ev.Column {
	case ColQuantity:
		quantity := ev.Value.(int)
		pos, err := r.store.Position(ev.Row)
		if err != nil {
			return fmt.Errorf("read row %d: %w", ev.Row, err)
		}
		value := pos.Price.Mul(decimal.NewFromInt(int64(quantity)))
		if err := r.store.setQuantityAndValue(ev.Row, quantity, value); err != nil {
			return fmt.Errorf("patch row %d: %w", ev.Row, err)
		}
		r.revision.Add(1)
		r.bus.Publish()
		log.Printf("Edit applied: %s quantity=%d value=%s (rev %d)",
			pos.Ticker, quantity, value.StringFixed(2), r.revision.Load())

	default: // action, notes
		if err := r.store.Patch(ev.Row, ev.Column, ev.Value); err != nil {
			return fmt.Errorf("patch row %d: %w", ev.Row, err)
		}
	}

	return nil
}

// validate enforces the editing policy and the per-column constraints.
func (r *Reconciler) validate(ev EditEvent) error {
	if ev.Row < 0 || ev.Row >= r.store.Len() {
		return fmt.Errorf("%w: row %d out of range", ErrRejected, ev.Row)
	}

	if !editableColumns[ev.Column] {
		return fmt.Errorf("%w: column %s is read-only", ErrRejected, ev.Column)
	}

	switch ev.Column {
	case ColQuantity:
		quantity, ok := ev.Value.(int)
		if !ok {
			return fmt.Errorf("%w: quantity wants an integer, got %T", ErrRejected, ev.Value)
		}
		if quantity < 0 {
			return fmt.Errorf("%w: quantity must be >= 0, got %d", ErrRejected, quantity)
		}
	case ColAction:
		action, ok := ev.Value.(Action)
		if !ok {
			return fmt.Errorf("%w: action wants an Action, got %T", ErrRejected, ev.Value)
		}
		if !action.Valid() {
			return fmt.Errorf("%w: unknown action %q", ErrRejected, action)
		}
	case ColNotes:
		notes, ok := ev.Value.(string)
		if !ok {
			return fmt.Errorf("%w: notes wants a string, got %T", ErrRejected, ev.Value)
		}
		if utf8.RuneCountInString(notes) > r.notesMaxLen {
			return fmt.Errorf("%w: notes longer than %d characters", ErrRejected, r.notesMaxLen)
		}
	}

	return nil
}
