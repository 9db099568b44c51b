package holdings

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"folio/pkg/signal"
)

func newTestReconciler(t *testing.T) (*Reconciler, *Store, <-chan struct{}) {
	t.Helper()
	store := NewStore(testPositions())
	bus := signal.NewBus()
	_, ch := bus.Subscribe()
	return NewReconciler(store, bus, 100), store, ch
}

func TestApply_QuantityEdit(t *testing.T) {
	rec, store, ch := newTestReconciler(t)

	before := store.Snapshot()

	err := rec.Apply(EditEvent{Row: 0, Column: ColQuantity, Value: 100})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	after := store.Snapshot()

	// value[0] == 100 * price[0] exactly
	want := before[0].Price.Mul(decimal.NewFromInt(100))
	if !after[0].Value.Equal(want) {
		t.Errorf("Value = %v, want %v", after[0].Value, want)
	}
	if after[0].Quantity != 100 {
		t.Errorf("Quantity = %v, want 100", after[0].Quantity)
	}

	// all other rows untouched
	for i := 1; i < len(after); i++ {
		if !after[i].Value.Equal(before[i].Value) || after[i].Quantity != before[i].Quantity {
			t.Errorf("row %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}

	if rec.Revision() != 1 {
		t.Errorf("Revision() = %v, want 1", rec.Revision())
	}

	select {
	case <-ch:
	default:
		t.Error("quantity edit should publish a change notification")
	}
}

func TestApply_QuantityZero(t *testing.T) {
	rec, store, _ := newTestReconciler(t)

	if err := rec.Apply(EditEvent{Row: 1, Column: ColQuantity, Value: 0}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	pos, _ := store.Position(1)
	if !pos.Value.IsZero() {
		t.Errorf("Value = %v, want 0", pos.Value)
	}
}

func TestApply_SingleMutationPerEdit(t *testing.T) {
	rec, store, ch := newTestReconciler(t)

	if err := rec.Apply(EditEvent{Row: 0, Column: ColQuantity, Value: 80}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// Exactly one notification: reconciling the derived value cell must not
	// feed back into reconciliation.
	notifications := 0
	for {
		select {
		case <-ch:
			notifications++
			continue
		default:
		}
		break
	}
	if notifications != 1 {
		t.Errorf("notifications = %v, want 1", notifications)
	}

	if rec.Revision() != 1 {
		t.Errorf("Revision() = %v, want 1", rec.Revision())
	}

	pos, _ := store.Position(0)
	want := pos.Price.Mul(decimal.NewFromInt(80))
	if !pos.Value.Equal(want) {
		t.Errorf("Value = %v, want %v", pos.Value, want)
	}
}

func TestApply_ActionEdit_NoRevisionBump(t *testing.T) {
	rec, store, ch := newTestReconciler(t)

	if err := rec.Apply(EditEvent{Row: 2, Column: ColAction, Value: ActionBuy}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	pos, _ := store.Position(2)
	if pos.Action != ActionBuy {
		t.Errorf("Action = %v, want buy", pos.Action)
	}

	// Action edits cannot change any displayed total, so the allocation view
	// is not asked to recompute.
	if rec.Revision() != 0 {
		t.Errorf("Revision() = %v, want 0", rec.Revision())
	}
	select {
	case <-ch:
		t.Error("action edit should not publish")
	default:
	}
}

func TestApply_NotesEdit(t *testing.T) {
	rec, store, _ := newTestReconciler(t)

	if err := rec.Apply(EditEvent{Row: 0, Column: ColNotes, Value: "trim before earnings"}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	pos, _ := store.Position(0)
	if pos.Notes != "trim before earnings" {
		t.Errorf("Notes = %q", pos.Notes)
	}
	if rec.Revision() != 0 {
		t.Errorf("Revision() = %v, want 0", rec.Revision())
	}
}

func TestApply_Rejections(t *testing.T) {
	tests := []struct {
		name string
		ev   EditEvent
	}{
		{"row out of range", EditEvent{Row: 9, Column: ColQuantity, Value: 1}},
		{"negative row", EditEvent{Row: -1, Column: ColQuantity, Value: 1}},
		{"read-only ticker", EditEvent{Row: 0, Column: ColTicker, Value: "NVDA"}},
		{"read-only price", EditEvent{Row: 0, Column: ColPrice, Value: decimal.NewFromInt(1)}},
		{"read-only value", EditEvent{Row: 0, Column: ColValue, Value: decimal.NewFromInt(1)}},
		{"read-only company", EditEvent{Row: 0, Column: ColCompany, Value: "Nvidia"}},
		{"negative quantity", EditEvent{Row: 0, Column: ColQuantity, Value: -1}},
		{"quantity wrong type", EditEvent{Row: 0, Column: ColQuantity, Value: "10"}},
		{"unknown action", EditEvent{Row: 0, Column: ColAction, Value: Action("short")}},
		{"action wrong type", EditEvent{Row: 0, Column: ColAction, Value: "buy"}},
		{"notes too long", EditEvent{Row: 0, Column: ColNotes, Value: strings.Repeat("a", 101)}},
		{"notes wrong type", EditEvent{Row: 0, Column: ColNotes, Value: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, store, ch := newTestReconciler(t)
			before := store.Snapshot()

			err := rec.Apply(tt.ev)
			if !errors.Is(err, ErrRejected) {
				t.Fatalf("Apply() error = %v, want ErrRejected", err)
			}

			after := store.Snapshot()
			for i := range before {
				if before[i].Quantity != after[i].Quantity ||
					!before[i].Value.Equal(after[i].Value) ||
					before[i].Action != after[i].Action ||
					before[i].Notes != after[i].Notes {
					t.Errorf("row %d changed by rejected edit", i)
				}
			}

			if rec.Revision() != 0 {
				t.Errorf("Revision() = %v, want 0", rec.Revision())
			}
			select {
			case <-ch:
				t.Error("rejected edit should not publish")
			default:
			}
		})
	}
}

func TestApply_NotesAtLimit(t *testing.T) {
	rec, store, _ := newTestReconciler(t)

	notes := strings.Repeat("b", 100)
	if err := rec.Apply(EditEvent{Row: 0, Column: ColNotes, Value: notes}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	pos, _ := store.Position(0)
	if pos.Notes != notes {
		t.Error("100-character notes should be accepted")
	}
}

func TestRevision_CountsQuantityEdits(t *testing.T) {
	rec, _, _ := newTestReconciler(t)

	edits := []EditEvent{
		{Row: 0, Column: ColQuantity, Value: 10},
		{Row: 1, Column: ColAction, Value: ActionHold},
		{Row: 1, Column: ColQuantity, Value: 20},
		{Row: 2, Column: ColNotes, Value: "hold through split"},
		{Row: 2, Column: ColQuantity, Value: 30},
	}

	var last uint64
	for _, ev := range edits {
		if err := rec.Apply(ev); err != nil {
			t.Fatalf("Apply(%+v) error = %v", ev, err)
		}
		if rec.Revision() < last {
			t.Fatalf("Revision went backwards: %d -> %d", last, rec.Revision())
		}
		last = rec.Revision()
	}

	if rec.Revision() != 3 {
		t.Errorf("Revision() = %v, want 3 (one per quantity edit)", rec.Revision())
	}
}

// Initial snapshot AAPL quantity=75 at price P; editing quantity to 100 moves
// value to 100 x P and the revision from 0 to 1.
func TestScenario_QuantityEditRipplesToTotal(t *testing.T) {
	rec, store, _ := newTestReconciler(t)

	if rec.Revision() != 0 {
		t.Fatalf("initial Revision() = %v, want 0", rec.Revision())
	}

	price := decimal.RequireFromString("186.00")
	if err := rec.Apply(EditEvent{Row: 0, Column: ColQuantity, Value: 100}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	pos, _ := store.Position(0)
	if !pos.Value.Equal(price.Mul(decimal.NewFromInt(100))) {
		t.Errorf("Value = %v, want 100 x %v", pos.Value, price)
	}
	if rec.Revision() != 1 {
		t.Errorf("Revision() = %v, want 1", rec.Revision())
	}
}
