package holdings

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Store owns the ordered positions. All reads go through Snapshot (a copy)
// so no caller ever observes a partially patched row; the mutex keeps that
// true even when readers run outside the UI event loop.
type Store struct {
	mu        sync.RWMutex
	positions []Position
}

// NewStore creates a store seeded with the given positions.
func NewStore(positions []Position) *Store {
	owned := make([]Position, len(positions))
	copy(owned, positions)
	return &Store{positions: owned}
}

// Len returns the number of positions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.positions)
}

// Snapshot returns a point-in-time copy of all positions.
func (s *Store) Snapshot() []Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]Position, len(s.positions))
	copy(snapshot, s.positions)
	return snapshot
}

// Position returns a copy of the row at the given index.
func (s *Store) Position(row int) (Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if row < 0 || row >= len(s.positions) {
		return Position{}, fmt.Errorf("row %d out of range", row)
	}
	return s.positions[row], nil
}

// Patch applies a single-cell write. The value's type must match the column.
func (s *Store) Patch(row int, column string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row < 0 || row >= len(s.positions) {
		return fmt.Errorf("row %d out of range", row)
	}

	p := &s.positions[row]
	switch column {
	case ColQuantity:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("column %s wants int, got %T", column, value)
		}
		p.Quantity = v
	case ColValue:
		v, ok := value.(decimal.Decimal)
		if !ok {
			return fmt.Errorf("column %s wants decimal, got %T", column, value)
		}
		p.Value = v
	case ColPrice:
		v, ok := value.(decimal.Decimal)
		if !ok {
			return fmt.Errorf("column %s wants decimal, got %T", column, value)
		}
		p.Price = v
	case ColAction:
		v, ok := value.(Action)
		if !ok {
			return fmt.Errorf("column %s wants Action, got %T", column, value)
		}
		p.Action = v
	case ColNotes:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("column %s wants string, got %T", column, value)
		}
		p.Notes = v
	default:
		return fmt.Errorf("unknown column %s", column)
	}

	return nil
}

// setQuantityAndValue writes the quantity cell and its derived value cell
// under one lock, so readers never see one without the other.
func (s *Store) setQuantityAndValue(row, quantity int, value decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row < 0 || row >= len(s.positions) {
		return fmt.Errorf("row %d out of range", row)
	}

	s.positions[row].Quantity = quantity
	s.positions[row].Value = value
	return nil
}
