// Package cart holds the per-session shopping cart and its persistence.
package cart

import (
	"strconv"
	"sync"

	"storefront/internal/model"
	"storefront/internal/pricing"

	"github.com/shopspring/decimal"
)

// ChangeKind describes what a Store mutation did.
type ChangeKind int

const (
	// ChangeUpdated means lines were added, removed or re-quantified.
	ChangeUpdated ChangeKind = iota + 1

	// ChangeCleared means the cart was explicitly emptied.
	ChangeCleared
)

// Change is delivered to listeners after every state-changing mutation.
type Change struct {
	Kind  ChangeKind
	Lines []model.CartLine
}

// Listener receives change notifications. Listeners run while the store is
// locked and must not call back into the Store.
type Listener func(Change)

// Item is the product snapshot captured when a product is added.
type Item struct {
	ProductID string
	Price     decimal.Decimal
	Name      string
	ImageRef  string
}

// ItemFromProduct snapshots a catalogue product for the cart.
func ItemFromProduct(p model.Product) Item {
	return Item{
		ProductID: strconv.FormatInt(p.ID, 10),
		Price:     p.Price,
		Name:      p.Name,
		ImageRef:  p.ImageURL,
	}
}

// Store is the single source of truth for one cart. After every operation
// lines holds at most one entry per product and every quantity is >= 1.
type Store struct {
	mu        sync.Mutex
	lines     []model.CartLine
	open      bool
	listeners map[int]Listener
	nextID    int
}

// NewStore creates an empty cart.
func NewStore() *Store {
	return &Store{
		listeners: make(map[int]Listener),
	}
}

// AddItem increments the quantity of an existing line or appends a new line
// with quantity 1 and the item's price snapshot.
func (s *Store) AddItem(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(item.ProductID); i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, model.CartLine{
			ProductID: item.ProductID,
			UnitPrice: item.Price,
			Quantity:  1,
			Name:      item.Name,
			ImageRef:  item.ImageRef,
		})
	}

	s.notify(ChangeUpdated)
}

// RemoveItem deletes the line for productID. Removing an absent product is a no-op.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(productID)
}

// UpdateQuantity sets a line's quantity. A quantity <= 0 removes the line.
// It reports false, leaving state untouched, when productID is not in the cart.
func (s *Store) UpdateQuantity(productID string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return false
	}

	if quantity <= 0 {
		s.remove(productID)
		return true
	}

	if s.lines[i].Quantity != quantity {
		s.lines[i].Quantity = quantity
		s.notify(ChangeUpdated)
	}
	return true
}

// Clear empties the cart and closes the cart view.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.open = false
	s.notify(ChangeCleared)
}

// RemoveLines subtracts the quantities in charged from the matching lines,
// dropping lines that reach zero. Lines added or raised since charged was
// taken survive. Emptying the cart this way counts as a clear.
func (s *Store) RemoveLines(charged []model.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, c := range charged {
		i := s.indexOf(c.ProductID)
		if i < 0 || c.Quantity <= 0 {
			continue
		}
		changed = true
		if s.lines[i].Quantity > c.Quantity {
			s.lines[i].Quantity -= c.Quantity
			continue
		}
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}

	if len(s.lines) == 0 {
		s.lines = nil
		s.open = false
		s.notify(ChangeCleared)
		return
	}
	if changed {
		s.notify(ChangeUpdated)
	}
}

// OpenView marks the cart overlay visible.
func (s *Store) OpenView() {
	s.mu.Lock()
	s.open = true
	s.mu.Unlock()
}

// CloseView hides the cart overlay.
func (s *Store) CloseView() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

// IsOpen reports whether the cart overlay is visible.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLines()
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// ItemCount is the sum of all line quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Subtotal is the sum of unit price times quantity over all lines.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Subtotal(s.lines)
}

// Load replaces the cart contents without notifying listeners. It is the
// rehydration entry point: lines with quantity < 1 are dropped and duplicate
// products are merged.
func (s *Store) Load(lines []model.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity < 1 {
			continue
		}
		if i := s.indexOf(line.ProductID); i >= 0 {
			s.lines[i].Quantity += line.Quantity
			continue
		}
		s.lines = append(s.lines, line)
	}
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) remove(productID string) {
	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.notify(ChangeUpdated)
}

func (s *Store) indexOf(productID string) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) copyLines() []model.CartLine {
	out := make([]model.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// notify must be called with mu held.
func (s *Store) notify(kind ChangeKind) {
	if len(s.listeners) == 0 {
		return
	}
	change := Change{Kind: kind, Lines: s.copyLines()}
	for _, l := range s.listeners {
		l(change)
	}
}
