// Package cart implements the shopping cart: a reducer-style state
// container that stages products for purchase. Nothing here reserves
// stock — quantities are only validated at checkout, by the order service.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jcmexdev/habbo-store/internal/domain"
)

// Line is one staged purchase. Product is a display snapshot taken when
// the line was added; it may go stale (price, stock) and is never trusted
// at checkout.
type Line struct {
	ID        string         `json:"id"`
	ProductID string         `json:"productId"`
	Quantity  int            `json:"quantity"`
	Product   domain.Product `json:"product"`
}

// State is the full cart. Total and Count are always recomputed from
// Items, never adjusted incrementally, so they cannot drift.
type State struct {
	Items []Line `json:"items"`
	Total int    `json:"total"`
	Count int    `json:"count"`
}

// Storage is the durable slot the cart snapshot lives in between visits.
type Storage interface {
	Save(ctx context.Context, s State) error

	// Load returns the stored snapshot and true, or ok=false when the slot
	// is empty or unreadable. Load never fails loudly: a broken snapshot
	// just means an empty cart.
	Load(ctx context.Context) (State, bool)
}

// Store holds the cart state and notifies subscribers after every change.
// Mutations are serialised by an internal mutex so a session handler can
// share one Store across requests.
type Store struct {
	mu      sync.Mutex
	state   State
	storage Storage
	subs    map[int]func(State)
	nextSub int
}

// New returns an empty cart. storage may be nil (no persistence).
func New(storage Storage) *Store {
	return &Store{
		storage: storage,
		subs:    make(map[int]func(State)),
	}
}

// Restore loads the persisted snapshot, if any. Missing or malformed data
// silently leaves the cart empty.
func (s *Store) Restore(ctx context.Context) {
	if s.storage == nil {
		return
	}
	snapshot, ok := s.storage.Load(ctx)
	if !ok {
		return
	}

	s.mu.Lock()
	s.state = recompute(snapshot.Items)
	state := s.state
	s.mu.Unlock()
	s.notify(state)
}

// AddItem stages a product for purchase. An existing line for the same
// product has its quantity incremented; otherwise a new line is appended.
func (s *Store) AddItem(ctx context.Context, p domain.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.apply(ctx, func(items []Line) []Line {
		for i := range items {
			if items[i].ProductID == p.ID {
				items[i].Quantity += quantity
				return items
			}
		}
		return append(items, Line{
			ID:        fmt.Sprintf("%s-%s", p.ID, uuid.New().String()),
			ProductID: p.ID,
			Quantity:  quantity,
			Product:   p,
		})
	})
}

// RemoveItem drops the line for the given product, if present.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.apply(ctx, func(items []Line) []Line {
		kept := items[:0]
		for _, line := range items {
			if line.ProductID != productID {
				kept = append(kept, line)
			}
		}
		return kept
	})
}

// UpdateQuantity replaces a line's quantity. A quantity of zero or less
// removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}
	s.apply(ctx, func(items []Line) []Line {
		for i := range items {
			if items[i].ProductID == productID {
				items[i].Quantity = quantity
			}
		}
		return items
	})
}

// Clear resets the cart to its initial state. Called after a successful
// checkout.
func (s *Store) Clear(ctx context.Context) {
	s.apply(ctx, func([]Line) []Line {
		return nil
	})
}

// State returns a copy of the current cart state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe registers fn to be called after every state change. The
// returned function cancels the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// apply runs a mutation over the items, recomputes total and count from
// scratch, persists the snapshot, and notifies subscribers.
func (s *Store) apply(ctx context.Context, mutate func([]Line) []Line) {
	s.mu.Lock()
	s.state = recompute(mutate(s.state.Items))
	state := s.snapshot()
	s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.Save(ctx, state); err != nil {
			slog.WarnContext(ctx, "cart snapshot save failed", "error", err)
		}
	}
	s.notify(state)
}

func (s *Store) snapshot() State {
	items := make([]Line, len(s.state.Items))
	copy(items, s.state.Items)
	return State{Items: items, Total: s.state.Total, Count: s.state.Count}
}

func (s *Store) notify(state State) {
	s.mu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// recompute derives total and count linearly from the items.
func recompute(items []Line) State {
	state := State{Items: items}
	for _, line := range items {
		state.Total += line.Product.Price * line.Quantity
		state.Count += line.Quantity
	}
	return state
}
