package order

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/apt"

	"github.com/appetiteclub/bistro/pkg/enums/orderstatus"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrOrderExists       = errors.New("order already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Store is the authoritative in-memory registry of all orders for the
// process lifetime, indexed by id and status. Insertion order is kept
// most-recent-first for display. Orders cross the store boundary as deep
// copies in both directions, so callers never observe (or cause) in-place
// mutation of a stored order.
type Store struct {
	mu sync.RWMutex
	// orders indexed by order id
	orders map[string]*Order
	// ids in display order, newest first
	sequence []string
	// index by status code -> order id
	byStatus map[string][]string

	logger apt.Logger
	now    func() time.Time
}

// NewStore creates an empty order store.
func NewStore(logger apt.Logger) *Store {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Store{
		orders:   make(map[string]*Order),
		byStatus: make(map[string][]string),
		logger:   logger,
		now:      time.Now,
	}
}

// Insert registers a new order at the front of the display sequence.
func (s *Store) Insert(order *Order) error {
	if order == nil {
		return errors.New("order is required")
	}
	if order.ID == "" {
		return errors.New("order id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return fmt.Errorf("%w: %s", ErrOrderExists, order.ID)
	}

	s.orders[order.ID] = order.clone()
	s.sequence = append([]string{order.ID}, s.sequence...)
	s.addToIndex(order.Status, order.ID)

	s.logger.Debug("order inserted", "order_id", order.ID, "status", order.Status)
	return nil
}

// Get returns a copy of the order with the given id.
func (s *Store) Get(id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return order.clone(), nil
}

// UpdateStatus applies a status transition to the order with the given id.
// The move must be legal per orderstatus.CanTransition; terminal orders are
// frozen and backward moves are rejected. UpdatedAt is stamped on every
// applied change and never on a rejected one.
func (s *Store) UpdateStatus(id string, next orderstatus.Status) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	current := order.StatusValue()
	if !orderstatus.CanTransition(current, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Code(), next.Code())
	}

	s.removeFromIndex(order.Status, id)
	order.Status = next.Code()
	order.UpdatedAt = s.now()
	s.addToIndex(order.Status, id)

	s.logger.Debug("order status updated",
		"order_id", id, "from", current.Code(), "to", next.Code())
	return order.clone(), nil
}

// List returns copies of all orders, newest first.
func (s *Store) List() []*Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Order, 0, len(s.sequence))
	for _, id := range s.sequence {
		if order := s.orders[id]; order != nil {
			result = append(result, order.clone())
		}
	}
	return result
}

// ListActive returns orders that are neither served nor cancelled,
// preserving store order.
func (s *Store) ListActive() []*Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Order, 0, len(s.sequence))
	for _, id := range s.sequence {
		order := s.orders[id]
		if order != nil && !order.Terminal() {
			result = append(result, order.clone())
		}
	}
	return result
}

// ListByStatus returns orders with the given status code, preserving store
// order. The kitchen display uses this for its columns.
func (s *Store) ListByStatus(status string) []*Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make(map[string]bool, len(s.byStatus[status]))
	for _, id := range s.byStatus[status] {
		members[id] = true
	}

	result := make([]*Order, 0, len(members))
	for _, id := range s.sequence {
		if members[id] {
			result = append(result, s.orders[id].clone())
		}
	}
	return result
}

// Count returns the number of orders in the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// Index helpers, caller must hold the write lock.

func (s *Store) addToIndex(status, id string) {
	s.byStatus[status] = append(s.byStatus[status], id)
}

func (s *Store) removeFromIndex(status, id string) {
	ids := s.byStatus[status]
	for i, existing := range ids {
		if existing == id {
			s.byStatus[status] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}
