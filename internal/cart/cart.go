package cart

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/appetiteclub/bistro/internal/menu"
	"github.com/appetiteclub/bistro/internal/order"
	"github.com/appetiteclub/bistro/pkg/enums/orderstatus"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrItemUnavailable = errors.New("menu item is not available")
	ErrLineNotFound    = errors.New("cart line not found")
)

// Estimated prep time is drawn from [EstimateBaseMinutes,
// EstimateBaseMinutes+EstimateSpreadMinutes). A placeholder for a real
// queue-depth based estimate.
const (
	EstimateBaseMinutes   = 15
	EstimateSpreadMinutes = 15
)

// Options tune a cart. Zero values mean no checkout latency, time-seeded
// randomness and the wall clock.
type Options struct {
	CheckoutLatency time.Duration
	Rand            *rand.Rand
	Now             func() time.Time
}

// Cart accumulates one session's selection ahead of checkout. All mutations
// run through the pure Apply reducer under the cart's lock.
type Cart struct {
	mu    sync.Mutex
	state State

	ids     *order.IDSource
	latency time.Duration
	rng     *rand.Rand
	now     func() time.Time
}

func New(ids *order.IDSource, opts Options) *Cart {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cart{
		ids:     ids,
		latency: opts.CheckoutLatency,
		rng:     opts.Rand,
		now:     opts.Now,
	}
}

// AddItem puts the menu item in the cart, merging with an existing line for
// the same item. Unavailable items are rejected even though the UI disables
// them.
func (c *Cart) AddItem(item menu.MenuItem, quantity int, instructions string) error {
	if !item.Available {
		return ErrItemUnavailable
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Apply(c.state, AddItem{Item: item, Quantity: quantity, Instructions: instructions})
	return nil
}

// RemoveItem deletes the line for the item. Removing an absent line is not
// an error.
func (c *Cart) RemoveItem(itemID menu.MenuItemID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Apply(c.state, RemoveItem{ItemID: itemID})
}

// SetQuantity replaces the line's quantity; zero or below removes the line.
func (c *Cart) SetQuantity(itemID menu.MenuItemID, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity > 0 && c.state.findLine(itemID) < 0 {
		return ErrLineNotFound
	}
	c.state = Apply(c.state, SetQuantity{ItemID: itemID, Quantity: quantity})
	return nil
}

// SetInstructions replaces the line's special instructions.
func (c *Cart) SetInstructions(itemID menu.MenuItemID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.findLine(itemID) < 0 {
		return ErrLineNotFound
	}
	c.state = Apply(c.state, SetInstructions{ItemID: itemID, Text: text})
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Apply(c.state, Clear{})
}

// Lines returns a copy of the cart content in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneLines(c.state.Lines)
}

// TotalItems returns the summed quantity across lines.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.TotalItems()
}

// TotalAmount returns the summed price times quantity across lines.
func (c *Cart) TotalAmount() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.TotalAmount()
}

// Checkout converts the cart into a pending order and clears the cart. The
// order owns a snapshot of the lines; later cart activity cannot reach it.
// The configured latency simulates order placement and honours ctx, so a
// navigated-away caller creates no order.
func (c *Cart) Checkout(ctx context.Context, tableNumber, customerName string) (*order.Order, error) {
	if c.latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.latency):
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.state.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	now := c.now()
	placed := &order.Order{
		ID:               c.ids.Next(),
		Lines:            cloneLines(c.state.Lines),
		Status:           orderstatus.Statuses.Pending.Code(),
		TableNumber:      tableNumber,
		CustomerName:     customerName,
		TotalAmount:      c.state.TotalAmount(),
		CreatedAt:        now,
		UpdatedAt:        now,
		EstimatedMinutes: EstimateBaseMinutes + c.rng.Intn(EstimateSpreadMinutes),
	}

	c.state = Apply(c.state, Clear{})
	return placed, nil
}
