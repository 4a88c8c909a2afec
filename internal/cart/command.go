package cart

import (
	"github.com/shopspring/decimal"

	"github.com/appetiteclub/bistro/internal/menu"
	"github.com/appetiteclub/bistro/internal/order"
)

// Line is a cart position. It is the same shape an order snapshots at
// checkout, so checkout is a plain copy.
type Line = order.Line

// State is the cart content. Commands produce a new State and never mutate
// the input, which keeps Apply trivially unit-testable.
type State struct {
	Lines []Line
}

// TotalItems returns the summed quantity across lines.
func (s State) TotalItems() int {
	total := 0
	for _, line := range s.Lines {
		total += line.Quantity
	}
	return total
}

// TotalAmount returns the summed price times quantity across lines.
func (s State) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (s State) findLine(itemID menu.MenuItemID) int {
	for i, line := range s.Lines {
		if line.Item.ID == itemID {
			return i
		}
	}
	return -1
}

// Command is a cart mutation. The concrete commands form a tagged union
// dispatched by Apply.
type Command interface {
	isCommand()
}

// AddItem appends a line, or increments the quantity of the existing line
// for the same menu item. A repeat add never overwrites instructions.
// Quantities below 1 are treated as 1.
type AddItem struct {
	Item         menu.MenuItem
	Quantity     int
	Instructions string
}

// RemoveItem deletes the line for the menu item; absent lines are a no-op.
type RemoveItem struct {
	ItemID menu.MenuItemID
}

// SetQuantity replaces the line's quantity. Zero or negative removes the
// line; absent lines are a no-op.
type SetQuantity struct {
	ItemID   menu.MenuItemID
	Quantity int
}

// SetInstructions replaces the line's special instructions; absent lines are
// a no-op.
type SetInstructions struct {
	ItemID menu.MenuItemID
	Text   string
}

// Clear empties the cart.
type Clear struct{}

func (AddItem) isCommand()         {}
func (RemoveItem) isCommand()      {}
func (SetQuantity) isCommand()     {}
func (SetInstructions) isCommand() {}
func (Clear) isCommand()           {}

// Apply is the pure cart transition function. The returned state shares no
// line storage with the input.
func Apply(state State, cmd Command) State {
	switch c := cmd.(type) {
	case AddItem:
		quantity := c.Quantity
		if quantity < 1 {
			quantity = 1
		}
		next := cloneLines(state.Lines)
		if idx := state.findLine(c.Item.ID); idx >= 0 {
			next[idx].Quantity += quantity
			return State{Lines: next}
		}
		next = append(next, Line{Item: c.Item, Quantity: quantity, Instructions: c.Instructions})
		return State{Lines: next}

	case RemoveItem:
		idx := state.findLine(c.ItemID)
		if idx < 0 {
			return State{Lines: cloneLines(state.Lines)}
		}
		next := make([]Line, 0, len(state.Lines)-1)
		next = append(next, state.Lines[:idx]...)
		next = append(next, state.Lines[idx+1:]...)
		return State{Lines: next}

	case SetQuantity:
		if c.Quantity <= 0 {
			return Apply(state, RemoveItem{ItemID: c.ItemID})
		}
		next := cloneLines(state.Lines)
		if idx := state.findLine(c.ItemID); idx >= 0 {
			next[idx].Quantity = c.Quantity
		}
		return State{Lines: next}

	case SetInstructions:
		next := cloneLines(state.Lines)
		if idx := state.findLine(c.ItemID); idx >= 0 {
			next[idx].Instructions = c.Text
		}
		return State{Lines: next}

	case Clear:
		return State{}

	default:
		return state
	}
}

func cloneLines(lines []Line) []Line {
	if len(lines) == 0 {
		return nil
	}
	next := make([]Line, len(lines))
	copy(next, lines)
	return next
}
