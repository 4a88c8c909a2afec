package menu

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MenuItemID = uuid.UUID

// MenuItem represents a dish, drink or any offerable product. Items are owned
// by the catalog and never mutated after load; consumers receive value copies.
type MenuItem struct {
	ID          MenuItemID      `json:"id"`
	ShortCode   string          `json:"short_code"` // Unique within catalog
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"` // menucategory code
	Veg         bool            `json:"is_veg"`
	Available   bool            `json:"is_available"`
}

// EnsureID generates a new UUID if ID is nil
func (m *MenuItem) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// GetID returns the menu item ID
func (m *MenuItem) GetID() uuid.UUID {
	return m.ID
}

// ResourceType returns the resource type for URL generation
func (m *MenuItem) ResourceType() string {
	return "menu/item"
}
