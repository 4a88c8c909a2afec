package menu

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/appetiteclub/bistro/pkg/enums/menucategory"
)

var ErrItemNotFound = errors.New("menu item not found")

// Filter narrows catalog listings. The zero value matches every item.
type Filter struct {
	Category      string // menucategory code, empty matches all
	AvailableOnly bool
}

// Catalog is the read-only set of orderable items for the process lifetime.
// It is immutable after construction, so reads need no locking.
type Catalog struct {
	items       []MenuItem
	byID        map[MenuItemID]int
	byShortCode map[string]int
}

// NewCatalog builds a catalog from the given items. It rejects negative
// prices, unknown categories and duplicate ids or short codes.
func NewCatalog(items []MenuItem) (*Catalog, error) {
	c := &Catalog{
		items:       make([]MenuItem, 0, len(items)),
		byID:        make(map[MenuItemID]int, len(items)),
		byShortCode: make(map[string]int, len(items)),
	}

	for _, item := range items {
		item.EnsureID()
		if item.Price.IsNegative() {
			return nil, fmt.Errorf("menu item %s: negative price %s", item.ShortCode, item.Price)
		}
		if menucategory.ByName(item.Category) == nil {
			return nil, fmt.Errorf("menu item %s: unknown category %q", item.ShortCode, item.Category)
		}
		if _, exists := c.byID[item.ID]; exists {
			return nil, fmt.Errorf("menu item %s: duplicate id %s", item.ShortCode, item.ID)
		}
		if _, exists := c.byShortCode[item.ShortCode]; item.ShortCode != "" && exists {
			return nil, fmt.Errorf("duplicate menu item short code %q", item.ShortCode)
		}

		idx := len(c.items)
		c.items = append(c.items, item)
		c.byID[item.ID] = idx
		if item.ShortCode != "" {
			c.byShortCode[item.ShortCode] = idx
		}
	}

	return c, nil
}

// Items returns the items matching the filter, preserving catalog order.
func (c *Catalog) Items(filter Filter) []MenuItem {
	result := make([]MenuItem, 0, len(c.items))
	for _, item := range c.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.AvailableOnly && !item.Available {
			continue
		}
		result = append(result, item)
	}
	return result
}

// Get returns the item with the given id.
func (c *Catalog) Get(id uuid.UUID) (MenuItem, error) {
	idx, ok := c.byID[id]
	if !ok {
		return MenuItem{}, ErrItemNotFound
	}
	return c.items[idx], nil
}

// GetByShortCode returns the item with the given short code.
func (c *Catalog) GetByShortCode(code string) (MenuItem, error) {
	idx, ok := c.byShortCode[code]
	if !ok {
		return MenuItem{}, ErrItemNotFound
	}
	return c.items[idx], nil
}

// Len returns the number of items in the catalog.
func (c *Catalog) Len() int {
	return len(c.items)
}
