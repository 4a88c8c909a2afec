package menu

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/appetiteclub/bistro/pkg/enums/menucategory"
)

// DefaultItems returns the demo catalog. IDs are fixed so demo orders and
// handler examples stay stable across restarts.
func DefaultItems() []MenuItem {
	return []MenuItem{
		{
			ID:          uuid.MustParse("a1000000-0000-0000-0000-000000000001"),
			ShortCode:   "starter-1",
			Name:        "Truffle Arancini",
			Description: "Crispy risotto balls with black truffle",
			Price:       decimal.RequireFromString("14.99"),
			Category:    menucategory.Categories.Starters.Code(),
			Veg:         true,
			Available:   true,
		},
		{
			ID:          uuid.MustParse("a1000000-0000-0000-0000-000000000002"),
			ShortCode:   "starter-2",
			Name:        "Seared Scallops",
			Description: "Hand-dived scallops with cauliflower puree",
			Price:       decimal.RequireFromString("19.99"),
			Category:    menucategory.Categories.Starters.Code(),
			Available:   true,
		},
		{
			ID:          uuid.MustParse("a1000000-0000-0000-0000-000000000003"),
			ShortCode:   "main-1",
			Name:        "Wagyu Ribeye",
			Description: "12oz A5 Wagyu with bone marrow butter",
			Price:       decimal.RequireFromString("89.99"),
			Category:    menucategory.Categories.Mains.Code(),
			Available:   true,
		},
		{
			ID:          uuid.MustParse("a1000000-0000-0000-0000-000000000004"),
			ShortCode:   "main-2",
			Name:        "Pan-Roasted Sea Bass",
			Description: "Wild sea bass with saffron beurre blanc",
			Price:       decimal.RequireFromString("42.99"),
			Category:    menucategory.Categories.Mains.Code(),
			Available:   true,
		},
		{
			ID:          uuid.MustParse("a1000000-0000-0000-0000-000000000005"),
			ShortCode:   "main-3",
			Name:        "Wild Mushroom Pasta",
			Description: "Fresh tagliatelle with porcini",
			Price:       decimal.RequireFromString("32.99"),
			Category:    menucategory.Categories.Mains.Code(),
			Veg:         true,
			Available:   true,
		},
		{
			ID:          uuid.MustParse("a1000000-0000-0000-0000-000000000006"),
			ShortCode:   "main-4",
			Name:        "Lobster Thermidor",
			Description: "Whole lobster, gruyere crust",
			Price:       decimal.RequireFromString("64.99"),
			Category:    menucategory.Categories.Mains.Code(),
			Available:   false, // seasonal, off the menu for the demo
		},
		{
			ID:          uuid.MustParse("a1000000-0000-0000-0000-000000000007"),
			ShortCode:   "drink-1",
			Name:        "Smoked Old Fashioned",
			Description: "Bourbon, maple, applewood smoke",
			Price:       decimal.RequireFromString("16.99"),
			Category:    menucategory.Categories.Drinks.Code(),
			Available:   true,
		},
		{
			ID:          uuid.MustParse("a1000000-0000-0000-0000-000000000008"),
			ShortCode:   "drink-2",
			Name:        "Elderflower Spritz",
			Description: "St-Germain, prosecco, mint",
			Price:       decimal.RequireFromString("12.99"),
			Category:    menucategory.Categories.Drinks.Code(),
			Veg:         true,
			Available:   true,
		},
		{
			ID:          uuid.MustParse("a1000000-0000-0000-0000-000000000009"),
			ShortCode:   "dessert-1",
			Name:        "Molten Chocolate Cake",
			Description: "Warm chocolate fondant",
			Price:       decimal.RequireFromString("14.99"),
			Category:    menucategory.Categories.Desserts.Code(),
			Veg:         true,
			Available:   true,
		},
		{
			ID:          uuid.MustParse("a1000000-0000-0000-0000-00000000000a"),
			ShortCode:   "dessert-2",
			Name:        "Creme Brulee",
			Description: "Tahitian vanilla, torched sugar",
			Price:       decimal.RequireFromString("11.99"),
			Category:    menucategory.Categories.Desserts.Code(),
			Veg:         true,
			Available:   true,
		},
	}
}

// DefaultCatalog builds the catalog from DefaultItems.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(DefaultItems())
	if err != nil {
		// DefaultItems is static; a failure here is a programming error.
		panic(err)
	}
	return catalog
}
