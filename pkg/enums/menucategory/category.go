package menucategory

import "strings"

type Category struct {
	Name string
}

func (c Category) Code() string {
	return c.Name
}

func (c Category) Label() string {
	// Capitalize first letter
	if len(c.Name) == 0 {
		return ""
	}
	return strings.ToUpper(c.Name[:1]) + c.Name[1:]
}

type Enum struct {
	Starters Category
	Mains    Category
	Drinks   Category
	Desserts Category
}

var Categories = Enum{
	Starters: Category{Name: "starters"},
	Mains:    Category{Name: "mains"},
	Drinks:   Category{Name: "drinks"},
	Desserts: Category{Name: "desserts"},
}

var All = []Category{
	Categories.Starters,
	Categories.Mains,
	Categories.Drinks,
	Categories.Desserts,
}

// ByName returns the category for a given name, or nil if not found
func ByName(name string) *Category {
	for _, c := range All {
		if c.Name == name {
			return &c
		}
	}
	return nil
}
