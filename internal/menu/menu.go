package menu

// Item is one dish on the menu. The catalog is static reference data,
// loaded once and never mutated at runtime.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image,omitempty"`
	InStock     bool   `json:"inStock"`
	Inventory   int    `json:"inventory"`
}

// Category groups menu items for display.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var categories = []Category{
	{ID: "starters", Name: "Starters"},
	{ID: "main-course", Name: "Main Course"},
	{ID: "drinks", Name: "Drinks"},
	{ID: "desserts", Name: "Desserts"},
}

var items = []Item{
	{
		ID:          "paneer-tikka",
		Name:        "Paneer Tikka",
		Description: "Grilled cottage cheese with aromatic spices",
		Price:       280,
		Category:    "starters",
		Image:       "https://images.unsplash.com/photo-1585937421612-70a008356fbe?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=200",
		InStock:     true,
		Inventory:   25,
	},
	{
		ID:          "paneer-butter-masala",
		Name:        "Paneer Butter Masala",
		Description: "Rich and creamy cottage cheese curry",
		Price:       320,
		Category:    "main-course",
		Image:       "https://images.unsplash.com/photo-1631452180539-96aca7d48617?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=200",
		InStock:     true,
		Inventory:   30,
	},
	{
		ID:          "veg-samosa",
		Name:        "Veg Samosa",
		Description: "Crispy pastry filled with spiced vegetables",
		Price:       120,
		Category:    "starters",
		Image:       "https://images.unsplash.com/photo-1601050690597-df0568f70950?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=200",
		InStock:     true,
		Inventory:   40,
	},
	{
		ID:          "chicken-seekh",
		Name:        "Chicken Seekh Kebab",
		Description: "Minced chicken grilled with traditional spices",
		Price:       320,
		Category:    "starters",
		Image:       "https://images.unsplash.com/photo-1599487488170-d11ec9c172f0?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=200",
		InStock:     true,
		Inventory:   20,
	},
	{
		ID:          "garden-salad",
		Name:        "Fresh Garden Salad",
		Description: "Mixed greens with seasonal vegetables",
		Price:       180,
		Category:    "starters",
		Image:       "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=200",
		InStock:     true,
		Inventory:   35,
	},
	{
		ID:          "dal-tadka",
		Name:        "Dal Tadka",
		Description: "Yellow lentils tempered with spices",
		Price:       240,
		Category:    "main-course",
		Image:       "https://images.unsplash.com/photo-1546833999-b9f581a1996d?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=200",
		InStock:     true,
		Inventory:   50,
	},
	{
		ID:          "biryani",
		Name:        "Chicken Biryani",
		Description: "Aromatic basmati rice with spiced chicken",
		Price:       380,
		Category:    "main-course",
		Image:       "https://images.unsplash.com/photo-1563379091339-03246963d159?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=200",
		InStock:     true,
		Inventory:   15,
	},
	{
		ID:          "mango-lassi",
		Name:        "Mango Lassi",
		Description: "Refreshing yogurt drink with fresh mango",
		Price:       120,
		Category:    "drinks",
		Image:       "https://images.unsplash.com/photo-1553909489-cd47e0ef937f?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=200",
		InStock:     true,
		Inventory:   30,
	},
	{
		ID:          "gulab-jamun",
		Name:        "Gulab Jamun",
		Description: "Sweet milk dumplings in rose syrup",
		Price:       160,
		Category:    "desserts",
		Image:       "https://images.unsplash.com/photo-1571167938794-006c1c7dd0b9?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=200",
		InStock:     true,
		Inventory:   25,
	},
}

// Items returns the full catalog in menu order.
func Items() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Categories returns the display categories in menu order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ByCategory returns the items belonging to one category.
func ByCategory(categoryID string) []Item {
	var out []Item
	for _, item := range items {
		if item.Category == categoryID {
			out = append(out, item)
		}
	}
	return out
}

// Find looks up an item by id.
func Find(id string) (Item, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// PriceOf returns the current price for an item id. Unknown ids price
// to 0 rather than failing.
func PriceOf(id string) int {
	item, ok := Find(id)
	if !ok {
		return 0
	}
	return item.Price
}
