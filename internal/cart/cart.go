package cart

import (
	"slices"
	"strings"

	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
)

// Dish is the catalog snapshot copied into a cart line. Later catalog price
// changes never reach an item already in the cart.
type Dish struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Popular     bool   `json:"popular"`
}

// RestaurantRef names the restaurant a dish is ordered from.
type RestaurantRef struct {
	ID   string
	Name string
}

// Item is one cart line.
type Item struct {
	Dish
	Quantity       int      `json:"quantity"`
	Options        []string `json:"options"`
	RestaurantID   string   `json:"restaurant_id"`
	RestaurantName string   `json:"restaurant_name"`
}

// LineTotal is price times quantity.
func (i Item) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

func (i Item) clone() Item {
	out := i
	if i.Options != nil {
		out.Options = slices.Clone(i.Options)
	} else {
		out.Options = []string{}
	}
	return out
}

// matches reports merge identity: same dish, same restaurant and the same
// options regardless of order. Duplicated options count.
func (i Item) matches(dishID, restaurantID string, options []string) bool {
	if i.ID != dishID || i.RestaurantID != restaurantID {
		return false
	}
	return sameOptions(i.Options, options)
}

func sameOptions(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	return slices.Equal(normalizeOptions(a), normalizeOptions(b))
}

func normalizeOptions(options []string) []string {
	sorted := slices.Clone(options)
	slices.Sort(sorted)
	return sorted
}

// Cart is an ordered sequence of items addressed by position. Positions are
// only valid until the next mutation. The zero value is an empty cart.
type Cart struct {
	items []Item
}

// New rebuilds a cart from previously stored items.
func New(items []Item) (*Cart, error) {
	c := &Cart{}
	for idx, item := range items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stored cart item has invalid quantity").
				WithDetails(map[string]any{"index": idx, "quantity": item.Quantity})
		}
		c.items = append(c.items, item.clone())
	}
	return c, nil
}

// AddItem merges into a matching line or appends a new one. The restaurant is
// mandatory.
func (c *Cart) AddItem(dish Dish, quantity int, options []string, restaurant RestaurantRef) error {
	if quantity < 1 {
		return invalidQuantity(quantity)
	}
	if strings.TrimSpace(dish.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "dish id is required")
	}
	if strings.TrimSpace(restaurant.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "restaurant is required")
	}

	for idx := range c.items {
		if c.items[idx].matches(dish.ID, restaurant.ID, options) {
			c.items[idx].Quantity += quantity
			return nil
		}
	}

	item := Item{
		Dish:           dish,
		Quantity:       quantity,
		Options:        slices.Clone(options),
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
	}
	if item.Options == nil {
		item.Options = []string{}
	}
	c.items = append(c.items, item)
	return nil
}

// UpdateQuantity sets the quantity at index. A quantity below one is
// rejected and never removes the item.
func (c *Cart) UpdateQuantity(index, quantity int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	if quantity < 1 {
		return invalidQuantity(quantity)
	}
	c.items[index].Quantity = quantity
	return nil
}

// RemoveItem deletes the item at index and shifts later items down.
func (c *Cart) RemoveItem(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.items = slices.Delete(c.items, index, index+1)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Items returns a deep copy of the lines in cart order.
func (c *Cart) Items() []Item {
	out := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item.clone())
	}
	return out
}

func (c *Cart) checkIndex(index int) error {
	if index < 0 || index >= len(c.items) {
		return pkgerrors.New(pkgerrors.CodeOutOfRange, "cart index out of range").
			WithDetails(map[string]any{"index": index, "length": len(c.items)})
	}
	return nil
}

func invalidQuantity(quantity int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
		WithDetails(map[string]any{"quantity": quantity})
}
