package cart

import "fmt"

// GroupedItem is a cart line together with its position in the flat cart.
type GroupedItem struct {
	Item  Item `json:"item"`
	Index int  `json:"index"`
}

// RestaurantGroup collects the lines ordered from one restaurant.
type RestaurantGroup struct {
	RestaurantID   string        `json:"restaurant_id"`
	RestaurantName string        `json:"restaurant_name"`
	Items          []GroupedItem `json:"items"`
	Subtotal       int64         `json:"subtotal"`
}

// Totals is the priced summary of a cart. All amounts are whole FCFA.
type Totals struct {
	Subtotal        int64 `json:"subtotal"`
	RestaurantCount int   `json:"restaurant_count"`
	DeliveryFee     int64 `json:"delivery_fee"`
	Total           int64 `json:"total"`
	ItemCount       int   `json:"item_count"`
	TotalQuantity   int   `json:"total_quantity"`
}

// GroupByRestaurant groups lines by restaurant id. Groups follow the first
// occurrence of each restaurant and lines keep their relative order. The
// input is not modified.
func GroupByRestaurant(items []Item) []RestaurantGroup {
	groups := make([]RestaurantGroup, 0)
	positions := make(map[string]int)
	for idx, item := range items {
		pos, ok := positions[item.RestaurantID]
		if !ok {
			pos = len(groups)
			positions[item.RestaurantID] = pos
			groups = append(groups, RestaurantGroup{
				RestaurantID:   item.RestaurantID,
				RestaurantName: item.RestaurantName,
			})
		}
		groups[pos].Items = append(groups[pos].Items, GroupedItem{Item: item.clone(), Index: idx})
		groups[pos].Subtotal += item.LineTotal()
	}
	return groups
}

// ComputeTotals prices the lines with a flat delivery fee per distinct
// restaurant.
func ComputeTotals(items []Item, feePerRestaurant int64) Totals {
	var totals Totals
	seen := make(map[string]struct{})
	for _, item := range items {
		totals.Subtotal += item.LineTotal()
		totals.TotalQuantity += item.Quantity
		seen[item.RestaurantID] = struct{}{}
	}
	totals.ItemCount = len(items)
	totals.RestaurantCount = len(seen)
	totals.DeliveryFee = int64(totals.RestaurantCount) * feePerRestaurant
	totals.Total = totals.Subtotal + totals.DeliveryFee
	return totals
}

// Quote is the grouped view plus totals rendered for a cart.
type Quote struct {
	Groups []RestaurantGroup `json:"groups"`
	Totals Totals            `json:"totals"`
}

// Pricer binds the configured per-restaurant delivery fee.
type Pricer struct {
	feePerRestaurant int64
}

// NewPricer validates the fee and returns a pricer.
func NewPricer(feePerRestaurant int64) (*Pricer, error) {
	if feePerRestaurant < 0 {
		return nil, fmt.Errorf("fee per restaurant must not be negative, got %d", feePerRestaurant)
	}
	return &Pricer{feePerRestaurant: feePerRestaurant}, nil
}

// FeePerRestaurant returns the configured fee.
func (p *Pricer) FeePerRestaurant() int64 {
	return p.feePerRestaurant
}

// Totals prices items with the configured fee.
func (p *Pricer) Totals(items []Item) Totals {
	return ComputeTotals(items, p.feePerRestaurant)
}

// Quote groups and prices items for the cart screen.
func (p *Pricer) Quote(items []Item) Quote {
	return Quote{
		Groups: GroupByRestaurant(items),
		Totals: p.Totals(items),
	}
}
