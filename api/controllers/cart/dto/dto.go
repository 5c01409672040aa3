package cartdto

// AddItemRequest identifies the catalog dish to add and its customization.
type AddItemRequest struct {
	RestaurantID string   `json:"restaurant_id" validate:"required,max=64"`
	DishID       string   `json:"dish_id" validate:"required,max=64"`
	Quantity     int      `json:"quantity" validate:"min=1,max=99"`
	Options      []string `json:"options" validate:"max=10,dive,max=60"`
}

// UpdateQuantityRequest sets the quantity of one cart line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=1,max=99"`
}
