package cart

import (
	cartdto "github.com/brazzaeats/brazzaeats-backend/api/controllers/cart/dto"
	"github.com/brazzaeats/brazzaeats-backend/api/validators"
	"github.com/brazzaeats/brazzaeats-backend/internal/cart"
)

const maxOptionLength = 60

func toAddItemInput(payload cartdto.AddItemRequest) cart.AddItemInput {
	options := make([]string, 0, len(payload.Options))
	for _, option := range payload.Options {
		if trimmed := validators.SanitizeString(option, maxOptionLength); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	return cart.AddItemInput{
		RestaurantID: validators.SanitizeString(payload.RestaurantID, 0),
		DishID:       validators.SanitizeString(payload.DishID, 0),
		Quantity:     payload.Quantity,
		Options:      options,
	}
}
