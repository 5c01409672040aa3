package catalog

import (
	"fmt"
	"strings"

	"github.com/brazzaeats/brazzaeats-backend/internal/cart"
	"github.com/brazzaeats/brazzaeats-backend/pkg/db/models"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"go.uber.org/multierr"
)

// Dish is a menu entry as exposed to clients.
type Dish struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Popular     bool   `json:"popular"`
}

// Restaurant is a catalog entry with its ordered menu.
type Restaurant struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	CuisineType    string  `json:"cuisine_type"`
	Rating         float64 `json:"rating"`
	DeliveryTime   string  `json:"delivery_time"`
	DeliveryFee    int64   `json:"delivery_fee"`
	Image          string  `json:"image"`
	Logo           string  `json:"logo"`
	Promo          *string `json:"promo,omitempty"`
	IsFeatured     bool    `json:"is_featured"`
	FeaturedReason *string `json:"featured_reason,omitempty"`
	Menu           []Dish  `json:"menu"`
}

// DishListing is a dish joined with the restaurant serving it.
type DishListing struct {
	Dish
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
}

// CartDish converts the dish into the snapshot stored on cart lines.
func (d Dish) CartDish() cart.Dish {
	return cart.Dish{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Image:       d.Image,
		Category:    d.Category,
		Popular:     d.Popular,
	}
}

func (r Restaurant) listings() []DishListing {
	out := make([]DishListing, 0, len(r.Menu))
	for _, d := range r.Menu {
		out = append(out, DishListing{Dish: d, RestaurantID: r.ID, RestaurantName: r.Name})
	}
	return out
}

func fromModel(m models.Restaurant) Restaurant {
	menu := make([]Dish, 0, len(m.Menu))
	for _, d := range m.Menu {
		menu = append(menu, dishFromModel(d))
	}
	return Restaurant{
		ID:             m.ID,
		Name:           m.Name,
		Description:    m.Description,
		CuisineType:    m.CuisineType,
		Rating:         m.Rating,
		DeliveryTime:   m.DeliveryTime,
		DeliveryFee:    m.DeliveryFee,
		Image:          m.Image,
		Logo:           m.Logo,
		Promo:          m.Promo,
		IsFeatured:     m.IsFeatured,
		FeaturedReason: m.FeaturedReason,
		Menu:           menu,
	}
}

func dishFromModel(d models.Dish) Dish {
	return Dish{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Image:       d.Image,
		Category:    d.Category,
		Popular:     d.Popular,
	}
}

func toModel(r Restaurant, position int) models.Restaurant {
	menu := make([]models.Dish, 0, len(r.Menu))
	for idx, d := range r.Menu {
		menu = append(menu, models.Dish{
			RestaurantID: r.ID,
			ID:           d.ID,
			Name:         d.Name,
			Description:  d.Description,
			Price:        d.Price,
			Image:        d.Image,
			Category:     d.Category,
			Popular:      d.Popular,
			Position:     idx,
		})
	}
	return models.Restaurant{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		CuisineType:    r.CuisineType,
		Rating:         r.Rating,
		DeliveryTime:   r.DeliveryTime,
		DeliveryFee:    r.DeliveryFee,
		Image:          r.Image,
		Logo:           r.Logo,
		Promo:          r.Promo,
		IsFeatured:     r.IsFeatured,
		FeaturedReason: r.FeaturedReason,
		Position:       position,
		Menu:           menu,
	}
}

// validateDocument checks an import document and reports every problem at
// once.
func validateDocument(restaurants []Restaurant) error {
	var errs error
	invalid := func(format string, args ...any) {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf(format, args...)))
	}
	seen := map[string]struct{}{}
	for idx, r := range restaurants {
		label := r.ID
		if strings.TrimSpace(r.ID) == "" {
			label = fmt.Sprintf("#%d", idx)
			invalid("restaurant %s has no id", label)
		} else if _, dup := seen[r.ID]; dup {
			invalid("duplicate restaurant id %s", r.ID)
		}
		seen[r.ID] = struct{}{}
		if strings.TrimSpace(r.Name) == "" {
			invalid("restaurant %s has no name", label)
		}
		if r.DeliveryFee < 0 {
			invalid("restaurant %s has a negative delivery fee", label)
		}
		dishes := map[string]struct{}{}
		for pos, d := range r.Menu {
			if strings.TrimSpace(d.ID) == "" {
				invalid("dish %s/#%d has no id", label, pos)
				continue
			}
			if d.Price <= 0 {
				invalid("dish %s/%s must have a positive price", label, d.ID)
			}
			if _, dup := dishes[d.ID]; dup {
				invalid("duplicate dish id %s/%s", label, d.ID)
			}
			dishes[d.ID] = struct{}{}
		}
	}
	return errs
}
