package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/brazzaeats/brazzaeats-backend/internal/cart"
	"github.com/brazzaeats/brazzaeats-backend/pkg/db/models"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"go.uber.org/multierr"
)

// DefaultRecommendationLimit caps recommendation lists.
const DefaultRecommendationLimit = 5

// CategoryAll disables category filtering.
const CategoryAll = "Tout"

// categoryAliases maps home-screen categories onto the cuisine keywords they
// cover. Other categories match the cuisine type directly.
var categoryAliases = map[string][]string{
	"africain": {"congolais", "africain"},
	"dessert":  {"boulangerie", "pâtisserie", "dessert", "glace"},
	"sushi":    {"japonais", "sushi"},
}

// Service exposes read access to the catalog plus the import used by seeding.
type Service interface {
	List(ctx context.Context, category string) ([]Restaurant, error)
	Get(ctx context.Context, id string) (Restaurant, error)
	FindDish(ctx context.Context, restaurantID, dishID string) (DishListing, error)
	LookupDish(ctx context.Context, restaurantID, dishID string) (cart.Dish, cart.RestaurantRef, error)
	Search(ctx context.Context, query string) ([]Restaurant, error)
	Dishes(ctx context.Context, category string) ([]DishListing, error)
	Featured(ctx context.Context) ([]Restaurant, error)
	Recommend(ctx context.Context, preferences []string, limit int) ([]DishListing, error)
	Import(ctx context.Context, restaurants []Restaurant) (ImportSummary, error)
}

// ImportSummary counts what an import wrote.
type ImportSummary struct {
	Restaurants int `json:"restaurants"`
	Dishes      int `json:"dishes"`
}

type service struct {
	repo Repository
}

// NewService builds a catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) all(ctx context.Context) ([]Restaurant, error) {
	rows, err := s.repo.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Restaurant, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func (s *service) List(ctx context.Context, category string) ([]Restaurant, error) {
	restaurants, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return restaurants, nil
	}
	keywords, ok := categoryAliases[strings.ToLower(category)]
	if !ok {
		keywords = []string{strings.ToLower(category)}
	}
	return filter(restaurants, func(r Restaurant) bool {
		return containsAny(r.CuisineType, keywords)
	}), nil
}

func (s *service) Get(ctx context.Context, id string) (Restaurant, error) {
	row, err := s.repo.GetRestaurant(ctx, id)
	if err != nil {
		return Restaurant{}, err
	}
	return fromModel(*row), nil
}

func (s *service) FindDish(ctx context.Context, restaurantID, dishID string) (DishListing, error) {
	restaurant, err := s.Get(ctx, restaurantID)
	if err != nil {
		return DishListing{}, err
	}
	for _, listing := range restaurant.listings() {
		if listing.ID == dishID {
			return listing, nil
		}
	}
	return DishListing{}, pkgerrors.New(pkgerrors.CodeNotFound, "dish not found").
		WithDetails(map[string]any{"restaurant_id": restaurantID, "dish_id": dishID})
}

// LookupDish resolves the snapshot a cart line stores for a dish.
func (s *service) LookupDish(ctx context.Context, restaurantID, dishID string) (cart.Dish, cart.RestaurantRef, error) {
	listing, err := s.FindDish(ctx, restaurantID, dishID)
	if err != nil {
		return cart.Dish{}, cart.RestaurantRef{}, err
	}
	return listing.CartDish(), cart.RestaurantRef{ID: listing.RestaurantID, Name: listing.RestaurantName}, nil
}

// Search matches restaurant names, cuisine types, dish names and dish
// categories, ignoring case. An empty query returns the whole catalog.
func (s *service) Search(ctx context.Context, query string) ([]Restaurant, error) {
	restaurants, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return restaurants, nil
	}
	return filter(restaurants, func(r Restaurant) bool {
		if containsAny(r.Name, []string{needle}) || containsAny(r.CuisineType, []string{needle}) {
			return true
		}
		for _, d := range r.Menu {
			if containsAny(d.Name, []string{needle}) || containsAny(d.Category, []string{needle}) {
				return true
			}
		}
		return false
	}), nil
}

func (s *service) Dishes(ctx context.Context, category string) ([]DishListing, error) {
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, CategoryAll) {
		category = ""
	}
	rows, err := s.repo.ListDishes(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]DishListing, 0, len(rows))
	for _, row := range rows {
		out = append(out, DishListing{
			Dish:           dishFromModel(row.Dish),
			RestaurantID:   row.RestaurantID,
			RestaurantName: row.RestaurantName,
		})
	}
	return out, nil
}

func (s *service) Featured(ctx context.Context) ([]Restaurant, error) {
	restaurants, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return filter(restaurants, func(r Restaurant) bool { return r.IsFeatured }), nil
}

// Recommend lists dishes whose category or restaurant cuisine mentions one
// of the preference tags, home-screen aliases included. Without preferences
// the popular dishes are used.
func (s *service) Recommend(ctx context.Context, preferences []string, limit int) ([]DishListing, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	restaurants, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(preferences))
	for _, p := range preferences {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			tags = append(tags, p)
			tags = append(tags, categoryAliases[p]...)
		}
	}

	out := make([]DishListing, 0, limit)
	for _, r := range restaurants {
		for _, listing := range r.listings() {
			if len(out) == limit {
				return out, nil
			}
			match := listing.Popular
			if len(tags) > 0 {
				match = containsAny(listing.Category, tags) || containsAny(r.CuisineType, tags)
			}
			if match {
				out = append(out, listing)
			}
		}
	}
	return out, nil
}

// Import validates the document and replaces the listed restaurants and
// their menus. Catalog order follows the document.
func (s *service) Import(ctx context.Context, restaurants []Restaurant) (ImportSummary, error) {
	if len(restaurants) == 0 {
		return ImportSummary{}, pkgerrors.New(pkgerrors.CodeValidation, "catalog document is empty")
	}
	if err := validateDocument(restaurants); err != nil {
		problems := make([]string, 0)
		for _, problem := range multierr.Errors(err) {
			if typed := pkgerrors.As(problem); typed != nil {
				problems = append(problems, typed.Message())
				continue
			}
			problems = append(problems, problem.Error())
		}
		return ImportSummary{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid catalog document").
			WithDetails(map[string]any{"problems": problems})
	}
	rows := make([]models.Restaurant, 0, len(restaurants))
	summary := ImportSummary{}
	for idx, r := range restaurants {
		rows = append(rows, toModel(r, idx))
		summary.Restaurants++
		summary.Dishes += len(r.Menu)
	}
	if err := s.repo.ReplaceRestaurants(ctx, rows); err != nil {
		return ImportSummary{}, err
	}
	return summary, nil
}

// DecodeDocument parses a catalog document: a JSON array of restaurants.
func DecodeDocument(r io.Reader) ([]Restaurant, error) {
	var restaurants []Restaurant
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&restaurants); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode catalog document")
	}
	return restaurants, nil
}

func filter(restaurants []Restaurant, keep func(Restaurant) bool) []Restaurant {
	out := make([]Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsAny(value string, lowered []string) bool {
	value = strings.ToLower(value)
	for _, needle := range lowered {
		if strings.Contains(value, needle) {
			return true
		}
	}
	return false
}
