package catalog

import (
	"context"
	"errors"

	"github.com/brazzaeats/brazzaeats-backend/internal/repo"
	"github.com/brazzaeats/brazzaeats-backend/pkg/db/models"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository reads and writes the catalog tables.
type Repository interface {
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	ListDishes(ctx context.Context, category string) ([]DishRow, error)
	ReplaceRestaurants(ctx context.Context, restaurants []models.Restaurant) error
}

// DishRow is a dish joined with the name of its restaurant.
type DishRow struct {
	models.Dish
	RestaurantName string `gorm:"column:restaurant_name"`
}

type repository struct {
	repo.Base
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(conn)}
}

func orderedMenu(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

func (r *repository) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var rows []models.Restaurant
	if err := r.DB(ctx).
		Preload("Menu", orderedMenu).
		Order("position ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurants")
	}
	return rows, nil
}

func (r *repository) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	var row models.Restaurant
	err := r.DB(ctx).Preload("Menu", orderedMenu).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found").
			WithDetails(map[string]any{"restaurant_id": id})
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get restaurant")
	}
	return &row, nil
}

func (r *repository) ListDishes(ctx context.Context, category string) ([]DishRow, error) {
	query := r.DB(ctx).
		Model(&models.Dish{}).
		Select("dishes.*, restaurants.name AS restaurant_name").
		Joins("JOIN restaurants ON restaurants.id = dishes.restaurant_id").
		Order("restaurants.position ASC, restaurants.id ASC, dishes.position ASC, dishes.id ASC")
	if category != "" {
		query = query.Where("LOWER(dishes.category) = LOWER(?)", category)
	}
	var rows []DishRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dishes")
	}
	return rows, nil
}

// ReplaceRestaurants upserts every restaurant and replaces its menu in one
// transaction. Restaurants absent from the document are left in place.
func (r *repository) ReplaceRestaurants(ctx context.Context, restaurants []models.Restaurant) error {
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		for _, restaurant := range restaurants {
			menu := restaurant.Menu
			restaurant.Menu = nil
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&restaurant).Error; err != nil {
				return err
			}
			if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.Dish{}).Error; err != nil {
				return err
			}
			if len(menu) == 0 {
				continue
			}
			if err := tx.Create(&menu).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import catalog")
	}
	return nil
}
