package models

import "time"

// Dish belongs to one restaurant; its id is unique within that restaurant.
type Dish struct {
	RestaurantID string    `gorm:"column:restaurant_id;primaryKey"`
	ID           string    `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Description  string    `gorm:"column:description;not null;default:''"`
	Price        int64     `gorm:"column:price;not null"`
	Image        string    `gorm:"column:image;not null;default:''"`
	Category     string    `gorm:"column:category;not null;default:''"`
	Popular      bool      `gorm:"column:popular;not null;default:false"`
	Position     int       `gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Dish) TableName() string { return "dishes" }
