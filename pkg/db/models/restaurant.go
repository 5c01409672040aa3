package models

import "time"

// Restaurant is a catalog entry. Menu dishes are ordered by position.
type Restaurant struct {
	ID             string    `gorm:"column:id;primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	Description    string    `gorm:"column:description;not null;default:''"`
	CuisineType    string    `gorm:"column:cuisine_type;not null;default:''"`
	Rating         float64   `gorm:"column:rating;not null;default:0"`
	DeliveryTime   string    `gorm:"column:delivery_time;not null;default:''"`
	DeliveryFee    int64     `gorm:"column:delivery_fee;not null;default:0"`
	Image          string    `gorm:"column:image;not null;default:''"`
	Logo           string    `gorm:"column:logo;not null;default:''"`
	Promo          *string   `gorm:"column:promo"`
	IsFeatured     bool      `gorm:"column:is_featured;not null;default:false"`
	FeaturedReason *string   `gorm:"column:featured_reason"`
	Position       int       `gorm:"column:position;not null;default:0"`
	Menu           []Dish    `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Restaurant) TableName() string { return "restaurants" }
