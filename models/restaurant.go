package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	OwnerID     uint       `json:"owner_id" gorm:"not null;index"`
	Owner       *User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	ImagePath   *string    `json:"image_path"`
	Rating      float64    `json:"rating" gorm:"default:0"` // average of review ratings
	MenuItems   []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type MenuItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	RestaurantID uint            `json:"restaurant_id" gorm:"not null;index"`
	Name         string          `json:"name" gorm:"not null"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ImagePath    *string         `json:"image_path"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
