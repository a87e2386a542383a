package models

import "time"

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
)

// Comment is a customer review of a restaurant.
type Comment struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	User         *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null;index"`
	Content      string    `json:"content" gorm:"not null"`
	Rating       int       `json:"rating" gorm:"not null;default:5"`
	CreatedAt    time.Time `json:"created_at"`
}
