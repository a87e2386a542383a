package repository

import (
	"context"
	"math"

	"gorm.io/gorm"

	"restaurant-ordering-api/models"
)

type CommentRepository struct{ DB *gorm.DB }

func NewCommentRepository(db *gorm.DB) *CommentRepository { return &CommentRepository{DB: db} }

// Create stores the review and refreshes the restaurant's average rating in
// the same transaction.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		var avg float64
		err := tx.Model(&models.Comment{}).
			Select("COALESCE(AVG(rating), 0)").
			Where("restaurant_id = ?", comment.RestaurantID).
			Scan(&avg).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.Restaurant{}).
			Where("id = ?", comment.RestaurantID).
			Update("rating", math.Round(avg*100)/100).Error
	})
}

func (r *CommentRepository) ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.DB.WithContext(ctx).Preload("User").
		Where("restaurant_id = ?", restaurantID).
		Order("id desc").
		Find(&comments).Error
	return comments, err
}
