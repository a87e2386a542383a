package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"restaurant-ordering-api/apperr"
	"restaurant-ordering-api/models"
)

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.Comment, error)
}

type ReviewService struct {
	catalog  MenuLookup
	comments CommentStore
}

func NewReviewService(catalog MenuLookup, comments CommentStore) *ReviewService {
	return &ReviewService{catalog: catalog, comments: comments}
}

// ParseRating reads a 1..5 star rating. Non numeric input counts as 5,
// out of range values are clamped.
func ParseRating(raw string) int {
	r, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		r = models.DefaultRating
	}
	return max(models.MinRating, min(models.MaxRating, r))
}

func (s *ReviewService) AddReview(ctx context.Context, restaurantID, userID uint, content, rawRating string) (*models.Comment, error) {
	if _, err := s.catalog.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Invalid("review text is required")
	}
	comment := &models.Comment{
		UserID:       userID,
		RestaurantID: restaurantID,
		Content:      content,
		Rating:       ParseRating(rawRating),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}
	return comment, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, restaurantID uint) ([]models.Comment, error) {
	if _, err := s.catalog.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.comments.ListByRestaurant(ctx, restaurantID)
}
