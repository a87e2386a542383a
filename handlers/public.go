package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/middleware"
)

// ListRestaurants returns all restaurants, newest first (public)
func (h *Handlers) ListRestaurants(c *gin.Context) {
	restaurants, err := h.Catalog.ListRestaurants(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":       len(restaurants),
		"restaurants": restaurants,
	})
}

// GetRestaurant returns a single restaurant with its menu
func (h *Handlers) GetRestaurant(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	restaurant, err := h.Catalog.GetRestaurantWithMenu(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetMenu returns the menu for a specific restaurant (public)
func (h *Handlers) GetMenu(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	restaurant, err := h.Catalog.GetRestaurant(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	items, err := h.Catalog.ListMenu(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant.Name,
		"count":      len(items),
		"menu":       items,
	})
}

// ListReviews returns a restaurant's reviews, newest first (public)
func (h *Handlers) ListReviews(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	reviews, err := h.Reviews.ListReviews(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

type ReviewRequest struct {
	Content string      `json:"content" form:"content"`
	Rating  looseString `json:"rating" form:"rating"`
}

// AddReview posts a review; the rating defaults to 5 stars
func (h *Handlers) AddReview(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	review, err := h.Reviews.AddReview(c.Request.Context(), id, middleware.GetUserID(c), req.Content, string(req.Rating))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review added", "review": review})
}
