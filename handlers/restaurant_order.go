package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/models"
)

// GetRestaurantOrders returns all orders for the restaurant owner
func (h *Handlers) GetRestaurantOrders(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	orders, err := h.Orders.ForRestaurant(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Group counts by status for the dashboard summary
	summary := map[models.OrderStatus]int{}
	for _, o := range orders {
		summary[o.Status]++
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}
