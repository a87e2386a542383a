package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/cart"
	"restaurant-ordering-api/middleware"
)

func cartJSON(c *cart.Cart) gin.H {
	return gin.H{"cart": cart.Summarize(c)}
}

// AddToCart puts one unit of a menu item into the session cart
func (h *Handlers) AddToCart(c *gin.Context) {
	menuID, err := paramID(c, "menuId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	updated, res, err := h.Carts.Add(c.Request.Context(), middleware.SessionID(c), menuID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	body := cartJSON(updated)
	body["message"] = res.Line.Name + " added to cart"
	body["quantity"] = res.Line.Quantity
	if res.Replaced {
		body["replaced"] = true
		body["message"] = "Cart restarted with " + res.Line.Name + " from a different restaurant"
	}
	c.JSON(http.StatusOK, body)
}

type QuantityRequest struct {
	Quantity looseString `json:"quantity" form:"quantity"`
}

// SetCartQuantity sets a line quantity. Bad input becomes 1 and values
// above the cap are clamped.
func (h *Handlers) SetCartQuantity(c *gin.Context) {
	menuID, err := paramID(c, "menuId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req QuantityRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.Carts.SetQuantity(c.Request.Context(), middleware.SessionID(c), menuID, string(req.Quantity))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(updated))
}

// RemoveFromCart drops a line; removing an absent item is not an error
func (h *Handlers) RemoveFromCart(c *gin.Context) {
	menuID, err := paramID(c, "menuId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	updated, err := h.Carts.Remove(c.Request.Context(), middleware.SessionID(c), menuID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(updated))
}

func (h *Handlers) ClearCart(c *gin.Context) {
	updated, err := h.Carts.Clear(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(updated))
}

// ViewCart returns the cart with per restaurant and grand totals
func (h *Handlers) ViewCart(c *gin.Context) {
	_, summary, err := h.Carts.View(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": summary})
}

// Checkout places one order per restaurant in the cart (customer only)
func (h *Handlers) Checkout(c *gin.Context) {
	ids, err := h.Checkouts.Checkout(c.Request.Context(), middleware.SessionID(c), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Order placed successfully",
		"order_ids": ids,
	})
}

// GetMyOrders returns all orders for the logged-in customer
func (h *Handlers) GetMyOrders(c *gin.Context) {
	orders, err := h.Orders.ListMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns one of the customer's own orders
func (h *Handlers) GetOrderDetail(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	order, err := h.Orders.GetMine(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
