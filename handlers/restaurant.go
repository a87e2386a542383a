package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/services"
)

// ── Restaurant Management ────────────────────────────────────────────────────

// RestaurantRequest is accepted as JSON or multipart form. Omitted fields
// keep their stored value on update.
type RestaurantRequest struct {
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
	Address     *string `json:"address" form:"address"`
}

func (r RestaurantRequest) fields() services.RestaurantFields {
	return services.RestaurantFields{Name: r.Name, Description: r.Description, Address: r.Address}
}

// pendingImage is written by the service once the caller is allowed to
// change the record.
type pendingImage struct {
	h  *Handlers
	fh *multipart.FileHeader
}

func (p pendingImage) Store() (string, error) { return p.h.Images.Save(p.fh) }

func (p pendingImage) Discard(ref string) {
	if err := p.h.Images.Remove(ref); err != nil {
		p.h.Log.Warn("image_discard_failed", "", "could not remove orphaned image",
			slog.String("ref", ref), slog.String("error", err.Error()))
	}
}

// image returns the optional "image" file of a multipart request without
// storing it.
func (h *Handlers) image(c *gin.Context) (services.Image, error) {
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil, nil
	}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pendingImage{h: h, fh: fh}, nil
}

// bindError answers a request whose body could not be bound.
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// CreateRestaurant registers a restaurant owned by the caller
func (h *Handlers) CreateRestaurant(c *gin.Context) {
	var req RestaurantRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	img, err := h.image(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	restaurant, err := h.Restaurants.CreateRestaurant(c.Request.Context(), middleware.GetUserID(c), req.fields(), img)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": restaurant})
}

// GetMyRestaurants lists the restaurants owned by the logged-in user
func (h *Handlers) GetMyRestaurants(c *gin.Context) {
	restaurants, err := h.Catalog.ListByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
}

// UpdateRestaurant updates restaurant details
func (h *Handlers) UpdateRestaurant(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req RestaurantRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	img, err := h.image(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	restaurant, err := h.Restaurants.UpdateRestaurant(c.Request.Context(), id, middleware.CurrentUserID(c), req.fields(), img)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": restaurant})
}

// DeleteRestaurant removes a restaurant with its menu, reviews and orders
func (h *Handlers) DeleteRestaurant(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.Restaurants.DeleteRestaurant(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deleted"})
}

// ── Menu Management ─────────────────────────────────────────────────────────

// MenuItemRequest takes the price as text; "12,50" and "12.50" are both
// accepted.
type MenuItemRequest struct {
	Name        *string      `json:"name" form:"name"`
	Description *string      `json:"description" form:"description"`
	Price       *looseString `json:"price" form:"price"`
}

func (r MenuItemRequest) fields() services.MenuItemFields {
	f := services.MenuItemFields{Name: r.Name, Description: r.Description}
	if r.Price != nil {
		p := string(*r.Price)
		f.Price = &p
	}
	return f
}

// AddMenuItem adds a new item to the restaurant's menu
func (h *Handlers) AddMenuItem(c *gin.Context) {
	restaurantID, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req MenuItemRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	img, err := h.image(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	item, err := h.Restaurants.CreateMenuItem(c.Request.Context(), restaurantID, middleware.CurrentUserID(c), req.fields(), img)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// UpdateMenuItem updates a menu item. Carts and placed orders keep the
// price they captured.
func (h *Handlers) UpdateMenuItem(c *gin.Context) {
	itemID, err := paramID(c, "itemId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req MenuItemRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	img, err := h.image(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	item, err := h.Restaurants.UpdateMenuItem(c.Request.Context(), itemID, middleware.CurrentUserID(c), req.fields(), img)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// DeleteMenuItem removes a menu item
func (h *Handlers) DeleteMenuItem(c *gin.Context) {
	itemID, err := paramID(c, "itemId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.Restaurants.DeleteMenuItem(c.Request.Context(), itemID, middleware.CurrentUserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
