// Package handlers exposes the ordering services over HTTP.
package handlers

import (
	"context"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/apperr"
	"restaurant-ordering-api/logger"
	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/services"
)

// CatalogReader serves the public restaurant pages.
type CatalogReader interface {
	GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error)
	GetRestaurantWithMenu(ctx context.Context, id uint) (*models.Restaurant, error)
	ListRestaurants(ctx context.Context, search string) ([]models.Restaurant, error)
	ListMenu(ctx context.Context, restaurantID uint) ([]models.MenuItem, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Restaurant, error)
}

type ImageSaver interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(ref string) error
}

type Handlers struct {
	Auth        *services.AuthService
	Carts       *services.CartService
	Checkouts   *services.CheckoutService
	Restaurants *services.RestaurantService
	Orders      *services.OrderService
	Reviews     *services.ReviewService
	Catalog     CatalogReader
	Tokens      *middleware.TokenIssuer
	Images      ImageSaver
	Log         *logger.Logger
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Invalid("invalid " + name)
	}
	return uint(id), nil
}
