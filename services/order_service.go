package services

import (
	"context"
	"fmt"

	"restaurant-ordering-api/apperr"
	"restaurant-ordering-api/authz"
	"restaurant-ordering-api/models"
)

type OrderReader interface {
	Get(ctx context.Context, id uint) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.Order, error)
}

// OrderService serves placed orders to their customer and to the owning
// restaurant.
type OrderService struct {
	catalog MenuLookup
	orders  OrderReader
}

func NewOrderService(catalog MenuLookup, orders OrderReader) *OrderService {
	return &OrderService{catalog: catalog, orders: orders}
}

func (s *OrderService) ListMine(ctx context.Context, customerID uint) ([]models.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

func (s *OrderService) GetMine(ctx context.Context, orderID, customerID uint) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, fmt.Errorf("order %d belongs to another customer: %w", orderID, apperr.ErrForbidden)
	}
	return order, nil
}

// ForRestaurant lists a restaurant's orders for its owner.
func (s *OrderService) ForRestaurant(ctx context.Context, restaurantID uint, actingUserID *uint) ([]models.Order, error) {
	restaurant, err := s.catalog.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(restaurant, actingUserID); err != nil {
		return nil, err
	}
	return s.orders.ListByRestaurant(ctx, restaurantID)
}
