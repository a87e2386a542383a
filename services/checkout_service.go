package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"restaurant-ordering-api/apperr"
	"restaurant-ordering-api/cart"
	"restaurant-ordering-api/logger"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/session"
)

// OrderWriter persists a batch of orders atomically.
type OrderWriter interface {
	CreateOrders(ctx context.Context, orders []models.Order) error
}

type CheckoutService struct {
	sessions session.Store
	orders   OrderWriter
	log      *logger.Logger
}

func NewCheckoutService(sessions session.Store, orders OrderWriter, log *logger.Logger) *CheckoutService {
	return &CheckoutService{sessions: sessions, orders: orders, log: log}
}

// Checkout turns the session cart into one pending order per restaurant
// bucket and returns their ids.
//
// The cart is claimed and emptied in one store update before anything is
// written, so a repeated submit from the same session finds an empty cart.
// All orders are written in one transaction; if that fails the claimed lines
// are put back. A restaurant deleted since its items were added yields a not
// found error, any other write failure wraps apperr.ErrPersistence.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, customerID uint) ([]uint, error) {
	var claimed *cart.Cart
	_, err := s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		if c.IsEmpty() {
			return apperr.ErrEmptyCart
		}
		claimed = c.Clone()
		c.Clear()
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrEmptyCart) {
			return nil, err
		}
		return nil, fmt.Errorf("claim cart: %w", err)
	}

	orders := Materialize(claimed, customerID)
	if err := s.orders.CreateOrders(ctx, orders); err != nil {
		s.restore(ctx, sessionID, claimed)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("checkout: %w", err)
		}
		s.log.Error("checkout", sessionID, "failed to persist orders", err,
			slog.Uint64("customer_id", uint64(customerID)))
		return nil, fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
	}

	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	s.log.Info("checkout", sessionID, "orders placed",
		slog.Uint64("customer_id", uint64(customerID)),
		slog.Any("order_ids", ids))
	return ids, nil
}

// restore puts claimed back into the session cart after a failed write. Its
// context is detached so a cancelled request does not lose the cart.
func (s *CheckoutService) restore(ctx context.Context, sessionID string, claimed *cart.Cart) {
	ctx = context.WithoutCancel(ctx)
	if _, err := s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		c.Restore(claimed)
		return nil
	}); err != nil {
		s.log.Error("checkout", sessionID, "failed to restore cart after checkout error", err,
			slog.Int("lines", claimed.LineCount()))
	}
}

// Materialize builds the orders for a cart. Each bucket becomes one pending
// order whose items carry the prices captured in the cart.
func Materialize(c *cart.Cart, customerID uint) []models.Order {
	buckets := c.Buckets()
	orders := make([]models.Order, 0, len(buckets))
	for _, b := range buckets {
		order := models.Order{
			CustomerID:   customerID,
			RestaurantID: b.RestaurantID,
			TotalPrice:   b.Total(),
			Status:       models.StatusPending,
			Items:        make([]models.OrderItem, 0, len(b.Lines)),
		}
		for _, l := range b.Lines {
			order.Items = append(order.Items, models.OrderItem{
				MenuItemID: l.MenuItemID,
				Name:       l.Name,
				Quantity:   l.Quantity,
				Price:      l.UnitPrice,
			})
		}
		orders = append(orders, order)
	}
	return orders
}
