package services

import (
	"context"
	"fmt"
	"log/slog"

	"restaurant-ordering-api/cart"
	"restaurant-ordering-api/logger"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/session"
)

// MenuLookup is the catalog view the cart needs.
type MenuLookup interface {
	GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error)
	GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error)
}

type CartService struct {
	catalog  MenuLookup
	sessions session.Store
	log      *logger.Logger
}

func NewCartService(catalog MenuLookup, sessions session.Store, log *logger.Logger) *CartService {
	return &CartService{catalog: catalog, sessions: sessions, log: log}
}

// Add puts one unit of menuItemID into the session cart, capturing the
// current catalog price for new lines.
func (s *CartService) Add(ctx context.Context, sessionID string, menuItemID uint) (*cart.Cart, cart.AddResult, error) {
	item, err := s.catalog.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, cart.AddResult{}, err
	}
	restaurant, err := s.catalog.GetRestaurant(ctx, item.RestaurantID)
	if err != nil {
		return nil, cart.AddResult{}, err
	}
	snapshot := cart.Item{
		MenuItemID:     item.ID,
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
		Name:           item.Name,
		Price:          item.Price,
	}

	var res cart.AddResult
	c, err := s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		res = c.Add(snapshot)
		return nil
	})
	if err != nil {
		return nil, cart.AddResult{}, fmt.Errorf("add to cart: %w", err)
	}
	if res.Replaced {
		s.log.Info("cart_replaced", sessionID, "single restaurant cart restarted",
			slog.Uint64("previous_restaurant_id", uint64(res.ReplacedRestaurantID)),
			slog.Uint64("restaurant_id", uint64(restaurant.ID)))
	}
	return c, res, nil
}

// SetQuantity applies cart.ParseQuantity(raw) to the line for menuItemID.
// Unknown items leave the cart as it was.
func (s *CartService) SetQuantity(ctx context.Context, sessionID string, menuItemID uint, raw string) (*cart.Cart, error) {
	c, err := s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		c.SetQuantity(menuItemID, raw)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update cart quantity: %w", err)
	}
	return c, nil
}

func (s *CartService) Remove(ctx context.Context, sessionID string, menuItemID uint) (*cart.Cart, error) {
	c, err := s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		c.Remove(menuItemID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("remove from cart: %w", err)
	}
	return c, nil
}

func (s *CartService) Clear(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	return c, nil
}

// View returns the cart with its priced summary.
func (s *CartService) View(ctx context.Context, sessionID string) (*cart.Cart, cart.Summary, error) {
	c, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, cart.Summary{}, fmt.Errorf("load cart: %w", err)
	}
	return c, cart.Summarize(c), nil
}
