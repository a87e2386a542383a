package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"restaurant-ordering-api/apperr"
	"restaurant-ordering-api/authz"
	"restaurant-ordering-api/logger"
	"restaurant-ordering-api/models"
)

// RestaurantStore is the write side used by RestaurantService.
type RestaurantStore interface {
	Create(ctx context.Context, restaurant *models.Restaurant) error
	Save(ctx context.Context, restaurant *models.Restaurant) error
	Delete(ctx context.Context, id uint) error
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	SaveMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id uint) error
}

// RestaurantFields carries user input. A nil field keeps the stored value on
// update.
type RestaurantFields struct {
	Name        *string
	Description *string
	Address     *string
}

type MenuItemFields struct {
	Name        *string
	Description *string
	Price       *string
}

type RestaurantService struct {
	catalog MenuLookup
	store   RestaurantStore
	log     *logger.Logger
}

func NewRestaurantService(catalog MenuLookup, store RestaurantStore, log *logger.Logger) *RestaurantService {
	return &RestaurantService{catalog: catalog, store: store, log: log}
}

func (s *RestaurantService) CreateRestaurant(ctx context.Context, ownerID uint, in RestaurantFields, img Image) (*models.Restaurant, error) {
	name, err := requiredText(in.Name, "name")
	if err != nil {
		return nil, err
	}
	ref, err := storeImage(img)
	if err != nil {
		return nil, err
	}
	restaurant := &models.Restaurant{
		OwnerID:     ownerID,
		Name:        name,
		Description: trimmed(in.Description),
		Address:     trimmed(in.Address),
		ImagePath:   ref,
	}
	if err := s.store.Create(ctx, restaurant); err != nil {
		discardImage(img, ref)
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	s.log.Info("restaurant_created", "", "restaurant created",
		slog.Uint64("restaurant_id", uint64(restaurant.ID)),
		slog.Uint64("owner_id", uint64(ownerID)))
	return restaurant, nil
}

func (s *RestaurantService) UpdateRestaurant(ctx context.Context, id uint, actingUserID *uint, in RestaurantFields, img Image) (*models.Restaurant, error) {
	restaurant, err := s.ownedRestaurant(ctx, id, actingUserID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if restaurant.Name, err = requiredText(in.Name, "name"); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		restaurant.Description = trimmed(in.Description)
	}
	if in.Address != nil {
		restaurant.Address = trimmed(in.Address)
	}
	ref, err := storeImage(img)
	if err != nil {
		return nil, err
	}
	if ref != nil {
		restaurant.ImagePath = ref
	}
	if err := s.store.Save(ctx, restaurant); err != nil {
		discardImage(img, ref)
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	return restaurant, nil
}

// DeleteRestaurant removes the restaurant with its menu, reviews and orders.
func (s *RestaurantService) DeleteRestaurant(ctx context.Context, id uint, actingUserID *uint) error {
	if _, err := s.ownedRestaurant(ctx, id, actingUserID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	s.log.Info("restaurant_deleted", "", "restaurant deleted",
		slog.Uint64("restaurant_id", uint64(id)))
	return nil
}

func (s *RestaurantService) CreateMenuItem(ctx context.Context, restaurantID uint, actingUserID *uint, in MenuItemFields, img Image) (*models.MenuItem, error) {
	if _, err := s.ownedRestaurant(ctx, restaurantID, actingUserID); err != nil {
		return nil, err
	}
	name, err := requiredText(in.Name, "name")
	if err != nil {
		return nil, err
	}
	if in.Price == nil {
		return nil, apperr.Invalid("price is required")
	}
	price, err := ParsePrice(*in.Price)
	if err != nil {
		return nil, err
	}
	ref, err := storeImage(img)
	if err != nil {
		return nil, err
	}
	item := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Description:  trimmed(in.Description),
		Price:        price,
		ImagePath:    ref,
	}
	if err := s.store.CreateMenuItem(ctx, item); err != nil {
		discardImage(img, ref)
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return item, nil
}

// UpdateMenuItem may change the price. Carts and orders keep the price they
// captured earlier.
func (s *RestaurantService) UpdateMenuItem(ctx context.Context, id uint, actingUserID *uint, in MenuItemFields, img Image) (*models.MenuItem, error) {
	item, err := s.catalog.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedRestaurant(ctx, item.RestaurantID, actingUserID); err != nil {
		return nil, err
	}
	if in.Name != nil {
		if item.Name, err = requiredText(in.Name, "name"); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		item.Description = trimmed(in.Description)
	}
	if in.Price != nil {
		if item.Price, err = ParsePrice(*in.Price); err != nil {
			return nil, err
		}
	}
	ref, err := storeImage(img)
	if err != nil {
		return nil, err
	}
	if ref != nil {
		item.ImagePath = ref
	}
	if err := s.store.SaveMenuItem(ctx, item); err != nil {
		discardImage(img, ref)
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	return item, nil
}

func (s *RestaurantService) DeleteMenuItem(ctx context.Context, id uint, actingUserID *uint) error {
	item, err := s.catalog.GetMenuItem(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.ownedRestaurant(ctx, item.RestaurantID, actingUserID); err != nil {
		return err
	}
	if err := s.store.DeleteMenuItem(ctx, id); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}

// ownedRestaurant loads the restaurant and runs the ownership check.
func (s *RestaurantService) ownedRestaurant(ctx context.Context, id uint, actingUserID *uint) (*models.Restaurant, error) {
	restaurant, err := s.catalog.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(restaurant, actingUserID); err != nil {
		return nil, err
	}
	return restaurant, nil
}

// ParsePrice reads a non-negative amount. Both "12.50" and "12,50" are
// accepted; the result is rounded to cents.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return decimal.Zero, apperr.Invalid("price is required")
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperr.Invalid(fmt.Sprintf("invalid price %q", raw))
	}
	if price.IsNegative() {
		return decimal.Zero, apperr.Invalid("price must not be negative")
	}
	return price.Round(2), nil
}

func requiredText(v *string, field string) (string, error) {
	s := trimmed(v)
	if s == "" {
		return "", apperr.Invalid(field + " is required")
	}
	return s, nil
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
