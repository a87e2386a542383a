package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurant-ordering-api/models"
)

// CatalogRepository is the read side of restaurants and menus.
type CatalogRepository struct{ DB *gorm.DB }

func NewCatalogRepository(db *gorm.DB) *CatalogRepository { return &CatalogRepository{DB: db} }

func (r *CatalogRepository) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err, "menu item")
	}
	return &item, nil
}

func (r *CatalogRepository) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.DB.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		return nil, translate(err, "restaurant")
	}
	return &restaurant, nil
}

// GetRestaurantWithMenu also loads the menu and the owner.
func (r *CatalogRepository) GetRestaurantWithMenu(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.DB.WithContext(ctx).
		Preload("Owner").
		Preload("MenuItems", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&restaurant, id).Error
	if err != nil {
		return nil, translate(err, "restaurant")
	}
	return &restaurant, nil
}

// ListRestaurants returns restaurants newest first, optionally filtered by a
// name substring.
func (r *CatalogRepository) ListRestaurants(ctx context.Context, search string) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	query := r.DB.WithContext(ctx).Preload("Owner")
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	err := query.Order("id desc").Find(&restaurants).Error
	return restaurants, err
}

func (r *CatalogRepository) ListMenu(ctx context.Context, restaurantID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.DB.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("id asc").
		Find(&items).Error
	return items, err
}

func (r *CatalogRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id desc").
		Find(&restaurants).Error
	return restaurants, err
}
