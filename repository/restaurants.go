package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurant-ordering-api/models"
)

// RestaurantRepository writes restaurants and their menus.
type RestaurantRepository struct{ DB *gorm.DB }

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return r.DB.WithContext(ctx).Create(restaurant).Error
}

func (r *RestaurantRepository) Save(ctx context.Context, restaurant *models.Restaurant) error {
	return r.DB.WithContext(ctx).Omit("Owner", "MenuItems").Save(restaurant).Error
}

// Delete removes the restaurant together with its menu, reviews, orders and
// order items in one transaction.
func (r *RestaurantRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderIDs := tx.Model(&models.Order{}).Select("id").Where("restaurant_id = ?", id)
		if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Restaurant{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "restaurant")
		}
		return nil
	})
}

func (r *RestaurantRepository) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *RestaurantRepository) SaveMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

// DeleteMenuItem leaves placed order items alone; they keep their own name
// and price snapshot.
func (r *RestaurantRepository) DeleteMenuItem(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "menu item")
	}
	return nil
}
