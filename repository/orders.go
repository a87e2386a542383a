package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurant-ordering-api/apperr"
	"restaurant-ordering-api/models"
)

type OrderRepository struct{ DB *gorm.DB }

func NewOrderRepository(db *gorm.DB) *OrderRepository { return &OrderRepository{DB: db} }

// CreateOrders inserts every order with its items in a single transaction.
// An order for a restaurant that no longer exists fails the whole batch with
// a not found error. On error nothing is persisted and the ids on orders must
// be ignored.
func (r *OrderRepository) CreateOrders(ctx context.Context, orders []models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range orders {
			var n int64
			if err := tx.Model(&models.Restaurant{}).Where("id = ?", orders[i].RestaurantID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return apperr.NotFound("restaurant")
			}
			if err := tx.Create(&orders[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *OrderRepository) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &order, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at desc, id desc").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).Preload("Items").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at desc, id desc").
		Find(&orders).Error
	return orders, err
}
