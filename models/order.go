package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// StatusPending is the only status assigned at checkout. Later lifecycle
// transitions belong to restaurant tooling outside this service.
const StatusPending OrderStatus = "pending"

type Order struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	CustomerID   uint            `json:"customer_id" gorm:"not null;index"`
	RestaurantID uint            `json:"restaurant_id" gorm:"not null;index"`
	TotalPrice   decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Status       OrderStatus     `json:"status" gorm:"not null;default:'pending'"`
	Items        []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt    time.Time       `json:"created_at"`
}

type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null"`
	Name       string          `json:"name"` // snapshot name
	Quantity   int             `json:"quantity" gorm:"not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"` // snapshot price at time of order
}

// ItemsTotal sums quantity x price over the order's items.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
