// Package models contains the persisted records of the ordering service.
package models

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Restaurant{},
		&MenuItem{},
		&Order{},
		&OrderItem{},
		&Comment{},
	}
}
