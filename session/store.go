// Package session keeps carts per browser session.
package session

import (
	"context"

	"restaurant-ordering-api/cart"
)

// Store persists one cart per session id.
type Store interface {
	// Load returns the session's cart, or a fresh empty cart when the session
	// has none yet. The returned cart is a copy.
	Load(ctx context.Context, id string) (*cart.Cart, error)

	// Update reads the cart, applies fn and writes the result back as one
	// step. Concurrent updates of the same session never overwrite each
	// other. When fn returns an error nothing is written.
	Update(ctx context.Context, id string, fn func(*cart.Cart) error) (*cart.Cart, error)

	// Delete forgets the session's cart.
	Delete(ctx context.Context, id string) error
}
