// Package authz decides who may change a restaurant and its menu.
package authz

import (
	"fmt"

	"restaurant-ordering-api/apperr"
	"restaurant-ordering-api/models"
)

// RequireOwner fails with apperr.ErrForbidden unless actingUserID is the
// restaurant's owner. A nil actingUserID is an anonymous caller.
func RequireOwner(restaurant *models.Restaurant, actingUserID *uint) error {
	if actingUserID == nil {
		return fmt.Errorf("anonymous user cannot modify restaurant %d: %w", restaurant.ID, apperr.ErrForbidden)
	}
	if *actingUserID != restaurant.OwnerID {
		return fmt.Errorf("user %d does not own restaurant %d: %w", *actingUserID, restaurant.ID, apperr.ErrForbidden)
	}
	return nil
}
