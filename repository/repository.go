// Package repository is the gorm persistence layer.
package repository

import (
	"errors"

	"gorm.io/gorm"

	"restaurant-ordering-api/apperr"
)

// translate turns gorm's missing-record error into apperr.ErrNotFound.
func translate(err error, kind string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(kind)
	}
	return err
}
