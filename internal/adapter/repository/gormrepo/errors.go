package gormrepo

import (
	"errors"

	"gorm.io/gorm"
)

// mapNotFound swaps gorm's not-found for the domain sentinel.
func mapNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
