// Package repository is the only place that talks to the database. Every
// method takes the request context and returns sentinel errors the HTTP layer
// maps to status codes.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockError names the product that could not be decremented.
type StockError struct {
	ProductID uint
	Name      string
}

func (e *StockError) Error() string {
	return "insufficient stock for product: " + e.Name
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
