package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrProductNotFound is returned when a referenced product does not exist.
var ErrProductNotFound = errors.New("product not found")

// Product is the read-only price source for order placement.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
}
