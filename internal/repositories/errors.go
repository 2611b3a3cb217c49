package repositories

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("record not found")

// StockConflictError reports that a product no longer had enough stock when
// the checkout transaction tried to decrement it.
type StockConflictError struct {
	ProductID uint
	Requested int
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("not enough stock left for product %d (requested: %d)", e.ProductID, e.Requested)
}
