package services

import (
	"errors"
	"fmt"

	"ecohaat/internal/repositories"
)

// Error kinds surfaced to callers. Services wrap them with details using %w.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access denied")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductUnavailable = errors.New("product is not available")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrUpstream           = errors.New("upstream failure")
)

// ProductError ties a cart line failure to the product that caused it.
type ProductError struct {
	Kind        error
	ProductID   uint
	ProductName string
}

func (e *ProductError) Error() string {
	if e.ProductName == "" {
		return fmt.Sprintf("%v: product %d", e.Kind, e.ProductID)
	}
	return fmt.Sprintf("%v: '%s'", e.Kind, e.ProductName)
}

func (e *ProductError) Unwrap() error {
	return e.Kind
}

// storeError classifies a repository error: missing rows become ErrNotFound,
// everything else ErrUpstream.
func storeError(err error, action string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUpstream, action, err)
}
