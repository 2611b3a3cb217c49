package repositories

import (
	"context"

	"ecohaat/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// ListByBuyer returns the buyer's cart lines with their product preloaded.
	ListByBuyer(ctx context.Context, buyerID string) ([]models.CartItem, error)
	GetByID(ctx context.Context, id uint) (*models.CartItem, error)
	// AddQuantity increments the buyer's line for the product, creating it when missing.
	AddQuantity(ctx context.Context, buyerID string, productID uint, quantity int) (*models.CartItem, error)
	SetQuantity(ctx context.Context, id uint, quantity int) (*models.CartItem, error)
	Delete(ctx context.Context, id uint) error
	DeleteByBuyer(ctx context.Context, buyerID string) error
}
