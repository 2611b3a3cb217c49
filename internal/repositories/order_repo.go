package repositories

import (
	"context"

	"ecohaat/internal/models"
)

// OrderFilter narrows order listings. Zero values mean "no filter".
type OrderFilter struct {
	BuyerID string
	Status  models.OrderStatus
	Offset  int
	Limit   int
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Checkout persists order and its items, decrements the stock of every
	// purchased product and empties the buyer's cart in one transaction.
	// It returns a *StockConflictError when a product ran out meanwhile.
	Checkout(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	ListForSeller(ctx context.Context, sellerID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error)
	Count(ctx context.Context) (int64, error)
}
