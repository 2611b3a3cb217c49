package repositories

import (
	"context"

	"ecohaat/internal/models"
)

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	Status       models.ProductStatus
	SellerID     string
	CategoryID   uint
	MinEcoRating *int
	Material     string
	Search       string
	Offset       int
	Limit        int
	OldestFirst  bool
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context, status models.ProductStatus) (int64, error)
	ExistsInCategory(ctx context.Context, categoryID uint) (bool, error)
}
