package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecohaat/internal/models"
	"ecohaat/internal/repositories"
)

// ProductService handles the catalog: public browsing and seller listings.
type ProductService struct {
	repo         repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// CatalogQuery holds the public listing filters.
type CatalogQuery struct {
	CategoryID   uint
	MinEcoRating *int
	Material     string
	Search       string
	Offset       int
	Limit        int
}

// NewProduct is the data a seller provides for a listing.
type NewProduct struct {
	Name          string
	Description   *string
	Price         float64
	StockQuantity int
	Material      string
	CategoryID    uint
	Images        []string
}

// ProductChanges holds the optional fields a seller may change.
type ProductChanges struct {
	Name          *string
	Description   *string
	Price         *float64
	StockQuantity *int
	Material      *string
	CategoryID    *uint
	Images        []string
}

func (c ProductChanges) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if c.Name != nil {
		fields["name"] = *c.Name
	}
	if c.Description != nil {
		fields["description"] = *c.Description
	}
	if c.Price != nil {
		fields["price"] = *c.Price
	}
	if c.StockQuantity != nil {
		fields["stock_quantity"] = *c.StockQuantity
	}
	if c.Material != nil {
		fields["material"] = *c.Material
	}
	if c.CategoryID != nil {
		fields["category_id"] = *c.CategoryID
	}
	if c.Images != nil {
		fields["images"] = models.StringList(c.Images)
	}
	return fields
}

// ListApproved returns the approved products matching q, newest first.
func (s *ProductService) ListApproved(ctx context.Context, q CatalogQuery) ([]models.ProductDetails, error) {
	products, err := s.repo.List(ctx, repositories.ProductFilter{
		Status:       models.ProductApproved,
		CategoryID:   q.CategoryID,
		MinEcoRating: q.MinEcoRating,
		Material:     q.Material,
		Search:       q.Search,
		Offset:       q.Offset,
		Limit:        q.Limit,
	})
	if err != nil {
		return nil, storeError(err, "list products")
	}
	details := make([]models.ProductDetails, 0, len(products))
	for _, p := range products {
		details = append(details, p.Details())
	}
	return details, nil
}

// GetProduct retrieves a single product with seller and category names.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.ProductDetails, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "get product")
	}
	details := product.Details()
	return &details, nil
}

// CreateProduct lists a new product for seller. It starts pending approval.
func (s *ProductService) CreateProduct(ctx context.Context, seller *models.User, in NewProduct) (*models.Product, error) {
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}

	product := &models.Product{
		SellerID:      seller.ID,
		CategoryID:    in.CategoryID,
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Material:      in.Material,
		Images:        images,
		Status:        models.ProductPending,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, storeError(err, "create product")
	}
	return product, nil
}

// ListSellerProducts returns the seller's own products, optionally by status.
func (s *ProductService) ListSellerProducts(ctx context.Context, seller *models.User, status models.ProductStatus) ([]models.Product, error) {
	products, err := s.repo.List(ctx, repositories.ProductFilter{SellerID: seller.ID, Status: status})
	if err != nil {
		return nil, storeError(err, "list seller products")
	}
	return products, nil
}

// UpdateProduct applies changes to one of the seller's products. A rejected
// product goes back to pending review once it is changed.
func (s *ProductService) UpdateProduct(ctx context.Context, seller *models.User, id uint, changes ProductChanges) (*models.Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "get product")
	}
	if existing.SellerID != seller.ID {
		return nil, fmt.Errorf("%w: you can only update your own products", ErrForbidden)
	}
	if changes.CategoryID != nil {
		if err := s.checkCategory(ctx, *changes.CategoryID); err != nil {
			return nil, err
		}
	}

	fields := changes.fields()
	fields["updated_at"] = time.Now()
	if existing.Status == models.ProductRejected {
		fields["status"] = models.ProductPending
		fields["rejection_reason"] = nil
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, storeError(err, "update product")
	}
	return updated, nil
}

// DeleteProduct removes a product. Sellers may only delete their own; admins any.
func (s *ProductService) DeleteProduct(ctx context.Context, user *models.User, id uint) error {
	if user.Role != models.RoleAdmin {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return storeError(err, "get product")
		}
		if existing.SellerID != user.ID {
			return fmt.Errorf("%w: you can only delete your own products", ErrForbidden)
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "delete product")
	}
	return nil
}

func (s *ProductService) checkCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: category %d does not exist", ErrNotFound, id)
		}
		return storeError(err, "get category")
	}
	return nil
}
