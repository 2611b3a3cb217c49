package services

import (
	"context"
	"fmt"

	"ecohaat/internal/models"
	"ecohaat/internal/repositories"
)

// CartService handles a buyer's shopping cart.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the buyer's cart lines with product details.
func (s *CartService) GetCart(ctx context.Context, buyerID string) ([]models.CartItem, error) {
	items, err := s.cartRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, storeError(err, "fetch cart")
	}
	return items, nil
}

// AddItem puts quantity units of a product into the cart, merging with an
// existing line for the same product.
func (s *CartService) AddItem(ctx context.Context, buyerID string, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, storeError(err, "get product")
	}
	if product.Status != models.ProductApproved {
		return nil, &ProductError{Kind: ErrProductUnavailable, ProductID: product.ID, ProductName: product.Name}
	}
	if product.StockQuantity < quantity {
		return nil, &ProductError{Kind: ErrInsufficientStock, ProductID: product.ID, ProductName: product.Name}
	}

	item, err := s.cartRepo.AddQuantity(ctx, buyerID, productID, quantity)
	if err != nil {
		return nil, storeError(err, "add to cart")
	}
	return item, nil
}

// UpdateItem sets the quantity of one of the buyer's cart lines.
func (s *CartService) UpdateItem(ctx context.Context, buyerID string, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	item, err := s.ownedItem(ctx, buyerID, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, storeError(err, "get product")
	}
	if product.StockQuantity < quantity {
		return nil, &ProductError{Kind: ErrInsufficientStock, ProductID: product.ID, ProductName: product.Name}
	}

	updated, err := s.cartRepo.SetQuantity(ctx, itemID, quantity)
	if err != nil {
		return nil, storeError(err, "update cart")
	}
	return updated, nil
}

// RemoveItem deletes one of the buyer's cart lines.
func (s *CartService) RemoveItem(ctx context.Context, buyerID string, itemID uint) error {
	if _, err := s.ownedItem(ctx, buyerID, itemID); err != nil {
		return err
	}
	if err := s.cartRepo.Delete(ctx, itemID); err != nil {
		return storeError(err, "remove from cart")
	}
	return nil
}

// ClearCart deletes every line of the buyer's cart.
func (s *CartService) ClearCart(ctx context.Context, buyerID string) error {
	if err := s.cartRepo.DeleteByBuyer(ctx, buyerID); err != nil {
		return storeError(err, "clear cart")
	}
	return nil
}

// CountItems returns the total number of units in the cart.
func (s *CartService) CountItems(ctx context.Context, buyerID string) (int, error) {
	items, err := s.cartRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return 0, storeError(err, "count cart")
	}
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total, nil
}

func (s *CartService) ownedItem(ctx context.Context, buyerID string, itemID uint) (*models.CartItem, error) {
	item, err := s.cartRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, storeError(err, "get cart item")
	}
	if item.BuyerID != buyerID {
		return nil, ErrForbidden
	}
	return item, nil
}
