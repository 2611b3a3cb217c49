package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ecohaat/internal/models"
	"ecohaat/internal/repositories"
)

// AdminService implements product moderation, user listing and dashboard stats.
type AdminService struct {
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	orderRepo   repositories.OrderRepository
	publisher   EventPublisher
}

func NewAdminService(productRepo repositories.ProductRepository, userRepo repositories.UserRepository, orderRepo repositories.OrderRepository, publisher EventPublisher) *AdminService {
	return &AdminService{
		productRepo: productRepo,
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		publisher:   publisher,
	}
}

// Stats summarizes the marketplace for the admin dashboard.
type Stats struct {
	PendingProducts  int64 `json:"pending_products"`
	ApprovedProducts int64 `json:"approved_products"`
	TotalSellers     int64 `json:"total_sellers"`
	TotalBuyers      int64 `json:"total_buyers"`
	TotalOrders      int64 `json:"total_orders"`
}

// PendingProducts returns the moderation queue, oldest first.
func (s *AdminService) PendingProducts(ctx context.Context) ([]models.ProductDetails, error) {
	products, err := s.productRepo.List(ctx, repositories.ProductFilter{Status: models.ProductPending, OldestFirst: true})
	if err != nil {
		return nil, storeError(err, "list pending products")
	}
	details := make([]models.ProductDetails, 0, len(products))
	for _, p := range products {
		details = append(details, p.Details())
	}
	return details, nil
}

// AllProducts pages through every product regardless of owner.
func (s *AdminService) AllProducts(ctx context.Context, status models.ProductStatus, offset, limit int) ([]models.Product, error) {
	products, err := s.productRepo.List(ctx, repositories.ProductFilter{Status: status, Offset: offset, Limit: limit})
	if err != nil {
		return nil, storeError(err, "list products")
	}
	return products, nil
}

// ApproveProduct publishes a product with the given eco rating.
func (s *AdminService) ApproveProduct(ctx context.Context, id uint, ecoRating int) (*models.Product, error) {
	if err := checkEcoRating(ecoRating); err != nil {
		return nil, err
	}
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		return nil, storeError(err, "get product")
	}

	product, err := s.productRepo.Update(ctx, id, map[string]interface{}{
		"status":           models.ProductApproved,
		"eco_rating":       ecoRating,
		"rejection_reason": nil,
		"updated_at":       time.Now(),
	})
	if err != nil {
		return nil, storeError(err, "approve product")
	}

	publish(ctx, s.publisher, models.EventProductApproved, models.ProductEvent{
		Type:       models.EventProductApproved,
		ProductID:  product.ID,
		SellerID:   product.SellerID,
		Status:     product.Status,
		EcoRating:  product.EcoRating,
		OccurredAt: time.Now(),
	})
	return product, nil
}

// RejectProduct takes a product out of the catalog with a reason for the seller.
func (s *AdminService) RejectProduct(ctx context.Context, id uint, reason string) (*models.Product, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		return nil, storeError(err, "get product")
	}

	product, err := s.productRepo.Update(ctx, id, map[string]interface{}{
		"status":           models.ProductRejected,
		"rejection_reason": reason,
		"eco_rating":       nil,
		"updated_at":       time.Now(),
	})
	if err != nil {
		return nil, storeError(err, "reject product")
	}

	publish(ctx, s.publisher, models.EventProductRejected, models.ProductEvent{
		Type:       models.EventProductRejected,
		ProductID:  product.ID,
		SellerID:   product.SellerID,
		Status:     product.Status,
		Reason:     product.RejectionReason,
		OccurredAt: time.Now(),
	})
	return product, nil
}

// SetEcoRating re-rates a product without changing its status.
func (s *AdminService) SetEcoRating(ctx context.Context, id uint, ecoRating int) (*models.Product, error) {
	if err := checkEcoRating(ecoRating); err != nil {
		return nil, err
	}
	product, err := s.productRepo.Update(ctx, id, map[string]interface{}{
		"eco_rating": ecoRating,
		"updated_at": time.Now(),
	})
	if err != nil {
		return nil, storeError(err, "update eco rating")
	}
	return product, nil
}

// ListUsers pages through profiles, optionally restricted to one role.
func (s *AdminService) ListUsers(ctx context.Context, role models.Role, offset, limit int) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, role, offset, limit)
	if err != nil {
		return nil, storeError(err, "list users")
	}
	return users, nil
}

// Stats counts products, users and orders.
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.PendingProducts, err = s.productRepo.CountByStatus(ctx, models.ProductPending); err != nil {
		return nil, storeError(err, "count products")
	}
	if stats.ApprovedProducts, err = s.productRepo.CountByStatus(ctx, models.ProductApproved); err != nil {
		return nil, storeError(err, "count products")
	}
	if stats.TotalSellers, err = s.userRepo.CountByRole(ctx, models.RoleSeller); err != nil {
		return nil, storeError(err, "count users")
	}
	if stats.TotalBuyers, err = s.userRepo.CountByRole(ctx, models.RoleBuyer); err != nil {
		return nil, storeError(err, "count users")
	}
	if stats.TotalOrders, err = s.orderRepo.Count(ctx); err != nil {
		return nil, storeError(err, "count orders")
	}
	return &stats, nil
}

func checkEcoRating(r int) error {
	if r < 0 || r > 100 {
		return fmt.Errorf("%w: eco_rating must be between 0 and 100", ErrValidation)
	}
	return nil
}
