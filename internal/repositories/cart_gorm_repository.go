package repositories

import (
	"context"
	"errors"
	"fmt"

	"ecohaat/internal/models"

	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) ListByBuyer(ctx context.Context, buyerID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").
		Where("buyer_id = ?", buyerID).Order("id ASC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart of buyer %s: %w", buyerID, err)
	}
	return items, nil
}

func (r *GORMCartRepository) GetByID(ctx context.Context, id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item %d: %w", id, err)
	}
	return &item, nil
}

func (r *GORMCartRepository) AddQuantity(ctx context.Context, buyerID string, productID uint, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("buyer_id = ? AND product_id = ?", buyerID, productID).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("buyer_id = ? AND product_id = ?", buyerID, productID).First(&item).Error
		}

		item = models.CartItem{BuyerID: buyerID, ProductID: productID, Quantity: quantity}
		return tx.Omit("Product").Create(&item).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add product %d to cart: %w", productID, err)
	}
	return &item, nil
}

func (r *GORMCartRepository) SetQuantity(ctx context.Context, id uint, quantity int) (*models.CartItem, error) {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update cart item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("cart item with ID %d not found for update: %w", id, ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *GORMCartRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %d not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMCartRepository) DeleteByBuyer(ctx context.Context, buyerID string) error {
	if err := r.db.WithContext(ctx).Where("buyer_id = ?", buyerID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart of buyer %s: %w", buyerID, err)
	}
	return nil
}
