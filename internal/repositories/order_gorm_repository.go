package repositories

import (
	"context"
	"errors"
	"fmt"

	"ecohaat/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Checkout runs the write half of order placement atomically.
func (r *GORMOrderRepository) Checkout(ctx context.Context, order *models.Order) error {
	items := make([]models.OrderItem, len(order.Items))
	copy(items, order.Items)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
			items[i].Product = nil
		}
		if len(items) > 0 {
			if err := tx.Omit("Product").Create(&items).Error; err != nil {
				return fmt.Errorf("failed to create order items: %w", err)
			}
		}

		for _, item := range items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock of product %d: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return &StockConflictError{ProductID: item.ProductID, Requested: item.Quantity}
			}
		}

		if err := tx.Where("buyer_id = ?", order.BuyerID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart of buyer %s: %w", order.BuyerID, err)
		}
		return nil
	})
	if err != nil {
		order.ID = 0
		return err
	}

	order.Items = items
	return nil
}

// GetByID returns an order with its items and their products.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// List returns orders newest first. Items are not loaded.
func (r *GORMOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.BuyerID != "" {
		q = q.Where("buyer_id = ?", filter.BuyerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	q = q.Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListForSeller returns the orders containing the seller's products. Each
// order carries only the items that belong to that seller.
func (r *GORMOrderRepository) ListForSeller(ctx context.Context, sellerID string) ([]models.Order, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID).
		Preload("Product").
		Order("order_items.order_id DESC").Order("order_items.id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list order items of seller %s: %w", sellerID, err)
	}
	if len(items) == 0 {
		return []models.Order{}, nil
	}

	var ids []uint
	byOrder := make(map[uint][]models.OrderItem)
	for _, item := range items {
		if _, seen := byOrder[item.OrderID]; !seen {
			ids = append(ids, item.OrderID)
		}
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	var orders []models.Order
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders of seller %s: %w", sellerID, err)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return orders, nil
}

// UpdateStatus sets the status of an order. Any status may replace any other.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update status of order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("order with ID %d not found for status update: %w", id, ErrNotFound)
	}

	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload order %d: %w", id, err)
	}
	return &order, nil
}

// Count returns the number of orders.
func (r *GORMOrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}
