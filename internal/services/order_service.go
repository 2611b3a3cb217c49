package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ecohaat/internal/models"
	"ecohaat/internal/repositories"
)

// OrderService handles business logic related to orders.
type OrderService struct {
	cartRepo  repositories.CartRepository
	orderRepo repositories.OrderRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(cartRepo repositories.CartRepository, orderRepo repositories.OrderRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// PlaceOrder turns the buyer's cart into an order. Every cart line is checked
// before anything is written; the writes themselves happen in one transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID, shippingAddress string) (*models.Order, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, fmt.Errorf("%w: shipping address is required", ErrValidation)
	}

	lines, err := s.cartRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, storeError(err, "fetch cart")
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	var totalAmount float64
	items := make([]models.OrderItem, 0, len(lines))
	names := make(map[uint]string, len(lines))
	for _, line := range lines {
		product := line.Product
		if product == nil {
			return nil, &ProductError{Kind: ErrProductUnavailable, ProductID: line.ProductID}
		}
		names[product.ID] = product.Name

		if product.Status != models.ProductApproved {
			return nil, &ProductError{Kind: ErrProductUnavailable, ProductID: product.ID, ProductName: product.Name}
		}
		if product.StockQuantity < line.Quantity {
			return nil, &ProductError{Kind: ErrInsufficientStock, ProductID: product.ID, ProductName: product.Name}
		}

		totalAmount += product.Price * float64(line.Quantity)
		items = append(items, models.OrderItem{
			ProductID:       product.ID,
			Quantity:        line.Quantity,
			PriceAtPurchase: product.Price,
		})
	}

	order := &models.Order{
		BuyerID:         buyerID,
		TotalAmount:     totalAmount,
		ShippingAddress: shippingAddress,
		Status:          models.OrderPending,
		Items:           items,
	}
	if err := s.orderRepo.Checkout(ctx, order); err != nil {
		var conflict *repositories.StockConflictError
		if errors.As(err, &conflict) {
			return nil, &ProductError{Kind: ErrInsufficientStock, ProductID: conflict.ProductID, ProductName: names[conflict.ProductID]}
		}
		return nil, storeError(err, "create order")
	}
	log.Printf("Order %d placed by buyer %s (total %.2f, %d items)", order.ID, buyerID, order.TotalAmount, len(order.Items))

	publish(ctx, s.publisher, models.EventOrderCreated, models.OrderEvent{
		Type:       models.EventOrderCreated,
		OrderID:    order.ID,
		BuyerID:    order.BuyerID,
		Status:     order.Status,
		Total:      order.TotalAmount,
		Items:      order.Items,
		OccurredAt: time.Now(),
	})
	return order, nil
}

// ListBuyerOrders returns the buyer's orders newest first.
func (s *OrderService) ListBuyerOrders(ctx context.Context, buyerID string, status models.OrderStatus) ([]models.Order, error) {
	orders, err := s.orderRepo.List(ctx, repositories.OrderFilter{BuyerID: buyerID, Status: status})
	if err != nil {
		return nil, storeError(err, "list orders")
	}
	return orders, nil
}

// GetOrder returns an order with its items. Buyers may only see their own.
func (s *OrderService) GetOrder(ctx context.Context, user *models.User, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "get order")
	}
	if user.Role == models.RoleBuyer && order.BuyerID != user.ID {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListAllOrders pages through every order.
func (s *OrderService) ListAllOrders(ctx context.Context, status models.OrderStatus, offset, limit int) ([]models.Order, error) {
	orders, err := s.orderRepo.List(ctx, repositories.OrderFilter{Status: status, Offset: offset, Limit: limit})
	if err != nil {
		return nil, storeError(err, "list orders")
	}
	return orders, nil
}

// ListSellerOrders returns the orders that contain the seller's products.
func (s *OrderService) ListSellerOrders(ctx context.Context, sellerID string) ([]models.Order, error) {
	orders, err := s.orderRepo.ListForSeller(ctx, sellerID)
	if err != nil {
		return nil, storeError(err, "list seller orders")
	}
	return orders, nil
}

// UpdateOrderStatus sets the status of an order. Transitions are not
// restricted: any known status may follow any other.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid order status: %s", ErrValidation, status)
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, storeError(err, "update order status")
	}

	publish(ctx, s.publisher, models.EventOrderStatusUpdated, models.OrderEvent{
		Type:       models.EventOrderStatusUpdated,
		OrderID:    order.ID,
		BuyerID:    order.BuyerID,
		Status:     order.Status,
		Total:      order.TotalAmount,
		OccurredAt: time.Now(),
	})
	return order, nil
}
