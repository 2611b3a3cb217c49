package models

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItem represents a single item within an order.
type OrderItem struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	OrderID         uint    `json:"order_id" gorm:"index;not null"`
	ProductID       uint    `json:"product_id" gorm:"index;not null"`
	Quantity        int     `json:"quantity" gorm:"not null"`
	PriceAtPurchase float64 `json:"price_at_purchase" gorm:"not null"` // Price at the time of order

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Order represents a customer order.
type Order struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	BuyerID         string      `json:"buyer_id" gorm:"type:varchar(36);index;not null"`
	TotalAmount     float64     `json:"total_amount" gorm:"not null"`
	ShippingAddress string      `json:"shipping_address" gorm:"not null"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(16);index;not null"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}
