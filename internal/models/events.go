package models

import "time"

// Routing keys of the domain events published to the broker.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
	EventProductApproved    = "product.approved"
	EventProductRejected    = "product.rejected"
)

// OrderEvent is the payload of order.* events.
type OrderEvent struct {
	Type       string      `json:"type"`
	OrderID    uint        `json:"order_id"`
	BuyerID    string      `json:"buyer_id"`
	Status     OrderStatus `json:"status"`
	Total      float64     `json:"total"`
	Items      []OrderItem `json:"items,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// ProductEvent is the payload of product.* events.
type ProductEvent struct {
	Type       string        `json:"type"`
	ProductID  uint          `json:"product_id"`
	SellerID   string        `json:"seller_id"`
	Status     ProductStatus `json:"status"`
	EcoRating  *int          `json:"eco_rating,omitempty"`
	Reason     *string       `json:"reason,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
