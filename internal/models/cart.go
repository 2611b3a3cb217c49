package models

import "time"

// CartItem is one line of a buyer's cart. A buyer holds at most one line per product.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BuyerID   string    `json:"buyer_id" gorm:"type:varchar(36);uniqueIndex:idx_cart_buyer_product;not null"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex:idx_cart_buyer_product;not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
