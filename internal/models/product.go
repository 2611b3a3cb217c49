package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ProductStatus is the moderation state of a listing.
type ProductStatus string

const (
	ProductPending  ProductStatus = "pending"
	ProductApproved ProductStatus = "approved"
	ProductRejected ProductStatus = "rejected"
)

// Valid reports whether s is a known moderation state.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductPending, ProductApproved, ProductRejected:
		return true
	}
	return false
}

// Product represents a listing offered by a seller.
type Product struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	SellerID        string        `json:"seller_id" gorm:"type:varchar(36);index;not null"`
	CategoryID      uint          `json:"category_id" gorm:"index;not null"`
	Name            string        `json:"name" gorm:"type:varchar(255);not null"`
	Description     *string       `json:"description"`
	Price           float64       `json:"price" gorm:"not null"`
	StockQuantity   int           `json:"stock_quantity" gorm:"not null;default:0"`
	Material        string        `json:"material" gorm:"type:varchar(100);not null"`
	Images          StringList    `json:"images" gorm:"type:text"`
	Status          ProductStatus `json:"status" gorm:"type:varchar(16);index;not null;default:pending"`
	EcoRating       *int          `json:"eco_rating"`
	RejectionReason *string       `json:"rejection_reason"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Seller   *User     `json:"-" gorm:"foreignKey:SellerID"`
	Category *Category `json:"-" gorm:"foreignKey:CategoryID"`
}

// ProductDetails is a product with the display names of its seller and category.
type ProductDetails struct {
	Product
	SellerName   *string `json:"seller_name"`
	CategoryName *string `json:"category_name"`
}

// Details flattens the preloaded seller and category into a ProductDetails.
func (p Product) Details() ProductDetails {
	d := ProductDetails{Product: p}
	if p.Seller != nil {
		name := p.Seller.FullName
		d.SellerName = &name
	}
	if p.Category != nil {
		name := p.Category.Name
		d.CategoryName = &name
	}
	return d
}

// StringList is stored as a JSON array in a text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported type %T for StringList", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(l))
}
