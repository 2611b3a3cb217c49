package models

// Category groups products, e.g. "Bamboo" or "Paper".
type Category struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}
