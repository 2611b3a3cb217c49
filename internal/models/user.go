package models

import "time"

// Role gates which endpoints a profile may call.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleBuyer:
		return true
	}
	return false
}

// User is a marketplace profile. Its ID is the subject of issued access tokens.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	FullName  string    `json:"full_name" gorm:"type:varchar(255)"`
	Role      Role      `json:"role" gorm:"type:varchar(16);index;not null"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// TableName keeps the profiles table name used by the marketplace schema.
func (User) TableName() string {
	return "profiles"
}
