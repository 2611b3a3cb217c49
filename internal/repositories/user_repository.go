package repositories

import (
	"context"

	"ecohaat/internal/models"
)

// UserRepository defines the interface for profile data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)
	List(ctx context.Context, role models.Role, offset, limit int) ([]models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}
