package repositories

import (
	"context"

	"github.com/brightpath-edu/tutor-portal/internal/models"
)

// UserRepository interface for user lookups
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetRole(ctx context.Context, id uint) (models.UserRole, error)
	Exists(ctx context.Context, id uint) (bool, error)
}
