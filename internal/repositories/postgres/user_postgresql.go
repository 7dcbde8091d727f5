package postgres

import (
	"context"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (u *UserPostgreSQL) GetRole(ctx context.Context, id uint) (models.UserRole, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Select("role").
		First(&user, id).Error
	if err != nil {
		return "", err
	}

	return user.Role, nil
}

func (u *UserPostgreSQL) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND is_active = true", id).
		Count(&count).Error

	return count > 0, err
}
