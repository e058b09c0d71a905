package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string, scopes ...Scope) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
}

type userRepository struct {
	Repository[model.User]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{Repository: New[model.User](db)}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.DB(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.DB(ctx).Model(&model.User{}).Where("id = ?", id).Update("password_hash", hash).Error
}
