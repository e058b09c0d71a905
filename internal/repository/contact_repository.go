package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/model"
)

type ContactRepository interface {
	Create(ctx context.Context, c *model.Contact) error
	FindByID(ctx context.Context, id string, scopes ...Scope) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search string, page Page) ([]model.Contact, int64, error)
}

type contactRepository struct {
	Repository[model.Contact]
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{Repository: New[model.Contact](db)}
}

func (r *contactRepository) List(ctx context.Context, search string, page Page) ([]model.Contact, int64, error) {
	return r.Paginate(ctx, page, "created_at DESC", NameLike("full_name", search))
}
