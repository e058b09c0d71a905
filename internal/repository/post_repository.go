package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	FindByID(ctx context.Context, id string, scopes ...Scope) (*model.Post, error)
	FindBySlug(ctx context.Context, slug string, scopes ...Scope) (*model.Post, error)
	Save(ctx context.Context, p *model.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search string, activeOnly bool, page Page) ([]model.Post, int64, error)
	TakenSlugs(ctx context.Context, base, excludeID string) ([]string, error)
}

type postRepository struct {
	Repository[model.Post]
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{Repository: New[model.Post](db)}
}

func (r *postRepository) FindBySlug(ctx context.Context, slug string, scopes ...Scope) (*model.Post, error) {
	var p model.Post
	if err := r.DB(ctx).Scopes(scopes...).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) List(ctx context.Context, search string, activeOnly bool, page Page) ([]model.Post, int64, error) {
	scopes := []Scope{NameLike("title", search)}
	if activeOnly {
		scopes = append(scopes, Active())
	}
	return r.Paginate(ctx, page, "created_at DESC", scopes...)
}
