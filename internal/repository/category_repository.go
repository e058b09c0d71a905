package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/model"
)

// CategoryFilter 分类列表过滤条件
type CategoryFilter struct {
	ParentID  *string // 非 nil 且为空串表示只取顶级分类
	IsPopular *bool
	IsActive  *bool
	Search    string
}

type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id string, scopes ...Scope) (*model.Category, error)
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)
	Save(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f CategoryFilter, page Page) ([]model.Category, int64, error)
	ParentIDOf(ctx context.Context, id string) (*string, error)
	TakenSlugs(ctx context.Context, base, excludeID string) ([]string, error)
	Exists(ctx context.Context, scopes ...Scope) (bool, error)
}

type categoryRepository struct {
	Repository[model.Category]
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{Repository: New[model.Category](db)}
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var c model.Category
	if err := r.DB(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) List(ctx context.Context, f CategoryFilter, page Page) ([]model.Category, int64, error) {
	scopes := []Scope{NameLike("name", f.Search)}
	if f.ParentID != nil {
		pid := *f.ParentID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			if pid == "" {
				return db.Where("parent_id IS NULL")
			}
			return db.Where("parent_id = ?", pid)
		})
	}
	if f.IsPopular != nil {
		v := *f.IsPopular
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("is_popular = ?", v) })
	}
	if f.IsActive != nil {
		v := *f.IsActive
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("is_active = ?", v) })
	}
	return r.Paginate(ctx, page, "priority DESC, created_at DESC", scopes...)
}

// ParentIDOf 只读取 parent_id，用于沿祖先链向上遍历
func (r *categoryRepository) ParentIDOf(ctx context.Context, id string) (*string, error) {
	var c model.Category
	err := r.DB(ctx).Select("id", "parent_id").Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return c.ParentID, nil
}
