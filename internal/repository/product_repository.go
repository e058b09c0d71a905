package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/shop-api/internal/model"
)

// ProductFilter 商品列表过滤条件
type ProductFilter struct {
	CategoryID string
	IsActive   *bool
	Search     string
}

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id string, scopes ...Scope) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string, scopes ...Scope) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []string, forUpdate bool) ([]model.Product, error)
	Save(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ProductFilter, page Page) ([]model.Product, int64, error)
	CodeExists(ctx context.Context, code, excludeID string) (bool, error)
	TakenSlugs(ctx context.Context, base, excludeID string) ([]string, error)
	WithTx(tx *gorm.DB) ProductRepository
}

type productRepository struct {
	Repository[model.Product]
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{Repository: New[model.Product](db)}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{Repository: New[model.Product](tx)}
}

func (r *productRepository) FindBySlug(ctx context.Context, slug string, scopes ...Scope) (*model.Product, error) {
	var p model.Product
	err := r.DB(ctx).Scopes(scopes...).Preload("Category").Where("slug = ?", slug).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDs 批量读取（含未上架，不含软删除）。forUpdate 时加行锁，调用方需保证方言支持。
func (r *productRepository) FindByIDs(ctx context.Context, ids []string, forUpdate bool) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	q := r.DB(ctx).Where("id IN ?", ids)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var res []model.Product
	if err := q.Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (r *productRepository) List(ctx context.Context, f ProductFilter, page Page) ([]model.Product, int64, error) {
	scopes := []Scope{NameLike("name", f.Search)}
	if f.CategoryID != "" {
		cid := f.CategoryID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("category_id = ?", cid) })
	}
	if f.IsActive != nil {
		v := *f.IsActive
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("is_active = ?", v) })
	}
	return r.Paginate(ctx, page, "created_at DESC", scopes...)
}

// CodeExists 商品编码在未删除记录中唯一
func (r *productRepository) CodeExists(ctx context.Context, code, excludeID string) (bool, error) {
	return r.Exists(ctx, func(db *gorm.DB) *gorm.DB {
		db = db.Where("code = ?", code)
		if excludeID != "" {
			db = db.Where("id <> ?", excludeID)
		}
		return db
	})
}
