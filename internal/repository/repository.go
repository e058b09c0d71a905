package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Page 分页参数，页码从 1 开始
type Page struct {
	Page    int
	PerPage int
}

// Normalize 修正非法分页参数
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Page) Offset() int { return (p.Page - 1) * p.PerPage }

// Scope 可复用的查询条件
type Scope = func(*gorm.DB) *gorm.DB

// Repository 通用 CRUD 仓储，T 为 gorm 模型
type Repository[T any] struct {
	db *gorm.DB
}

func New[T any](db *gorm.DB) Repository[T] { return Repository[T]{db: db} }

// DB 返回绑定 ctx 的会话
func (r Repository[T]) DB(ctx context.Context) *gorm.DB { return r.db.WithContext(ctx) }

// Create 插入记录
func (r Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// FindByID 按主键查询，不存在时返回 gorm.ErrRecordNotFound
func (r Repository[T]) FindByID(ctx context.Context, id string, scopes ...Scope) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).Scopes(scopes...).Where("id = ?", id).First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Save 全量更新
func (r Repository[T]) Save(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

// Delete 按主键删除；带 DeletedAt 的模型为软删除
func (r Repository[T]) Delete(ctx context.Context, id string) error {
	var entity T
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Paginate 分页查询，返回当前页数据与总数。order 仅作用于取数查询。
func (r Repository[T]) Paginate(ctx context.Context, page Page, order string, scopes ...Scope) ([]T, int64, error) {
	page = page.Normalize()
	var (
		total int64
		model T
	)
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model).Scopes(scopes...)
	}
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}
	rows := []T{}
	if total == 0 {
		return rows, 0, nil
	}
	q := base()
	if order != "" {
		q = q.Order(order)
	}
	if err := q.Offset(page.Offset()).Limit(page.PerPage).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("find page: %w", err)
	}
	return rows, total, nil
}

// Exists 判断是否存在满足条件的记录
func (r Repository[T]) Exists(ctx context.Context, scopes ...Scope) (bool, error) {
	var (
		cnt   int64
		model T
	)
	if err := r.db.WithContext(ctx).Model(&model).Scopes(scopes...).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// TakenSlugs 返回等于 base 或形如 base-N 的已占用 slug（含软删除记录，唯一索引覆盖全部行）
func (r Repository[T]) TakenSlugs(ctx context.Context, base, excludeID string) ([]string, error) {
	var (
		slugs []string
		model T
	)
	q := r.db.WithContext(ctx).Unscoped().Model(&model).
		Where("(slug = ? OR slug LIKE ?)", base, base+"-%")
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Pluck("slug", &slugs).Error; err != nil {
		return nil, err
	}
	return slugs, nil
}

// 常用 scope

func Active() Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where("is_active = ?", true) }
}

// NameLike 不区分大小写的模糊匹配
func NameLike(column, keyword string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if keyword == "" {
			return db
		}
		return db.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}
}
