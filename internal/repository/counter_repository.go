package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/shop-api/internal/model"
)

type CounterRepository interface {
	// Increment 对 (name, day) 累加 n，不存在时插入
	Increment(ctx context.Context, name, day string, n int64) error
	Get(ctx context.Context, name, day string) (int64, error)
	Total(ctx context.Context, name string) (int64, error)
}

type counterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) CounterRepository { return &counterRepository{db: db} }

func (r *counterRepository) Increment(ctx context.Context, name, day string, n int64) error {
	c := &model.Counter{Name: name, Day: day, Count: n}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("counters.count + ?", n),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(c).Error
}

func (r *counterRepository) Get(ctx context.Context, name, day string) (int64, error) {
	var counts []int64
	err := r.db.WithContext(ctx).Model(&model.Counter{}).
		Where("name = ? AND day = ?", name, day).
		Pluck("count", &counts).Error
	if err != nil || len(counts) == 0 {
		return 0, err
	}
	return counts[0], nil
}

func (r *counterRepository) Total(ctx context.Context, name string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Counter{}).
		Where("name = ?", name).
		Select("COALESCE(SUM(count), 0)").
		Scan(&total).Error
	return total, err
}
