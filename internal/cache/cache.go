package cache

import (
	"context"
	"errors"

	"github.com/d60-Lab/shop-api/internal/model"
)

var ErrCacheMiss = errors.New("cache miss")

// ProductCache 按 slug 缓存上架商品详情
type ProductCache interface {
	Get(ctx context.Context, slug string) (*model.Product, error)
	Set(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, slugs ...string) error
}

// CodeStore 存放带过期时间的一次性验证码
type CodeStore interface {
	Save(ctx context.Context, key, code string) error
	// Consume 校验成功后删除，保证验证码只能使用一次
	Consume(ctx context.Context, key, code string) (bool, error)
}

// NopProductCache 未启用 redis 时使用
type NopProductCache struct{}

func (NopProductCache) Get(context.Context, string) (*model.Product, error) { return nil, ErrCacheMiss }
func (NopProductCache) Set(context.Context, *model.Product) error           { return nil }
func (NopProductCache) Delete(context.Context, ...string) error             { return nil }
