package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/cache"
	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/apperr"
)

func newTestProductService(t *testing.T, pc cache.ProductCache) (ProductService, *gorm.DB) {
	db := setupTestDB(t)
	svc := NewProductService(repository.NewProductRepository(db), repository.NewCategoryRepository(db), pc)
	return svc, db
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestProductCreate_Defaults(t *testing.T) {
	svc, _ := newTestProductService(t, nil)
	p, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:         "Áo Thun",
		Code:         "AT-01",
		RegularPrice: price(150000),
	})
	require.NoError(t, err)
	assert.Equal(t, "ao-thun", p.Slug)
	assert.Equal(t, model.DefaultCurrency, p.Currency)
	assert.True(t, p.IsActive)
	assert.Equal(t, "0.00", p.SalePrice.String())
	assert.NotNil(t, p.Sizes)
}

func TestProductCreate_CodeConflict(t *testing.T) {
	svc, _ := newTestProductService(t, nil)
	ctx := context.Background()
	req := dto.CreateProductRequest{Name: "Shirt", Code: "SKU-1", RegularPrice: price(100)}
	first, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, e.Status)
	assert.Equal(t, apperr.CodeProductCodeExists, e.Code)

	// 软删除后 code 可复用，slug 不可复用
	require.NoError(t, svc.Delete(ctx, first.ID))
	again, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "shirt-1", again.Slug)
}

func TestProductCreate_CategoryMustExist(t *testing.T) {
	svc, db := newTestProductService(t, nil)
	ctx := context.Background()
	_, err := svc.Create(ctx, dto.CreateProductRequest{
		Name: "Shirt", Code: "SKU-1", RegularPrice: price(100), CategoryID: strPtr("missing"),
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeProductCategoryNotFound))

	cat := &model.Category{Name: "Tops", Slug: "tops", IsActive: true}
	require.NoError(t, repository.NewCategoryRepository(db).Create(ctx, cat))
	p, err := svc.Create(ctx, dto.CreateProductRequest{
		Name: "Shirt", Code: "SKU-1", RegularPrice: price(100), CategoryID: &cat.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, p.CategoryID)

	rows, total, err := svc.ListByCategory(ctx, cat.ID, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, p.ID, rows[0].ID)

	_, _, err = svc.ListByCategory(ctx, "missing", repository.Page{})
	assert.True(t, apperr.HasCode(err, apperr.CodeCategoryNotFound))
}

func TestProductUpdate(t *testing.T) {
	svc, _ := newTestProductService(t, nil)
	ctx := context.Background()
	a, err := svc.Create(ctx, dto.CreateProductRequest{Name: "A", Code: "A", RegularPrice: price(100)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CreateProductRequest{Name: "B", Code: "B", RegularPrice: price(100)})
	require.NoError(t, err)

	taken := "B"
	_, err = svc.Update(ctx, a.ID, dto.UpdateProductRequest{Code: &taken})
	assert.True(t, apperr.HasCode(err, apperr.CodeProductCodeExists))

	name := "B"
	usd := "usd"
	updated, err := svc.Update(ctx, a.ID, dto.UpdateProductRequest{
		Name:      &name,
		SalePrice: price(80),
		Currency:  &usd,
		Sizes:     []string{"L"},
	})
	require.NoError(t, err)
	assert.Equal(t, "b-1", updated.Slug)
	assert.Equal(t, "80.00", updated.SalePrice.String())
	assert.Equal(t, "USD", updated.Currency)
	assert.Equal(t, []string{"L"}, []string(updated.Sizes))

	_, err = svc.Update(ctx, "missing", dto.UpdateProductRequest{})
	assert.True(t, apperr.HasCode(err, apperr.CodeProductNotFound))
}

func TestProductGetBySlug_UsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	pc := cache.NewRedisProductCache(client, time.Minute)

	svc, db := newTestProductService(t, pc)
	ctx := context.Background()
	p, err := svc.Create(ctx, dto.CreateProductRequest{Name: "Cap", Code: "CAP", RegularPrice: price(50000)})
	require.NoError(t, err)

	got, err := svc.GetBySlug(ctx, "cap")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.True(t, mr.Exists("product:slug:cap"))

	// 绕过服务直接改库，缓存命中时仍返回旧值
	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", p.ID).Update("name", "Changed").Error)
	cached, err := svc.GetBySlug(ctx, "cap")
	require.NoError(t, err)
	assert.Equal(t, "Cap", cached.Name)
	assert.Equal(t, "50000.00", cached.RegularPrice.String())

	// 通过服务更新会使缓存失效
	newName := "Cap v2"
	_, err = svc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &newName})
	require.NoError(t, err)
	assert.False(t, mr.Exists("product:slug:cap"))

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.GetBySlug(ctx, "cap-v2")
	assert.True(t, apperr.HasCode(err, apperr.CodeProductNotFound))
}

func TestProductGetBySlug_InactiveHidden(t *testing.T) {
	svc, _ := newTestProductService(t, nil)
	ctx := context.Background()
	inactive := false
	_, err := svc.Create(ctx, dto.CreateProductRequest{Name: "Hidden", Code: "H", RegularPrice: price(1), IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.GetBySlug(ctx, "hidden")
	assert.True(t, apperr.HasCode(err, apperr.CodeProductNotFound))

	_, total, err := svc.List(ctx, dto.ProductQuery{}, true)
	require.NoError(t, err)
	assert.Zero(t, total)
	_, total, err = svc.List(ctx, dto.ProductQuery{}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
