package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/config"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/database"
)

// setupTestDB 单连接的内存 sqlite，事务内外共用同一连接
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	}}
	db, err := database.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, code string, regular, sale int64, currency string) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:         "Product " + code,
		Code:         code,
		Slug:         "product-" + code,
		RegularPrice: model.NewMoney(decimal.NewFromInt(regular)),
		SalePrice:    model.NewMoney(decimal.NewFromInt(sale)),
		Currency:     currency,
		Sizes:        []string{"S", "M"},
		IsActive:     true,
	}
	require.NoError(t, repository.NewProductRepository(db).Create(context.Background(), p))
	return p
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
