package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/model"
)

// AutoMigrate 初始化数据库表结构
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
