package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultCurrency 未指定币种时使用
const DefaultCurrency = "VND"

// Product 商品
type Product struct {
	ID           string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CategoryID   *string                     `json:"category_id" gorm:"type:varchar(36);index:idx_product_category"`
	Category     *Category                   `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Name         string                      `json:"name" gorm:"type:varchar(255);not null"`
	Code         string                      `json:"code" gorm:"type:varchar(64);index:idx_product_code;not null"`
	Slug         string                      `json:"slug" gorm:"type:varchar(255);uniqueIndex:ux_product_slug;not null"`
	Description  string                      `json:"description" gorm:"type:text"`
	Thumbnail    string                      `json:"thumbnail" gorm:"type:varchar(500)"`
	RegularPrice Money                       `json:"regular_price" gorm:"type:decimal(15,2);not null"`
	SalePrice    Money                       `json:"sale_price" gorm:"type:decimal(15,2);not null"`
	Currency     string                      `json:"currency" gorm:"type:varchar(8);not null"`
	Sizes        datatypes.JSONSlice[string] `json:"sizes"`
	Colors       datatypes.JSONSlice[string] `json:"colors"`
	Status       datatypes.JSONSlice[string] `json:"status"`
	IsActive     bool                        `json:"is_active" gorm:"not null;index"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	DeletedAt    gorm.DeletedAt              `json:"-" gorm:"index"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// EffectivePrice 实际成交单价：促销价大于 0 时取促销价，否则取原价
func (p *Product) EffectivePrice() Money {
	if p.SalePrice.IsPositive() {
		return p.SalePrice
	}
	return p.RegularPrice
}
