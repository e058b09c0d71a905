package dto

import "github.com/shopspring/decimal"

// CreateProductRequest 创建商品
type CreateProductRequest struct {
	CategoryID   *string          `json:"category_id" binding:"omitempty,max=36"`
	Name         string           `json:"name" binding:"required,max=255"`
	Code         string           `json:"code" binding:"required,max=64"`
	Slug         string           `json:"slug" binding:"omitempty,max=255"`
	Description  string           `json:"description"`
	Thumbnail    string           `json:"thumbnail" binding:"omitempty,max=500"`
	RegularPrice *decimal.Decimal `json:"regular_price" swaggertype:"string" binding:"required"`
	SalePrice    *decimal.Decimal `json:"sale_price" swaggertype:"string"`
	Currency     string           `json:"currency" binding:"omitempty,len=3,alpha"`
	Sizes        []string         `json:"sizes"`
	Colors       []string         `json:"colors"`
	Status       []string         `json:"status"`
	IsActive     *bool            `json:"is_active"`
}

// UpdateProductRequest 更新商品，未出现的字段保持不变
type UpdateProductRequest struct {
	CategoryID   Optional[string] `json:"category_id" swaggertype:"string"`
	Name         *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Code         *string          `json:"code" binding:"omitempty,min=1,max=64"`
	Slug         *string          `json:"slug" binding:"omitempty,max=255"`
	Description  *string          `json:"description"`
	Thumbnail    *string          `json:"thumbnail" binding:"omitempty,max=500"`
	RegularPrice *decimal.Decimal `json:"regular_price" swaggertype:"string"`
	SalePrice    *decimal.Decimal `json:"sale_price" swaggertype:"string"`
	Currency     *string          `json:"currency" binding:"omitempty,len=3,alpha"`
	Sizes        []string         `json:"sizes"`
	Colors       []string         `json:"colors"`
	Status       []string         `json:"status"`
	IsActive     *bool            `json:"is_active"`
}

// ProductQuery 商品列表查询参数
type ProductQuery struct {
	CategoryID string `form:"category_id"`
	Search     string `form:"search"`
	IsActive   *bool  `form:"is_active"`
	PageQuery
}
