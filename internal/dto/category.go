package dto

// CreateCategoryRequest 创建分类
type CreateCategoryRequest struct {
	Name        string           `json:"name" binding:"required,max=255"`
	Slug        string           `json:"slug" binding:"omitempty,max=255"`
	Description string           `json:"description"`
	Image       string           `json:"image" binding:"omitempty,max=500"`
	ParentID    Optional[string] `json:"parent_id" swaggertype:"string"`
	IsActive    *bool            `json:"is_active"`
	IsPopular   *bool            `json:"is_popular"`
	Priority    *int             `json:"priority"`
}

// UpdateCategoryRequest 更新分类，未出现的字段保持不变
type UpdateCategoryRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Slug        *string          `json:"slug" binding:"omitempty,max=255"`
	Description *string          `json:"description"`
	Image       *string          `json:"image" binding:"omitempty,max=500"`
	ParentID    Optional[string] `json:"parent_id" swaggertype:"string"`
	IsActive    *bool            `json:"is_active"`
	IsPopular   *bool            `json:"is_popular"`
	Priority    *int             `json:"priority"`
}

// CategoryQuery 分类列表查询参数
type CategoryQuery struct {
	ParentID  *string `form:"parent_id"`
	IsPopular *bool   `form:"is_popular"`
	Search    string  `form:"search"`
	PageQuery
}
