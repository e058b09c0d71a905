package dto

type CreatePostRequest struct {
	Title     string `json:"title" binding:"required,max=255"`
	Slug      string `json:"slug" binding:"omitempty,max=255"`
	Summary   string `json:"summary" binding:"omitempty,max=1000"`
	Content   string `json:"content"`
	Thumbnail string `json:"thumbnail" binding:"omitempty,max=500"`
	IsActive  *bool  `json:"is_active"`
}

type UpdatePostRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=255"`
	Slug      *string `json:"slug" binding:"omitempty,max=255"`
	Summary   *string `json:"summary" binding:"omitempty,max=1000"`
	Content   *string `json:"content"`
	Thumbnail *string `json:"thumbnail" binding:"omitempty,max=500"`
	IsActive  *bool   `json:"is_active"`
}

type PostQuery struct {
	Search string `form:"search"`
	PageQuery
}
