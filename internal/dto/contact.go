package dto

type CreateContactRequest struct {
	FullName string  `json:"full_name" binding:"required,max=255"`
	Email    string  `json:"email" binding:"required,email,max=255"`
	Phone    *string `json:"phone" binding:"omitempty,max=32"`
	Subject  string  `json:"subject" binding:"omitempty,max=255"`
	Message  string  `json:"message" binding:"required,max=5000"`
}

type ContactQuery struct {
	Search string `form:"search"`
	PageQuery
}
