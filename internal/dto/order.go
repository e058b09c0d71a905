package dto

// OrderCustomer 下单客户信息
type OrderCustomer struct {
	FullName string  `json:"full_name" binding:"required,max=255"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Phone    *string `json:"phone" binding:"omitempty,max=32"`
	Address  *string `json:"address" binding:"omitempty,max=500"`
	Note     *string `json:"note"`
}

// OrderItemRequest 下单明细
type OrderItemRequest struct {
	ProductID     string  `json:"product_id" binding:"required,max=36"`
	Quantity      *int    `json:"quantity" binding:"omitempty,min=1"`
	SelectedSize  *string `json:"selected_size" binding:"omitempty,max=64"`
	SelectedColor *string `json:"selected_color" binding:"omitempty,max=64"`
}

// CreateOrderRequest 创建订单
type CreateOrderRequest struct {
	PaymentMethod string             `json:"payment_method" binding:"omitempty,max=32"`
	Customer      OrderCustomer      `json:"customer" binding:"required"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest 更新订单状态
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,order_status"`
}

// OrderQuery 订单列表查询参数
type OrderQuery struct {
	Status string `form:"status" binding:"omitempty,order_status"`
	PageQuery
}

// OrderSearchQuery 按客户邮箱或电话查询订单
type OrderSearchQuery struct {
	Email string `form:"email" binding:"omitempty,email"`
	Phone string `form:"phone" binding:"omitempty,max=32"`
	PageQuery
}
