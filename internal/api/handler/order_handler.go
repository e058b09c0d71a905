package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/pkg/response"
)

// CreateOrder 下单
// @Summary 创建订单
// @Description 同一事务内完成客户识别、商品价格快照、订单与明细写入
// @Tags 订单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateOrderRequest true "订单信息"
// @Success 201 {object} response.Response{data=model.Order}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order)
}

// UpdateOrderStatus 更新订单状态
// @Summary 更新订单状态
// @Tags 订单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "订单ID"
// @Param request body dto.UpdateOrderStatusRequest true "状态"
// @Success 200 {object} response.Response{data=model.Order}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/orders/{id}/status [patch]
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), model.OrderStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrder 订单详情
// @Summary 订单详情
// @Tags 订单
// @Produce json
// @Security BearerAuth
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response{data=model.Order}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 订单列表
// @Summary 订单列表
// @Tags 订单
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态" Enums(PENDING,CONFIRMED,PROCESSING,COMPLETED)
// @Param page query int false "页码" default(1)
// @Param per_page query int false "每页数量" default(10)
// @Success 200 {object} response.ListResponse{rows=[]model.Order}
// @Router /api/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	var q dto.OrderQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, err)
		return
	}
	page := pageOf(q.PageQuery)
	q.PageQuery = dto.PageQuery{Page: page.Page, PerPage: page.PerPage}
	rows, total, err := h.orders.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, rows, response.NewPagination(total, page.Page, page.PerPage))
}

// SearchOrders 按客户邮箱或电话查询订单
// @Summary 查询客户订单
// @Tags 订单
// @Produce json
// @Security BearerAuth
// @Param email query string false "邮箱"
// @Param phone query string false "电话"
// @Param page query int false "页码" default(1)
// @Param per_page query int false "每页数量" default(10)
// @Success 200 {object} response.ListResponse{rows=[]model.Order}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/orders/search [get]
func (h *Handler) SearchOrders(c *gin.Context) {
	var q dto.OrderSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, err)
		return
	}
	page := pageOf(q.PageQuery)
	q.PageQuery = dto.PageQuery{Page: page.Page, PerPage: page.PerPage}
	rows, total, err := h.orders.Search(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, rows, response.NewPagination(total, page.Page, page.PerPage))
}
