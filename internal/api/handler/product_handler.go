package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/pkg/response"
)

// ListProducts 商品列表
// @Summary 商品列表
// @Tags 商品
// @Produce json
// @Param category_id query string false "分类ID"
// @Param search query string false "名称关键字"
// @Param is_active query bool false "是否上架（仅管理员）"
// @Param page query int false "页码" default(1)
// @Param per_page query int false "每页数量" default(10)
// @Success 200 {object} response.ListResponse{rows=[]model.Product}
// @Router /api/products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	var q dto.ProductQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, err)
		return
	}
	page := pageOf(q.PageQuery)
	q.PageQuery = dto.PageQuery{Page: page.Page, PerPage: page.PerPage}
	rows, total, err := h.products.List(c.Request.Context(), q, !isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, rows, response.NewPagination(total, page.Page, page.PerPage))
}

// ListProductsByCategory 某分类下的商品
// @Summary 分类下的商品
// @Tags 商品
// @Produce json
// @Param categoryId path string true "分类ID"
// @Param page query int false "页码" default(1)
// @Param per_page query int false "每页数量" default(10)
// @Success 200 {object} response.ListResponse{rows=[]model.Product}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/products/category/{categoryId} [get]
func (h *Handler) ListProductsByCategory(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, err)
		return
	}
	page := pageOf(q)
	rows, total, err := h.products.ListByCategory(c.Request.Context(), c.Param("categoryId"), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, rows, response.NewPagination(total, page.Page, page.PerPage))
}

// GetProduct 商品详情
// @Summary 商品详情
// @Tags 商品
// @Produce json
// @Param id path string true "商品ID"
// @Success 200 {object} response.Response{data=model.Product}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// GetProductBySlug 按 slug 查询上架商品
// @Summary 按 slug 查询商品
// @Tags 商品
// @Produce json
// @Param slug path string true "slug"
// @Success 200 {object} response.Response{data=model.Product}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/products/slug/{slug} [get]
func (h *Handler) GetProductBySlug(c *gin.Context) {
	p, err := h.products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// CreateProduct 创建商品
// @Summary 创建商品
// @Tags 商品
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProductRequest true "商品信息"
// @Success 201 {object} response.Response{data=model.Product}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	p, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p)
}

// UpdateProduct 更新商品
// @Summary 更新商品
// @Tags 商品
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "商品ID"
// @Param request body dto.UpdateProductRequest true "商品信息"
// @Success 200 {object} response.Response{data=model.Product}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/products/{id} [put]
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	p, err := h.products.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// DeleteProduct 删除商品（软删除）
// @Summary 删除商品
// @Tags 商品
// @Security BearerAuth
// @Param id path string true "商品ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/products/{id} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
