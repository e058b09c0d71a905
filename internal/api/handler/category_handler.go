package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/pkg/response"
)

// ListCategories 分类列表
// @Summary 分类列表
// @Tags 分类
// @Produce json
// @Param parent_id query string false "父分类ID，root 或空表示顶级"
// @Param is_popular query bool false "是否热门"
// @Param search query string false "名称关键字"
// @Param page query int false "页码" default(1)
// @Param per_page query int false "每页数量" default(10)
// @Success 200 {object} response.ListResponse{rows=[]model.Category}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	var q dto.CategoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, err)
		return
	}
	page := pageOf(q.PageQuery)
	q.PageQuery = dto.PageQuery{Page: page.Page, PerPage: page.PerPage}
	rows, total, err := h.categories.List(c.Request.Context(), q, !isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, rows, response.NewPagination(total, page.Page, page.PerPage))
}

// GetCategory 分类详情
// @Summary 分类详情
// @Tags 分类
// @Produce json
// @Param id path string true "分类ID"
// @Success 200 {object} response.Response{data=model.Category}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/categories/{id} [get]
func (h *Handler) GetCategory(c *gin.Context) {
	cat, err := h.categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cat)
}

// CreateCategory 创建分类
// @Summary 创建分类
// @Tags 分类
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCategoryRequest true "分类信息"
// @Success 201 {object} response.Response{data=model.Category}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	cat, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cat)
}

// UpdateCategory 更新分类
// @Summary 更新分类
// @Description parent_id 不能是自身或自身的后代
// @Tags 分类
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "分类ID"
// @Param request body dto.UpdateCategoryRequest true "分类信息"
// @Success 200 {object} response.Response{data=model.Category}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/categories/{id} [put]
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	cat, err := h.categories.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cat)
}

// DeleteCategory 删除分类（软删除）
// @Summary 删除分类
// @Tags 分类
// @Security BearerAuth
// @Param id path string true "分类ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/categories/{id} [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
