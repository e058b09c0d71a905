package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shop-api/internal/api/middleware"
	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/pkg/response"
)

// ListPosts 文章列表
// @Summary 文章列表
// @Tags 文章
// @Produce json
// @Param search query string false "标题关键字"
// @Param page query int false "页码" default(1)
// @Param per_page query int false "每页数量" default(10)
// @Success 200 {object} response.ListResponse{rows=[]model.Post}
// @Router /api/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	var q dto.PostQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, err)
		return
	}
	page := pageOf(q.PageQuery)
	q.PageQuery = dto.PageQuery{Page: page.Page, PerPage: page.PerPage}
	rows, total, err := h.posts.List(c.Request.Context(), q, !isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, rows, response.NewPagination(total, page.Page, page.PerPage))
}

// GetPost 文章详情
// @Summary 文章详情
// @Tags 文章
// @Produce json
// @Param id path string true "文章ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	p, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// GetPostBySlug 按 slug 查询文章
// @Summary 按 slug 查询文章
// @Tags 文章
// @Produce json
// @Param slug path string true "slug"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/posts/slug/{slug} [get]
func (h *Handler) GetPostBySlug(c *gin.Context) {
	p, err := h.posts.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// CreatePost 发布文章
// @Summary 发布文章
// @Tags 文章
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "文章"
// @Success 201 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	p, err := h.posts.Create(c.Request.Context(), c.GetString(middleware.CtxUserID), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p)
}

// UpdatePost 更新文章
// @Summary 更新文章
// @Tags 文章
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "文章ID"
// @Param request body dto.UpdatePostRequest true "文章"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	p, err := h.posts.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// DeletePost 删除文章
// @Summary 删除文章
// @Tags 文章
// @Security BearerAuth
// @Param id path string true "文章ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
