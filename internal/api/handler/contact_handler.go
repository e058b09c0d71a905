package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/pkg/response"
)

// CreateContact 提交联系表单
// @Summary 提交联系表单
// @Tags 联系
// @Accept json
// @Produce json
// @Param request body dto.CreateContactRequest true "联系信息"
// @Success 201 {object} response.Response{data=model.Contact}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/contacts [post]
func (h *Handler) CreateContact(c *gin.Context) {
	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	ct, err := h.contacts.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ct)
}

// ListContacts 联系表单列表
// @Summary 联系表单列表
// @Tags 联系
// @Produce json
// @Security BearerAuth
// @Param search query string false "姓名关键字"
// @Param page query int false "页码" default(1)
// @Param per_page query int false "每页数量" default(10)
// @Success 200 {object} response.ListResponse{rows=[]model.Contact}
// @Router /api/contacts [get]
func (h *Handler) ListContacts(c *gin.Context) {
	var q dto.ContactQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, err)
		return
	}
	page := pageOf(q.PageQuery)
	q.PageQuery = dto.PageQuery{Page: page.Page, PerPage: page.PerPage}
	rows, total, err := h.contacts.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, rows, response.NewPagination(total, page.Page, page.PerPage))
}

// GetContact 联系表单详情
// @Summary 联系表单详情
// @Tags 联系
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} response.Response{data=model.Contact}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/contacts/{id} [get]
func (h *Handler) GetContact(c *gin.Context) {
	ct, err := h.contacts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ct)
}

// DeleteContact 删除联系表单
// @Summary 删除联系表单
// @Tags 联系
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/contacts/{id} [delete]
func (h *Handler) DeleteContact(c *gin.Context) {
	if err := h.contacts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
