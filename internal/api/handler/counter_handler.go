package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/pkg/response"
)

// HitCounter 记录一次访问
// @Summary 记录访问
// @Tags 系统
// @Accept json
// @Produce json
// @Param request body dto.CounterRequest false "计数器名称，默认 visitor"
// @Success 200 {object} response.Response
// @Router /api/system/counter [post]
func (h *Handler) HitCounter(c *gin.Context) {
	var req dto.CounterRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err)
			return
		}
	}
	if err := h.counters.Hit(c.Request.Context(), req.Name); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CounterStats 访问统计
// @Summary 访问统计
// @Tags 系统
// @Produce json
// @Param name query string false "计数器名称" default(visitor)
// @Success 200 {object} response.Response{data=dto.CounterResponse}
// @Router /api/system/counter [get]
func (h *Handler) CounterStats(c *gin.Context) {
	stats, err := h.counters.Stats(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
