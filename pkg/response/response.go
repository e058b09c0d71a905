package response

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/pkg/apperr"
	"github.com/d60-Lab/shop-api/pkg/logger"
)

// Response 单资源响应
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Pagination 分页信息
type Pagination struct {
	TotalPage   int   `json:"total_page"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	Count       int64 `json:"count"`
}

// ListResponse 列表响应
type ListResponse struct {
	Code       int         `json:"code"`
	Message    string      `json:"message"`
	Rows       interface{} `json:"rows"`
	Pagination Pagination  `json:"pagination"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Status    int         `json:"status"`
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Option    interface{} `json:"option,omitempty"`
}

// FieldError 参数校验失败的字段
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// NewPagination 根据总数与分页参数计算分页信息
func NewPagination(total int64, page, perPage int) Pagination {
	totalPage := 0
	if perPage > 0 {
		totalPage = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Pagination{TotalPage: totalPage, PerPage: perPage, CurrentPage: page, Count: total}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: http.StatusCreated, Message: "created", Data: data})
}

func List(c *gin.Context, rows interface{}, p Pagination) {
	c.JSON(http.StatusOK, ListResponse{Code: http.StatusOK, Message: "success", Rows: rows, Pagination: p})
}

func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Status:    http.StatusBadRequest,
		ErrorCode: apperr.CodeValidationFailed,
		Message:   msg,
	})
}

// ValidationError 将 binding 错误转换为 VALIDATION_FAILED 响应
func ValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		BadRequest(c, err.Error())
		return
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Status:    http.StatusBadRequest,
		ErrorCode: apperr.CodeValidationFailed,
		Message:   apperr.Message(apperr.CodeValidationFailed),
		Option:    fields,
	})
}

func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("request_id")),
	)
	sentry.CaptureException(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Status:    http.StatusInternalServerError,
		ErrorCode: apperr.CodeInternal,
		Message:   apperr.Message(apperr.CodeInternal),
	})
}

// Error 统一错误出口：业务错误按自身状态码输出，其余按 500 处理
func Error(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		if e.Status >= http.StatusInternalServerError {
			InternalError(c, err)
			return
		}
		logger.Debug("request failed",
			zap.String("error_code", e.Code),
			zap.Int("status", e.Status),
			zap.String("path", c.FullPath()),
		)
		c.AbortWithStatusJSON(e.Status, ErrorResponse{
			Status:    e.Status,
			ErrorCode: e.Code,
			Message:   e.Message,
			Option:    e.Option,
		})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
			Status:    http.StatusNotFound,
			ErrorCode: apperr.CodeNotFound,
			Message:   apperr.Message(apperr.CodeNotFound),
		})
		return
	}
	InternalError(c, err)
}
