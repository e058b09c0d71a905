package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// 机器可读错误码
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserEmailExists    = "USER_EMAIL_EXISTS"
	CodeResetCodeInvalid   = "RESET_CODE_INVALID"

	CodeCategoryNotFound       = "CATEGORY_NOT_FOUND"
	CodeCategoryParentInvalid  = "CATEGORY_PARENT_INVALID"
	CodeParentCategoryNotFound = "PARENT_CATEGORY_NOT_FOUND"

	CodeProductNotFound         = "PRODUCT_NOT_FOUND"
	CodeProductCodeExists       = "PRODUCT_CODE_EXISTS"
	CodeProductCategoryNotFound = "PRODUCT_CATEGORY_NOT_FOUND"

	CodePostNotFound    = "POST_NOT_FOUND"
	CodeContactNotFound = "CONTACT_NOT_FOUND"

	CodeOrderNotFound         = "ORDER_NOT_FOUND"
	CodeOrderItemsEmpty       = "ORDER_ITEMS_EMPTY"
	CodeOrderProductNotFound  = "ORDER_PRODUCT_NOT_FOUND"
	CodeOrderCurrencyMismatch = "ORDER_CURRENCY_MISMATCH"
	CodeOrderStatusInvalid    = "ORDER_STATUS_INVALID"
)

var messages = map[string]string{
	CodeValidationFailed:        "Request data is invalid",
	CodeInternal:                "Internal server error",
	CodeNotFound:                "Resource not found",
	CodeUnauthorized:            "Authentication required",
	CodeForbidden:               "Permission denied",
	CodeTooManyRequests:         "Too many requests, please slow down",
	CodeInvalidCredentials:      "Email or password is incorrect",
	CodeUserEmailExists:         "Email is already registered",
	CodeResetCodeInvalid:        "Reset code is invalid or expired",
	CodeCategoryNotFound:        "Category not found",
	CodeCategoryParentInvalid:   "A category cannot be its own parent or descendant",
	CodeParentCategoryNotFound:  "Parent category not found",
	CodeProductNotFound:         "Product not found",
	CodeProductCodeExists:       "Product code already exists",
	CodeProductCategoryNotFound: "Product category not found",
	CodePostNotFound:            "Post not found",
	CodeContactNotFound:         "Contact not found",
	CodeOrderNotFound:           "Order not found",
	CodeOrderItemsEmpty:         "Order must contain at least one item",
	CodeOrderProductNotFound:    "Product in order does not exist",
	CodeOrderCurrencyMismatch:   "Order items must share the same currency",
	CodeOrderStatusInvalid:      "Order status is invalid",
}

// Message 返回错误码对应的提示语，未登记的错误码原样返回
func Message(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}

// Error 携带 HTTP 状态码与机器可读错误码的业务错误
type Error struct {
	Status  int
	Code    string
	Message string
	Option  any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// Is 按错误码比较，便于 errors.Is(err, apperr.NotFound(code))
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Status == e.Status
}

func New(status int, code string, option any) *Error {
	return &Error{Status: status, Code: code, Message: Message(code), Option: option}
}

func NotFound(code string) *Error { return New(http.StatusNotFound, code, nil) }

func BadRequest(code string, option any) *Error { return New(http.StatusBadRequest, code, option) }

func Conflict(code string, option any) *Error { return New(http.StatusConflict, code, option) }

func Unauthorized(code string) *Error { return New(http.StatusUnauthorized, code, nil) }

func Forbidden(code string) *Error { return New(http.StatusForbidden, code, nil) }

// As 取出 *Error
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HasCode 判断 err 链上是否存在指定错误码
func HasCode(err error, code string) bool {
	e, ok := As(err)
	return ok && e.Code == code
}
