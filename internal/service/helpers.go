package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/pkg/apperr"
)

// notFoundOr 将 gorm.ErrRecordNotFound 转为带错误码的 404，其他错误原样返回
func notFoundOr(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(code)
	}
	return err
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
