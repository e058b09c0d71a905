package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shop-api/pkg/apperr"
	"github.com/d60-Lab/shop-api/pkg/response"
	"github.com/d60-Lab/shop-api/pkg/token"
)

const (
	CtxUserID    = "user_id"
	CtxUserEmail = "user_email"
	CtxUserRole  = "user_role"
)

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func setClaims(c *gin.Context, claims *token.Claims) {
	c.Set(CtxUserID, claims.Subject)
	c.Set(CtxUserEmail, claims.Email)
	c.Set(CtxUserRole, claims.Role)
}

// Auth 要求有效的 Bearer token
func Auth(tm *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c)
		if raw == "" {
			response.Error(c, apperr.Unauthorized(apperr.CodeUnauthorized))
			return
		}
		claims, err := tm.Parse(raw)
		if err != nil {
			response.Error(c, apperr.Unauthorized(apperr.CodeUnauthorized))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth 有 token 时解析，无效 token 视为匿名
func OptionalAuth(tm *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearer(c); raw != "" {
			if claims, err := tm.Parse(raw); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole 必须在 Auth 之后使用
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRole) != role {
			response.Error(c, apperr.Forbidden(apperr.CodeForbidden))
			return
		}
		c.Next()
	}
}
