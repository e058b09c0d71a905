package handler

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/shop-api/internal/api/middleware"
	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/internal/service"
)

// Handler 聚合所有 HTTP 处理器依赖的服务
type Handler struct {
	categories service.CategoryService
	products   service.ProductService
	posts      service.PostService
	contacts   service.ContactService
	orders     service.OrderService
	counters   service.CounterService
	auth       service.AuthService
}

type Services struct {
	Categories service.CategoryService
	Products   service.ProductService
	Posts      service.PostService
	Contacts   service.ContactService
	Orders     service.OrderService
	Counters   service.CounterService
	Auth       service.AuthService
}

func New(s Services) *Handler {
	RegisterValidators()
	return &Handler{
		categories: s.Categories,
		products:   s.Products,
		posts:      s.Posts,
		contacts:   s.Contacts,
		orders:     s.Orders,
		counters:   s.Counters,
		auth:       s.Auth,
	}
}

var registerOnce sync.Once

// RegisterValidators 注册自定义校验规则
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			return model.OrderStatus(fl.Field().String()).Valid()
		})
	})
}

func pageOf(q dto.PageQuery) repository.Page {
	return repository.Page{Page: q.Page, PerPage: q.PerPage}.Normalize()
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(middleware.CtxUserRole) == model.RoleAdmin
}
