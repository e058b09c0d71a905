package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/shop-api/config"
	_ "github.com/d60-Lab/shop-api/docs"
	"github.com/d60-Lab/shop-api/internal/api/handler"
	"github.com/d60-Lab/shop-api/internal/api/middleware"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/pkg/response"
	"github.com/d60-Lab/shop-api/pkg/token"
)

// NewRouter 构建 gin 引擎并注册所有路由
func NewRouter(cfg *config.Config, h *handler.Handler, tm *token.Manager) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(), middleware.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware())
	}

	r.GET("/health", func(c *gin.Context) { response.Success(c, gin.H{"status": "ok"}) })
	if cfg.Server.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authed := middleware.Auth(tm)
	requireAdmin := middleware.RequireRole(model.RoleAdmin)
	admin := func(next gin.HandlerFunc) []gin.HandlerFunc {
		return []gin.HandlerFunc{authed, requireAdmin, next}
	}

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(tm))

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
		auth.GET("/me", authed, h.Me)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategory)
		categories.POST("", admin(h.CreateCategory)...)
		categories.PUT("/:id", admin(h.UpdateCategory)...)
		categories.DELETE("/:id", admin(h.DeleteCategory)...)
	}

	products := api.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/slug/:slug", h.GetProductBySlug)
		products.GET("/category/:categoryId", h.ListProductsByCategory)
		products.GET("/:id", h.GetProduct)
		products.POST("", admin(h.CreateProduct)...)
		products.PUT("/:id", admin(h.UpdateProduct)...)
		products.DELETE("/:id", admin(h.DeleteProduct)...)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", h.ListPosts)
		posts.GET("/slug/:slug", h.GetPostBySlug)
		posts.GET("/:id", h.GetPost)
		posts.POST("", admin(h.CreatePost)...)
		posts.PUT("/:id", admin(h.UpdatePost)...)
		posts.DELETE("/:id", admin(h.DeletePost)...)
	}

	contacts := api.Group("/contacts")
	{
		contacts.POST("", h.CreateContact)
		contacts.GET("", admin(h.ListContacts)...)
		contacts.GET("/:id", admin(h.GetContact)...)
		contacts.DELETE("/:id", admin(h.DeleteContact)...)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", authed, h.CreateOrder)
		orders.GET("", admin(h.ListOrders)...)
		orders.GET("/search", admin(h.SearchOrders)...)
		orders.GET("/:id", admin(h.GetOrder)...)
		orders.PATCH("/:id/status", admin(h.UpdateOrderStatus)...)
	}

	system := api.Group("/system")
	{
		system.POST("/counter", h.HitCounter)
		system.GET("/counter", h.CounterStats)
	}
	return r
}
