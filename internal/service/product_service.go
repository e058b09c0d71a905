package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/d60-Lab/shop-api/internal/cache"
	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/apperr"
	"github.com/d60-Lab/shop-api/pkg/logger"
)

// ProductService 商品服务
type ProductService interface {
	List(ctx context.Context, q dto.ProductQuery, activeOnly bool) ([]model.Product, int64, error)
	ListByCategory(ctx context.Context, categoryID string, page repository.Page) ([]model.Product, int64, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	cache      cache.ProductCache
	slugs      SlugResolver
}

func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository, pc cache.ProductCache) ProductService {
	if pc == nil {
		pc = cache.NopProductCache{}
	}
	return &productService{repo: repo, categories: categories, cache: pc, slugs: NewSlugResolver(repo)}
}

func (s *productService) List(ctx context.Context, q dto.ProductQuery, activeOnly bool) ([]model.Product, int64, error) {
	f := repository.ProductFilter{CategoryID: q.CategoryID, IsActive: q.IsActive, Search: q.Search}
	if activeOnly {
		active := true
		f.IsActive = &active
	}
	return s.repo.List(ctx, f, repository.Page{Page: q.Page, PerPage: q.PerPage})
}

func (s *productService) ListByCategory(ctx context.Context, categoryID string, page repository.Page) ([]model.Product, int64, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, 0, notFoundOr(err, apperr.CodeCategoryNotFound)
	}
	active := true
	return s.repo.List(ctx, repository.ProductFilter{CategoryID: categoryID, IsActive: &active}, page)
}

func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.CodeProductNotFound)
	}
	return p, nil
}

// GetBySlug 只返回上架商品，优先读缓存
func (s *productService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	if p, err := s.cache.Get(ctx, slug); err == nil {
		return p, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn("product cache get failed", zap.String("slug", slug), zap.Error(err))
	}

	p, err := s.repo.FindBySlug(ctx, slug, repository.Active())
	if err != nil {
		return nil, notFoundOr(err, apperr.CodeProductNotFound)
	}
	if err := s.cache.Set(ctx, p); err != nil {
		logger.Warn("product cache set failed", zap.String("slug", slug), zap.Error(err))
	}
	return p, nil
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error) {
	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, req.Code, ""); err != nil {
		return nil, err
	}
	slugValue, err := s.slugs.Resolve(ctx, req.Name, req.Slug, "")
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		CategoryID:   nilIfEmpty(req.CategoryID),
		Name:         req.Name,
		Code:         req.Code,
		Slug:         slugValue,
		Description:  req.Description,
		Thumbnail:    req.Thumbnail,
		RegularPrice: model.NewMoney(*req.RegularPrice),
		SalePrice:    model.NewMoney(decimal.Zero),
		Currency:     normalizeCurrency(req.Currency),
		Sizes:        nonNil(req.Sizes),
		Colors:       nonNil(req.Colors),
		Status:       nonNil(req.Status),
		IsActive:     boolOr(req.IsActive, true),
	}
	if req.SalePrice != nil {
		p.SalePrice = model.NewMoney(*req.SalePrice)
	}
	if err := validatePrices(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	logger.Info("product created", zap.String("id", p.ID), zap.String("code", p.Code), zap.String("slug", p.Slug))
	return p, nil
}

func (s *productService) Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.CodeProductNotFound)
	}
	oldSlug := p.Slug

	if req.CategoryID.Set {
		if err := s.ensureCategory(ctx, req.CategoryID.Value); err != nil {
			return nil, err
		}
		p.CategoryID = nilIfEmpty(req.CategoryID.Value)
	}
	if req.Code != nil && *req.Code != p.Code {
		if err := s.ensureCodeFree(ctx, *req.Code, p.ID); err != nil {
			return nil, err
		}
		p.Code = *req.Code
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Name != nil || req.Slug != nil {
		slugValue, err := s.slugs.Resolve(ctx, p.Name, derefString(req.Slug), p.ID)
		if err != nil {
			return nil, err
		}
		if slugValue != "" {
			p.Slug = slugValue
		}
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Thumbnail != nil {
		p.Thumbnail = *req.Thumbnail
	}
	if req.RegularPrice != nil {
		p.RegularPrice = model.NewMoney(*req.RegularPrice)
	}
	if req.SalePrice != nil {
		p.SalePrice = model.NewMoney(*req.SalePrice)
	}
	if req.Currency != nil {
		p.Currency = normalizeCurrency(*req.Currency)
	}
	if req.Sizes != nil {
		p.Sizes = req.Sizes
	}
	if req.Colors != nil {
		p.Colors = req.Colors
	}
	if req.Status != nil {
		p.Status = req.Status
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := validatePrices(p); err != nil {
		return nil, err
	}

	p.Category = nil
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx, oldSlug, p.Slug)
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, apperr.CodeProductNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, apperr.CodeProductNotFound)
	}
	s.invalidate(ctx, p.Slug)
	return nil
}

func (s *productService) invalidate(ctx context.Context, slugs ...string) {
	if err := s.cache.Delete(ctx, slugs...); err != nil {
		logger.Warn("product cache invalidate failed", zap.Strings("slugs", slugs), zap.Error(err))
	}
}

func (s *productService) ensureCategory(ctx context.Context, categoryID *string) error {
	if categoryID == nil || *categoryID == "" {
		return nil
	}
	if _, err := s.categories.FindByID(ctx, *categoryID); err != nil {
		return notFoundOr(err, apperr.CodeProductCategoryNotFound)
	}
	return nil
}

func (s *productService) ensureCodeFree(ctx context.Context, code, excludeID string) error {
	exists, err := s.repo.CodeExists(ctx, code, excludeID)
	if err != nil {
		return fmt.Errorf("check product code: %w", err)
	}
	if exists {
		return apperr.Conflict(apperr.CodeProductCodeExists, map[string]string{"code": code})
	}
	return nil
}

func validatePrices(p *model.Product) error {
	if p.RegularPrice.IsNegative() {
		return apperr.BadRequest(apperr.CodeValidationFailed, map[string]string{"field": "regular_price"})
	}
	if p.SalePrice.IsNegative() {
		return apperr.BadRequest(apperr.CodeValidationFailed, map[string]string{"field": "sale_price"})
	}
	return nil
}

func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return model.DefaultCurrency
	}
	return c
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
