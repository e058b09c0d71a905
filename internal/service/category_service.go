package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/apperr"
	"github.com/d60-Lab/shop-api/pkg/logger"
)

// CategoryService 分类服务
type CategoryService interface {
	List(ctx context.Context, q dto.CategoryQuery, activeOnly bool) ([]model.Category, int64, error)
	Get(ctx context.Context, id string) (*model.Category, error)
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*model.Category, error)
	Update(ctx context.Context, id string, req dto.UpdateCategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	slugs SlugResolver
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo, slugs: NewSlugResolver(repo)}
}

func (s *categoryService) List(ctx context.Context, q dto.CategoryQuery, activeOnly bool) ([]model.Category, int64, error) {
	f := repository.CategoryFilter{ParentID: q.ParentID, IsPopular: q.IsPopular, Search: q.Search}
	if f.ParentID != nil && *f.ParentID == "root" {
		root := ""
		f.ParentID = &root
	}
	if activeOnly {
		active := true
		f.IsActive = &active
	}
	return s.repo.List(ctx, f, repository.Page{Page: q.Page, PerPage: q.PerPage})
}

func (s *categoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.CodeCategoryNotFound)
	}
	return c, nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*model.Category, error) {
	parentID, _, err := s.validateParent(ctx, req.ParentID, "")
	if err != nil {
		return nil, err
	}
	slugValue, err := s.slugs.Resolve(ctx, req.Name, req.Slug, "")
	if err != nil {
		return nil, err
	}

	c := &model.Category{
		Name:        req.Name,
		Slug:        slugValue,
		Description: req.Description,
		Image:       req.Image,
		ParentID:    parentID,
		IsActive:    boolOr(req.IsActive, true),
		IsPopular:   boolOr(req.IsPopular, false),
	}
	if req.Priority != nil {
		c.Priority = *req.Priority
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	logger.Info("category created", zap.String("id", c.ID), zap.String("slug", c.Slug))
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id string, req dto.UpdateCategoryRequest) (*model.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.CodeCategoryNotFound)
	}

	parentID, parentSet, err := s.validateParent(ctx, req.ParentID, c.ID)
	if err != nil {
		return nil, err
	}
	if parentSet {
		c.ParentID = parentID
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Name != nil || req.Slug != nil {
		slugValue, err := s.slugs.Resolve(ctx, c.Name, derefString(req.Slug), c.ID)
		if err != nil {
			return nil, err
		}
		if slugValue != "" {
			c.Slug = slugValue
		}
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Image != nil {
		c.Image = *req.Image
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.IsPopular != nil {
		c.IsPopular = *req.IsPopular
	}
	if req.Priority != nil {
		c.Priority = *req.Priority
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, apperr.CodeCategoryNotFound)
	}
	return nil
}

// validateParent 解析 parent_id：
// 未出现 => (nil, false)；null 或空串 => (nil, true)；
// 等于自身或为自身后代 => CATEGORY_PARENT_INVALID；不存在 => PARENT_CATEGORY_NOT_FOUND。
func (s *categoryService) validateParent(ctx context.Context, parent dto.Optional[string], selfID string) (*string, bool, error) {
	if !parent.Set {
		return nil, false, nil
	}
	if parent.Value == nil || *parent.Value == "" {
		return nil, true, nil
	}
	parentID := *parent.Value
	if selfID != "" && parentID == selfID {
		return nil, false, apperr.BadRequest(apperr.CodeCategoryParentInvalid, map[string]string{"parent_id": parentID})
	}
	if _, err := s.repo.FindByID(ctx, parentID); err != nil {
		return nil, false, notFoundOr(err, apperr.CodeParentCategoryNotFound)
	}
	if selfID != "" {
		if err := s.ensureNotDescendant(ctx, parentID, selfID); err != nil {
			return nil, false, err
		}
	}
	return &parentID, true, nil
}

// ensureNotDescendant 沿 parentID 的祖先链向上，遇到 selfID 即说明会形成环
func (s *categoryService) ensureNotDescendant(ctx context.Context, parentID, selfID string) error {
	visited := map[string]struct{}{}
	cur := &parentID
	for cur != nil {
		if *cur == selfID {
			return apperr.BadRequest(apperr.CodeCategoryParentInvalid, map[string]string{"parent_id": parentID})
		}
		if _, seen := visited[*cur]; seen {
			// 历史数据已存在环，停止遍历
			return nil
		}
		visited[*cur] = struct{}{}
		next, err := s.repo.ParentIDOf(ctx, *cur)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("load category ancestor: %w", err)
		}
		cur = next
	}
	return nil
}
