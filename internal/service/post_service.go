package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/apperr"
)

// PostService 文章服务
type PostService interface {
	List(ctx context.Context, q dto.PostQuery, activeOnly bool) ([]model.Post, int64, error)
	Get(ctx context.Context, id string) (*model.Post, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	Create(ctx context.Context, authorID string, req dto.CreatePostRequest) (*model.Post, error)
	Update(ctx context.Context, id string, req dto.UpdatePostRequest) (*model.Post, error)
	Delete(ctx context.Context, id string) error
}

type postService struct {
	repo  repository.PostRepository
	slugs SlugResolver
}

func NewPostService(repo repository.PostRepository) PostService {
	return &postService{repo: repo, slugs: NewSlugResolver(repo)}
}

func (s *postService) List(ctx context.Context, q dto.PostQuery, activeOnly bool) ([]model.Post, int64, error) {
	return s.repo.List(ctx, q.Search, activeOnly, repository.Page{Page: q.Page, PerPage: q.PerPage})
}

func (s *postService) Get(ctx context.Context, id string) (*model.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.CodePostNotFound)
	}
	return p, nil
}

func (s *postService) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	p, err := s.repo.FindBySlug(ctx, slug, repository.Active())
	if err != nil {
		return nil, notFoundOr(err, apperr.CodePostNotFound)
	}
	return p, nil
}

func (s *postService) Create(ctx context.Context, authorID string, req dto.CreatePostRequest) (*model.Post, error) {
	slugValue, err := s.slugs.Resolve(ctx, req.Title, req.Slug, "")
	if err != nil {
		return nil, err
	}
	p := &model.Post{
		Title:     req.Title,
		Slug:      slugValue,
		Summary:   req.Summary,
		Content:   req.Content,
		Thumbnail: req.Thumbnail,
		IsActive:  boolOr(req.IsActive, true),
	}
	if authorID != "" {
		p.AuthorID = &authorID
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

func (s *postService) Update(ctx context.Context, id string, req dto.UpdatePostRequest) (*model.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.CodePostNotFound)
	}
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Title != nil || req.Slug != nil {
		slugValue, err := s.slugs.Resolve(ctx, p.Title, derefString(req.Slug), p.ID)
		if err != nil {
			return nil, err
		}
		if slugValue != "" {
			p.Slug = slugValue
		}
	}
	if req.Summary != nil {
		p.Summary = *req.Summary
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.Thumbnail != nil {
		p.Thumbnail = *req.Thumbnail
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, apperr.CodePostNotFound)
	}
	return nil
}
