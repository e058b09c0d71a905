package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/apperr"
	"github.com/d60-Lab/shop-api/pkg/logger"
)

type ContactService interface {
	Create(ctx context.Context, req dto.CreateContactRequest) (*model.Contact, error)
	List(ctx context.Context, q dto.ContactQuery) ([]model.Contact, int64, error)
	Get(ctx context.Context, id string) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

type contactService struct {
	repo repository.ContactRepository
}

func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo}
}

func (s *contactService) Create(ctx context.Context, req dto.CreateContactRequest) (*model.Contact, error) {
	c := &model.Contact{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    nilIfEmpty(req.Phone),
		Subject:  req.Subject,
		Message:  req.Message,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	logger.Info("contact received", zap.String("id", c.ID), zap.String("email", c.Email))
	return c, nil
}

func (s *contactService) List(ctx context.Context, q dto.ContactQuery) ([]model.Contact, int64, error) {
	return s.repo.List(ctx, q.Search, repository.Page{Page: q.Page, PerPage: q.PerPage})
}

func (s *contactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.CodeContactNotFound)
	}
	return c, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, apperr.CodeContactNotFound)
	}
	return nil
}
