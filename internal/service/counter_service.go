package service

import (
	"context"
	"fmt"
	"time"

	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
)

// CounterService 访客统计
type CounterService interface {
	Hit(ctx context.Context, name string) error
	Stats(ctx context.Context, name string) (*dto.CounterResponse, error)
}

type counterService struct {
	repo     repository.CounterRepository
	recorder *CounterRecorder
	now      func() time.Time
}

// NewCounterService recorder 为 nil 时同步落库
func NewCounterService(repo repository.CounterRepository, recorder *CounterRecorder) CounterService {
	return &counterService{repo: repo, recorder: recorder, now: time.Now}
}

func (s *counterService) Hit(ctx context.Context, name string) error {
	if name == "" {
		name = model.DefaultCounterName
	}
	day := s.today()
	if s.recorder != nil && s.recorder.Enqueue(name, day) {
		return nil
	}
	if err := s.repo.Increment(ctx, name, day, 1); err != nil {
		return fmt.Errorf("increment counter: %w", err)
	}
	return nil
}

func (s *counterService) Stats(ctx context.Context, name string) (*dto.CounterResponse, error) {
	if name == "" {
		name = model.DefaultCounterName
	}
	day := s.today()
	today, err := s.repo.Get(ctx, name, day)
	if err != nil {
		return nil, fmt.Errorf("load today counter: %w", err)
	}
	total, err := s.repo.Total(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load total counter: %w", err)
	}
	return &dto.CounterResponse{Name: name, Day: day, Today: today, Total: total}, nil
}

func (s *counterService) today() string { return s.now().UTC().Format("2006-01-02") }
