package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/model"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	Save(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id string, scopes ...Scope) (*model.Customer, error)
	FindByEmailOrPhone(ctx context.Context, email, phone *string) (*model.Customer, error)
	Paginate(ctx context.Context, page Page, order string, scopes ...Scope) ([]model.Customer, int64, error)
	WithTx(tx *gorm.DB) CustomerRepository
}

type customerRepository struct {
	Repository[model.Customer]
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{Repository: New[model.Customer](db)}
}

func (r *customerRepository) WithTx(tx *gorm.DB) CustomerRepository {
	return &customerRepository{Repository: New[model.Customer](tx)}
}

// FindByEmailOrPhone 仅使用提供了的字段匹配，两者都为空时返回 gorm.ErrRecordNotFound
func (r *customerRepository) FindByEmailOrPhone(ctx context.Context, email, phone *string) (*model.Customer, error) {
	email, phone = nonEmpty(email), nonEmpty(phone)
	if email == nil && phone == nil {
		return nil, gorm.ErrRecordNotFound
	}
	q := r.DB(ctx).Model(&model.Customer{})
	switch {
	case email != nil && phone != nil:
		q = q.Where("(email = ? OR phone = ?)", *email, *phone)
	case email != nil:
		q = q.Where("email = ?", *email)
	default:
		q = q.Where("phone = ?", *phone)
	}
	var c model.Customer
	if err := q.Order("created_at ASC").Take(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
