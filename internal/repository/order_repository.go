package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/shop-api/internal/model"
)

// OrderFilter 订单列表过滤条件
type OrderFilter struct {
	Status     model.OrderStatus
	CustomerID string
	Email      string
	Phone      string
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Create 写入订单主记录（不级联明细）
	Create(ctx context.Context, order *model.Order) error

	// CreateItems 批量写入订单明细
	CreateItems(ctx context.Context, items []model.OrderItem) error

	// GetByID 查询订单并预加载客户与明细
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// GetByOrderCode 根据订单号查询
	GetByOrderCode(ctx context.Context, code string) (*model.Order, error)

	// List 分页查询订单列表
	List(ctx context.Context, f OrderFilter, page Page) ([]model.Order, int64, error)

	// UpdateStatus 更新订单状态
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error

	// Count 统计订单数量
	Count(ctx context.Context) (int64, error)

	WithTx(tx *gorm.DB) OrderRepository
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository { return &orderRepository{db: tx} }

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *orderRepository) CreateItems(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return r.getOne(ctx, "orders.id = ?", id)
}

func (r *orderRepository) GetByOrderCode(ctx context.Context, code string) (*model.Order, error) {
	return r.getOne(ctx, "orders.order_code = ?", code)
}

func (r *orderRepository) getOne(ctx context.Context, query string, arg any) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.created_at ASC, order_items.id ASC") }).
		Where(query, arg).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, f OrderFilter, page Page) ([]model.Order, int64, error) {
	page = page.Normalize()
	filter := func(q *gorm.DB) *gorm.DB {
		if f.Status != "" {
			q = q.Where("orders.status = ?", f.Status)
		}
		if f.CustomerID != "" {
			q = q.Where("orders.customer_id = ?", f.CustomerID)
		}
		if f.Email != "" || f.Phone != "" {
			q = q.Joins("JOIN customers ON customers.id = orders.customer_id")
			switch {
			case f.Email != "" && f.Phone != "":
				q = q.Where("(customers.email = ? OR customers.phone = ?)", f.Email, f.Phone)
			case f.Email != "":
				q = q.Where("customers.email = ?", f.Email)
			default:
				q = q.Where("customers.phone = ?", f.Phone)
			}
		}
		return q
	}

	var total int64
	if err := filter(r.db.WithContext(ctx).Model(&model.Order{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	orders := []model.Order{}
	if total == 0 {
		return orders, 0, nil
	}
	err := filter(r.db.WithContext(ctx).Model(&model.Order{})).
		Preload("Customer").
		Order("orders.created_at DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}
