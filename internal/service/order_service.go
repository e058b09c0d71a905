package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/apperr"
	"github.com/d60-Lab/shop-api/pkg/database"
	"github.com/d60-Lab/shop-api/pkg/logger"
)

const maxOrderCodeAttempts = 3

var errOrderCodeTaken = errors.New("order code already taken")

// OrderService 订单服务
type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, q dto.OrderQuery) ([]model.Order, int64, error)
	Search(ctx context.Context, q dto.OrderSearchQuery) ([]model.Order, int64, error)
}

type orderService struct {
	db        *gorm.DB
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	outbox    repository.OutboxRepository
	newCode   func() string
}

func NewOrderService(
	db *gorm.DB,
	orders repository.OrderRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	outbox repository.OutboxRepository,
) OrderService {
	return &orderService{
		db:        db,
		orders:    orders,
		customers: customers,
		products:  products,
		outbox:    outbox,
		newCode:   NewOrderCode,
	}
}

// Create 在单个事务内完成：客户识别/更新、商品快照计价、订单与明细写入、outbox 事件。
// 任一步失败整体回滚。订单号唯一索引冲突时重新生成订单号重试。
func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperr.BadRequest(apperr.CodeOrderItemsEmpty, nil)
	}
	for attempt := 1; ; attempt++ {
		order, err := s.createOnce(ctx, req)
		if err == nil {
			logger.Info("order created",
				zap.String("order_id", order.ID),
				zap.String("order_code", order.OrderCode),
				zap.String("customer_id", order.CustomerID),
				zap.String("total_amount", order.TotalAmount.String()),
			)
			return order, nil
		}
		if errors.Is(err, errOrderCodeTaken) && attempt < maxOrderCodeAttempts {
			logger.Warn("order code collision, retrying", zap.Int("attempt", attempt))
			continue
		}
		return nil, err
	}
}

func (s *orderService) createOnce(ctx context.Context, req dto.CreateOrderRequest) (*model.Order, error) {
	var created *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.resolveCustomer(ctx, s.customers.WithTx(tx), req.Customer)
		if err != nil {
			return err
		}

		lines, err := s.priceItems(ctx, tx, req.Items)
		if err != nil {
			return err
		}
		if currencies := distinctCurrencies(lines); len(currencies) > 1 {
			return apperr.BadRequest(apperr.CodeOrderCurrencyMismatch, map[string]any{"currencies": currencies})
		}

		currency := model.DefaultCurrency
		if len(lines) > 0 {
			currency = lines[0].product.Currency
		}
		totals := sumLines(lines)
		paymentMethod := req.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = model.DefaultPaymentMethod
		}
		order := &model.Order{
			OrderCode:      s.newCode(),
			CustomerID:     customer.ID,
			Status:         model.OrderStatusPending,
			PaymentMethod:  paymentMethod,
			Currency:       currency,
			TotalItems:     totals.totalItems,
			SubtotalAmount: model.NewMoney(totals.subtotal),
			DiscountAmount: model.NewMoney(totals.discount),
			TotalAmount:    model.NewMoney(totals.total),
		}

		orders := s.orders.WithTx(tx)
		if err := orders.Create(ctx, order); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", errOrderCodeTaken, order.OrderCode)
			}
			return fmt.Errorf("create order: %w", err)
		}
		if err := orders.CreateItems(ctx, buildItems(order.ID, lines)); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}
		if err := s.addEvent(ctx, tx, model.EventOrderCreated, order.ID, orderCreatedEvent(order, lines)); err != nil {
			return err
		}

		created, err = orders.GetByID(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("reload order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// resolveCustomer 按 email 或 phone 匹配回头客并覆盖可变字段，否则新建
func (s *orderService) resolveCustomer(ctx context.Context, customers repository.CustomerRepository, in dto.OrderCustomer) (*model.Customer, error) {
	// 空串不作为识别键，也不覆盖已有值
	email, phone := nilIfEmpty(in.Email), nilIfEmpty(in.Phone)
	existing, err := customers.FindByEmailOrPhone(ctx, email, phone)
	switch {
	case err == nil:
		existing.FullName = in.FullName
		if email != nil {
			existing.Email = email
		}
		if phone != nil {
			existing.Phone = phone
		}
		if in.Address != nil {
			existing.Address = in.Address
		}
		if in.Note != nil {
			existing.Note = in.Note
		}
		if err := customers.Save(ctx, existing); err != nil {
			return nil, fmt.Errorf("update customer: %w", err)
		}
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		c := &model.Customer{
			FullName: in.FullName,
			Email:    email,
			Phone:    phone,
			Address:  in.Address,
			Note:     in.Note,
		}
		if err := customers.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("create customer: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("find customer: %w", err)
	}
}

// priceItems 一次批量读取商品（支持时加行锁）并逐条计价
func (s *orderService) priceItems(ctx context.Context, tx *gorm.DB, items []dto.OrderItemRequest) ([]orderLine, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	products, err := s.products.WithTx(tx).FindByIDs(ctx, ids, database.SupportsRowLocking(tx))
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]orderLine, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, apperr.BadRequest(apperr.CodeOrderProductNotFound, map[string]string{"product_id": it.ProductID})
		}
		qty := 1
		if it.Quantity != nil && *it.Quantity > 0 {
			qty = *it.Quantity
		}
		line := priceLine(p, qty)
		line.selectedSize = it.SelectedSize
		line.selectedColor = it.SelectedColor
		lines = append(lines, line)
	}
	return lines, nil
}

func buildItems(orderID string, lines []orderLine) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		sizes := make([]string, len(l.product.Sizes))
		copy(sizes, l.product.Sizes)
		items = append(items, model.OrderItem{
			OrderID:             orderID,
			ProductID:           l.product.ID,
			ProductCode:         l.product.Code,
			ProductName:         l.product.Name,
			ProductSizes:        sizes,
			UnitPrice:           model.NewMoney(l.unitPrice),
			UnitDiscountValue:   model.NewMoney(l.unitDiscount),
			UnitDiscountedPrice: model.NewMoney(l.effective),
			SelectedSize:        l.selectedSize,
			SelectedColor:       l.selectedColor,
			Quantity:            l.quantity,
		})
	}
	return items
}

// UpdateStatus 不限制状态流转方向，仅校验取值
func (s *orderService) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, apperr.BadRequest(apperr.CodeOrderStatusInvalid, map[string]string{"status": string(status)})
	}
	var updated *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		current, err := orders.GetByID(ctx, id)
		if err != nil {
			return notFoundOr(err, apperr.CodeOrderNotFound)
		}
		if err := orders.UpdateStatus(ctx, id, status); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		ev := statusChangedEvent{
			OrderID:   current.ID,
			OrderCode: current.OrderCode,
			From:      current.Status,
			To:        status,
		}
		if err := s.addEvent(ctx, tx, model.EventOrderStatusChanged, current.ID, ev); err != nil {
			return err
		}
		updated, err = orders.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("order status updated", zap.String("order_id", id), zap.String("status", string(status)))
	return updated, nil
}

func (s *orderService) Get(ctx context.Context, id string) (*model.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.CodeOrderNotFound)
	}
	return o, nil
}

func (s *orderService) List(ctx context.Context, q dto.OrderQuery) ([]model.Order, int64, error) {
	f := repository.OrderFilter{Status: model.OrderStatus(q.Status)}
	return s.orders.List(ctx, f, repository.Page{Page: q.Page, PerPage: q.PerPage})
}

// Search 按客户邮箱或电话查询订单，至少提供其一
func (s *orderService) Search(ctx context.Context, q dto.OrderSearchQuery) ([]model.Order, int64, error) {
	if q.Email == "" && q.Phone == "" {
		return nil, 0, apperr.BadRequest(apperr.CodeValidationFailed, map[string]string{"field": "email|phone"})
	}
	f := repository.OrderFilter{Email: q.Email, Phone: q.Phone}
	return s.orders.List(ctx, f, repository.Page{Page: q.Page, PerPage: q.PerPage})
}

func (s *orderService) addEvent(ctx context.Context, tx *gorm.DB, eventType, aggregateID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	ev := &model.Outbox{AggregateID: aggregateID, EventType: eventType, Payload: string(body)}
	if err := s.outbox.WithTx(tx).Add(ctx, ev); err != nil {
		return fmt.Errorf("write outbox: %w", err)
	}
	return nil
}

type orderCreatedItem struct {
	ProductID           string      `json:"product_id"`
	Quantity            int         `json:"quantity"`
	UnitDiscountedPrice model.Money `json:"unit_discounted_price"`
}

type orderCreatedPayload struct {
	OrderID     string             `json:"order_id"`
	OrderCode   string             `json:"order_code"`
	CustomerID  string             `json:"customer_id"`
	Status      model.OrderStatus  `json:"status"`
	Currency    string             `json:"currency"`
	TotalItems  int                `json:"total_items"`
	TotalAmount model.Money        `json:"total_amount"`
	Items       []orderCreatedItem `json:"items"`
}

func orderCreatedEvent(o *model.Order, lines []orderLine) orderCreatedPayload {
	items := make([]orderCreatedItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, orderCreatedItem{
			ProductID:           l.product.ID,
			Quantity:            l.quantity,
			UnitDiscountedPrice: model.NewMoney(l.effective),
		})
	}
	return orderCreatedPayload{
		OrderID:     o.ID,
		OrderCode:   o.OrderCode,
		CustomerID:  o.CustomerID,
		Status:      o.Status,
		Currency:    o.Currency,
		TotalItems:  o.TotalItems,
		TotalAmount: o.TotalAmount,
		Items:       items,
	}
}

type statusChangedEvent struct {
	OrderID   string            `json:"order_id"`
	OrderCode string            `json:"order_code"`
	From      model.OrderStatus `json:"from"`
	To        model.OrderStatus `json:"to"`
}
