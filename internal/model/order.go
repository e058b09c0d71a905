package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
)

// OrderStatuses 全部合法状态
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusCompleted,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string { return string(s) }

const DefaultPaymentMethod = "COD"

// Order 订单
type Order struct {
	ID             string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderCode      string      `json:"order_code" gorm:"type:varchar(32);uniqueIndex:ux_order_code;not null"`
	CustomerID     string      `json:"customer_id" gorm:"type:varchar(36);index:idx_order_customer;not null"`
	Customer       *Customer   `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Status         OrderStatus `json:"status" gorm:"type:varchar(16);index;not null"`
	PaymentMethod  string      `json:"payment_method" gorm:"type:varchar(32);not null"`
	Currency       string      `json:"currency" gorm:"type:varchar(8);not null"`
	TotalItems     int         `json:"total_items" gorm:"not null"`
	SubtotalAmount Money       `json:"subtotal_amount" gorm:"type:decimal(15,2);not null"`
	DiscountAmount Money       `json:"discount_amount" gorm:"type:decimal(15,2);not null"`
	TotalAmount    Money       `json:"total_amount" gorm:"type:decimal(15,2);not null"`
	Items          []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// OrderItem 订单明细，商品字段为下单时快照，创建后不再随商品变化
type OrderItem struct {
	ID                  string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID             string                      `json:"order_id" gorm:"type:varchar(36);index:idx_order_item_order;not null"`
	ProductID           string                      `json:"product_id" gorm:"type:varchar(36);index:idx_order_item_product;not null"`
	ProductCode         string                      `json:"product_code" gorm:"type:varchar(64);not null"`
	ProductName         string                      `json:"product_name" gorm:"type:varchar(255);not null"`
	ProductSizes        datatypes.JSONSlice[string] `json:"product_sizes"`
	UnitPrice           Money                       `json:"unit_price" gorm:"type:decimal(15,2);not null"`
	UnitDiscountValue   Money                       `json:"unit_discount_value" gorm:"type:decimal(15,2);not null"`
	UnitDiscountedPrice Money                       `json:"unit_discounted_price" gorm:"type:decimal(15,2);not null"`
	SelectedSize        *string                     `json:"selected_size" gorm:"type:varchar(64)"`
	SelectedColor       *string                     `json:"selected_color" gorm:"type:varchar(64)"`
	Quantity            int                         `json:"quantity" gorm:"not null"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
