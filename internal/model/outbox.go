package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Outbox 状态
const (
	OutboxPending = "pending"
	OutboxDone    = "done"
	OutboxFailed  = "failed"
)

// 事件类型
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// Outbox 事务外发盒：与业务数据同事务写入，由中继异步投递到消息队列
type Outbox struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	AggregateID string    `gorm:"type:varchar(36);index:idx_outbox_aggregate;not null"`
	EventType   string    `gorm:"type:varchar(64);not null"`
	Payload     string    `gorm:"type:text;not null"`
	Status      string    `gorm:"type:varchar(16);index:idx_outbox_status_created;not null"`
	Attempts    int       `gorm:"not null"`
	LastError   string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"index:idx_outbox_status_created"`
	ProcessedAt *time.Time
}

func (Outbox) TableName() string { return "outbox" }

func (o *Outbox) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Status == "" {
		o.Status = OutboxPending
	}
	return nil
}
