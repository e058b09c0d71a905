package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCounterName 访客计数器
const DefaultCounterName = "visitor"

// Counter 按天聚合的计数，(name, day) 唯一
type Counter struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(64);not null;uniqueIndex:ux_counter_name_day"`
	Day       string    `json:"day" gorm:"type:varchar(10);not null;uniqueIndex:ux_counter_name_day"` // YYYY-MM-DD (UTC)
	Count     int64     `json:"count" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Counter) TableName() string { return "counters" }

func (c *Counter) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
