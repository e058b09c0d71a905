package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer 下单客户，按 email 或 phone 识别回头客
type Customer struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FullName  string    `json:"full_name" gorm:"type:varchar(255);not null"`
	Email     *string   `json:"email" gorm:"type:varchar(255);index:idx_customer_email"`
	Phone     *string   `json:"phone" gorm:"type:varchar(32);index:idx_customer_phone"`
	Address   *string   `json:"address" gorm:"type:varchar(500)"`
	Note      *string   `json:"note" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
