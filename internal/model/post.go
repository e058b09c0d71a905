package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post 博客文章
type Post struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title     string         `json:"title" gorm:"type:varchar(255);not null"`
	Slug      string         `json:"slug" gorm:"type:varchar(255);uniqueIndex:ux_post_slug;not null"`
	Summary   string         `json:"summary" gorm:"type:varchar(1000)"`
	Content   string         `json:"content" gorm:"type:text"`
	Thumbnail string         `json:"thumbnail" gorm:"type:varchar(500)"`
	AuthorID  *string        `json:"author_id" gorm:"type:varchar(36);index:idx_post_author"`
	IsActive  bool           `json:"is_active" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Post) TableName() string { return "posts" }

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
