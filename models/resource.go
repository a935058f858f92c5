package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Resource struct {
	ID        uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Category  string         `gorm:"size:50;not null" json:"category"`
	CreatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r Resource) GetID() uuid.UUID {
	return r.ID
}

func (r Resource) GetCreatedAt() time.Time {
	return r.CreatedAt
}
