package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Translation struct {
	ID        uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	Key       string         `gorm:"size:255;not null;unique" json:"key"`
	En        string         `gorm:"type:text;not null" json:"en"`
	Sw        string         `gorm:"type:text;not null" json:"sw"`
	Category  string         `gorm:"size:100;not null" json:"category"`
	CreatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	UpdatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t Translation) GetID() uuid.UUID {
	return t.ID
}

func (t Translation) GetCreatedAt() time.Time {
	return t.CreatedAt
}
