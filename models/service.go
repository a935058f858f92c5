package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is a support organization listed in the public directory.
type Service struct {
	ID           uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	Organization string         `gorm:"size:255;not null" json:"organization"`
	Location     string         `gorm:"size:255;not null" json:"location"`
	Phone        string         `gorm:"size:50;not null" json:"phone"`
	Website      *string        `gorm:"type:text" json:"website"`
	Description  *string        `gorm:"type:text" json:"description"`
	CreatedAt    time.Time      `gorm:"not null;default:clock_timestamp()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s Service) GetID() uuid.UUID {
	return s.ID
}

func (s Service) GetCreatedAt() time.Time {
	return s.CreatedAt
}
