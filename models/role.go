package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID        uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	Title     string         `gorm:"size:50;not null" json:"title"`
	Name      string         `gorm:"size:50;not null;unique" json:"name"`
	CreatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	UpdatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r Role) GetID() uuid.UUID {
	return r.ID
}

func (r Role) GetCreatedAt() time.Time {
	return r.CreatedAt
}

type UserRole struct {
	ID          uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID      `gorm:"not null;index" json:"user_id"`
	User        User           `json:"-"`
	RoleID      uuid.UUID      `gorm:"not null;index" json:"role_id"`
	Role        Role           `json:"-"`
	CreatedByID *uuid.UUID     `json:"-"`
	UpdatedByID *uuid.UUID     `json:"-"`
	CreatedAt   time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	UpdatedAt   time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ur UserRole) GetID() uuid.UUID {
	return ur.ID
}

func (ur UserRole) GetCreatedAt() time.Time {
	return ur.CreatedAt
}
