package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserPreference struct {
	ID                        uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	UserID                    uuid.UUID      `gorm:"not null;unique" json:"user_id"`
	User                      User           `json:"-"`
	Language                  string         `gorm:"size:10;not null;default:'en'" json:"language"`
	Theme                     string         `gorm:"size:20;not null;default:'system'" json:"theme"`
	EmailNotifications        *bool          `gorm:"not null;default:true" json:"email_notifications"`
	ReportStatusNotifications *bool          `gorm:"not null;default:true" json:"report_status_notifications"`
	ResourceUpdates           *bool          `gorm:"not null;default:false" json:"resource_updates"`
	PrivacyLevel              string         `gorm:"size:20;not null;default:'high'" json:"privacy_level"`
	CreatedAt                 time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	UpdatedAt                 time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt                 gorm.DeletedAt `gorm:"index" json:"-"`
}

func (up UserPreference) GetID() uuid.UUID {
	return up.ID
}

func (up UserPreference) GetCreatedAt() time.Time {
	return up.CreatedAt
}
