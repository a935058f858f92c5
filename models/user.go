package models

import (
	"strings"
	"time"

	"alfredoramos.mx/survivor-hub/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                 uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	DisplayName        *string        `gorm:"size:100" json:"display_name"`
	Email              string         `gorm:"size:100;not null;unique" json:"email"`
	Password           string         `gorm:"size:255;not null" json:"-"`
	AvatarURL          *string        `gorm:"type:text" json:"avatar_url"`
	Active             *bool          `gorm:"not null;default:false" json:"active"`
	LastLogin          *time.Time     `json:"-"`
	LastPasswordChange *time.Time     `json:"-"`
	MustChangePassword *bool          `gorm:"default:false" json:"-"`
	CreatedAt          time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	UpdatedAt          time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// BeforeDelete scrambles the credentials so a soft-deleted account cannot be
// logged into even if the row is restored by hand.
func (u *User) BeforeDelete(tx *gorm.DB) error {
	password, err := utils.RandomPassword(35)
	if err != nil {
		return err
	}

	active := false
	now := time.Now().In(utils.DefaultLocation())
	changePass := true

	return tx.Model(&u).Where(&User{ID: u.ID}).Updates(&User{
		Password:           utils.HashPassword(password),
		Active:             &active,
		LastPasswordChange: &now,
		MustChangePassword: &changePass,
	}).Error
}

func (u User) GetID() uuid.UUID {
	return u.ID
}

func (u User) GetCreatedAt() time.Time {
	return u.CreatedAt
}

func (u User) GetDisplayName() string {
	if u.DisplayName != nil && len(strings.TrimSpace(*u.DisplayName)) > 0 {
		return strings.TrimSpace(*u.DisplayName)
	}

	return strings.Split(u.Email, "@")[0]
}
