package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EvidenceFile links an uploaded blob to its report. FileURL is the random
// storage name, never the submitter's filename; FileName is display only.
type EvidenceFile struct {
	ID        uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	ReportID  uuid.UUID      `gorm:"not null;index" json:"report_id"`
	Report    Report         `json:"-"`
	FileURL   string         `gorm:"type:text;not null" json:"file_url"`
	FileName  string         `gorm:"size:255;not null" json:"file_name"`
	CreatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (f EvidenceFile) GetID() uuid.UUID {
	return f.ID
}

func (f EvidenceFile) GetCreatedAt() time.Time {
	return f.CreatedAt
}
