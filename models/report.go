package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusSubmitted      string = "submitted"
	StatusUnderReview    string = "under_review"
	StatusResolved       string = "resolved"
	StatusRequiresAction string = "requires_action"
)

// AbuseTypes is the closed set of report categories. Submissions with any
// other value are rejected server-side even when the client gate is bypassed.
var AbuseTypes = []string{
	"Online Harassment",
	"Cyberstalking",
	"Non-consensual Image Sharing",
	"Doxxing",
	"Identity Theft",
	"Hacking/Unauthorized Access",
	"Threats",
	"Other",
}

var ReportStatuses = []string{
	StatusSubmitted,
	StatusUnderReview,
	StatusResolved,
	StatusRequiresAction,
}

type Report struct {
	ID          uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	TrackingID  string         `gorm:"size:12;not null;unique" json:"tracking_id"`
	TypeOfAbuse string         `gorm:"size:100;not null" json:"type_of_abuse"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Status      string         `gorm:"size:50;not null;default:'submitted'" json:"status"`
	AdminNotes  *string        `gorm:"type:text" json:"admin_notes"`
	ReviewedAt  *time.Time     `json:"reviewed_at"`
	UserID      *uuid.UUID     `json:"-"`
	CreatedAt   time.Time      `gorm:"not null;default:clock_timestamp()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r Report) GetID() uuid.UUID {
	return r.ID
}

func (r Report) GetCreatedAt() time.Time {
	return r.CreatedAt
}

type ReportStatusChange struct {
	ID        uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	ReportID  uuid.UUID      `gorm:"not null;index" json:"report_id"`
	Report    Report         `json:"-"`
	OldStatus *string        `gorm:"size:50" json:"old_status"`
	NewStatus string         `gorm:"size:50;not null" json:"new_status"`
	Notes     *string        `gorm:"type:text" json:"notes"`
	CreatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (sc ReportStatusChange) GetID() uuid.UUID {
	return sc.ID
}

func (sc ReportStatusChange) GetCreatedAt() time.Time {
	return sc.CreatedAt
}

func IsValidAbuseType(t string) bool {
	return slices.Contains(AbuseTypes, t)
}

func IsValidReportStatus(s string) bool {
	return slices.Contains(ReportStatuses, s)
}

// ReplayStatus folds a report's audit trail, ordered by creation time,
// starting from the submitted state. The result must match the report row's
// current status.
func ReplayStatus(history []ReportStatusChange) string {
	status := StatusSubmitted

	for _, sc := range history {
		status = sc.NewStatus
	}

	return status
}
