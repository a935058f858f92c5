package helpers

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"alfredoramos.mx/survivor-hub/app"
	"alfredoramos.mx/survivor-hub/models"
	"alfredoramos.mx/survivor-hub/utils"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation string = "23505"

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

const maxTrackingTries int = 5

var (
	ErrInvalidTrackingFormat = errors.New("The tracking ID format is invalid.")
	ErrReportNotFound        = errors.New("Report not found.")
)

// TrackedReport is the narrow projection returned to anonymous token
// holders. The description and evidence never leave the store on this path
// because holding the token does not prove ownership.
type TrackedReport struct {
	ID          uuid.UUID `json:"id"`
	TrackingID  string    `json:"tracking_id"`
	TypeOfAbuse string    `json:"type_of_abuse"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateReport persists a new report with a freshly minted tracking ID,
// regenerating on collision. The token in the returned report is shown to
// the submitter exactly once.
func CreateReport(typeOfAbuse string, description string, userID *uuid.UUID) (*models.Report, error) {
	for try := 0; try < maxTrackingTries; try++ {
		trackingID, err := utils.NewTrackingID()
		if err != nil {
			sentry.CaptureException(err)
			return nil, err
		}

		existing := &models.Report{}
		if err := app.DB().Unscoped().Where(&models.Report{TrackingID: trackingID}).First(&existing).Error; err == nil {
			slog.Warn(fmt.Sprintf("Tracking ID collision on '%s'. Regenerating.", trackingID))
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		report := &models.Report{
			TrackingID:  trackingID,
			TypeOfAbuse: typeOfAbuse,
			Description: description,
			Status:      models.StatusSubmitted,
			UserID:      userID,
		}

		if err := app.DB().Create(&report).Error; err != nil {
			// The unique index is the arbiter under concurrent creation.
			if isUniqueViolation(err) {
				slog.Warn(fmt.Sprintf("Tracking ID collision on '%s'. Regenerating.", trackingID))
				continue
			}

			slog.Error(fmt.Sprintf("Error creating report: %v", err))

			return nil, err
		}

		return report, nil
	}

	return nil, errors.New("Could not allocate a unique tracking ID.")
}

// TrackReport resolves a tracking token to the report's public status and
// its audit trail. The format gate runs before any query; a well-formed
// token that matches nothing gets the same generic not-found regardless of
// whether it was ever issued.
func TrackReport(trackingID string) (*TrackedReport, []models.ReportStatusChange, error) {
	trackingID = utils.NormalizeTrackingID(trackingID)

	if !utils.IsValidTrackingID(trackingID) {
		return nil, nil, ErrInvalidTrackingFormat
	}

	tracked := &TrackedReport{}
	if err := app.DB().Model(&models.Report{}).
		Select("id", "tracking_id", "type_of_abuse", "status", "created_at").
		Where(&models.Report{TrackingID: trackingID}).
		First(&tracked).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error(fmt.Sprintf("Error looking up report: %v", err))
		}

		return nil, nil, ErrReportNotFound
	}

	history := []models.ReportStatusChange{}
	if err := app.DB().Model(&models.ReportStatusChange{}).
		Where(&models.ReportStatusChange{ReportID: tracked.ID}).
		Order("created_at asc").
		Find(&history).Error; err != nil {
		slog.Error(fmt.Sprintf("Error loading status history: %v", err))
		return nil, nil, ErrReportNotFound
	}

	return tracked, history, nil
}

// ReviewReport applies a moderation decision: the report row and its audit
// record change together or not at all.
func ReviewReport(report *models.Report, newStatus string, notes *string) error {
	now := time.Now().In(utils.DefaultLocation())
	oldStatus := report.Status

	return app.DB().Transaction(func(tx *gorm.DB) error {
		updates := &models.Report{Status: newStatus, ReviewedAt: &now}

		if notes != nil && len(*notes) > 0 {
			updates.AdminNotes = notes
		}

		if err := tx.Model(&report).Where(&models.Report{ID: report.ID}).Updates(&updates).Error; err != nil {
			slog.Error(fmt.Sprintf("Error updating report status: %v", err))
			return err
		}

		statusChange := &models.ReportStatusChange{
			ReportID:  report.ID,
			OldStatus: &oldStatus,
			NewStatus: newStatus,
			Notes:     notes,
		}
		if err := tx.Create(&statusChange).Error; err != nil {
			slog.Error(fmt.Sprintf("Error appending status change: %v", err))
			return err
		}

		return nil
	})
}
