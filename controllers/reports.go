package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"alfredoramos.mx/survivor-hub/app"
	"alfredoramos.mx/survivor-hub/helpers"
	"alfredoramos.mx/survivor-hub/models"
	"alfredoramos.mx/survivor-hub/tasks"
	"alfredoramos.mx/survivor-hub/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

const (
	minDescriptionLength int = 10
	maxDescriptionLength int = 5000
)

type reportInput struct {
	TypeOfAbuse string `json:"type_of_abuse" form:"type_of_abuse"`
	Description string `json:"description" form:"description"`
}

type reportReviewInput struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// PostReport accepts an anonymous submission with optional evidence uploads.
// The response carries the tracking ID exactly once; it is never delivered
// through any other channel.
func PostReport(c *fiber.Ctx) error {
	input := &reportInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid report data."},
		})
	}

	input.Description = utils.CleanString(input.Description)
	errs := fiber.Map{}

	if !models.IsValidAbuseType(input.TypeOfAbuse) {
		errs = utils.AddError(errs, "type_of_abuse", "Please, select a valid abuse type.")
	}

	if len(input.Description) < minDescriptionLength {
		errs = utils.AddError(errs, "description", "Please, describe the incident.")
	}

	if len(input.Description) > maxDescriptionLength {
		errs = utils.AddError(errs, "description", "The incident description is too long.")
	}

	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	report, err := helpers.CreateReport(input.TypeOfAbuse, input.Description, helpers.GetOptionalUserID(c))
	if err != nil {
		slog.Error(fmt.Sprintf("Error creating report: %v", err))
		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not store the report."},
		})
	}

	evidence := helpers.EvidenceResult{}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		files, dropped := helpers.CapEvidenceFiles(form.File["evidence"])
		evidence = helpers.StoreEvidence(c, report, files)
		evidence.Failed = append(evidence.Failed, dropped...)
	}

	tasks.NotifyNewReport(report.TrackingID, report.TypeOfAbuse, report.CreatedAt)
	publishReportEvent("created", report, report.Status)

	response := fiber.Map{
		"tracking_id": report.TrackingID,
		"status":      report.Status,
		"created_at":  report.CreatedAt,
	}

	if evidence.IsPartial() {
		response["evidence_incomplete"] = true
		response["evidence_failed"] = evidence.Failed
	}

	if len(evidence.Saved) > 0 {
		response["evidence_saved"] = len(evidence.Saved)
	}

	return c.Status(fiber.StatusCreated).JSON(&response)
}

// TrackReport is the anonymous lookup path. A malformed token is rejected
// before touching the database; a well-formed unknown token gets the same
// not-found whether it expired, was mistyped or never existed.
func TrackReport(c *fiber.Ctx) error {
	tracked, history, err := helpers.TrackReport(c.Params("tracking_id"))
	if err != nil {
		if errors.Is(err, helpers.ErrInvalidTrackingFormat) {
			return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
				"error": []string{app.Translate(c, &i18n.LocalizeConfig{DefaultMessage: &i18n.Message{
					ID:    "report_tracking_invalid",
					Other: helpers.ErrInvalidTrackingFormat.Error(),
				}})},
			})
		}

		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{
			"error": []string{app.Translate(c, &i18n.LocalizeConfig{DefaultMessage: &i18n.Message{
				ID:    "report_tracking_not_found",
				Other: helpers.ErrReportNotFound.Error(),
			}})},
		})
	}

	changes := []fiber.Map{}
	for _, h := range history {
		changes = append(changes, fiber.Map{
			"old_status": h.OldStatus,
			"new_status": h.NewStatus,
			"notes":      h.Notes,
			"created_at": h.CreatedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"tracking_id":   tracked.TrackingID,
		"type_of_abuse": tracked.TypeOfAbuse,
		"status":        tracked.Status,
		"created_at":    tracked.CreatedAt,
		"history":       changes,
	})
}

func GetAllReports(c *fiber.Ctx) error {
	reports := []models.Report{}
	query := app.DB().Model(&models.Report{})

	if status := c.Query("status"); len(status) > 0 {
		if !models.IsValidReportStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
				"error": []string{"The requested status filter is invalid."},
			})
		}

		query = query.Where(&models.Report{Status: status})
	}

	if abuseType := c.Query("type_of_abuse"); len(abuseType) > 0 {
		if !models.IsValidAbuseType(abuseType) {
			return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
				"error": []string{"The requested abuse type filter is invalid."},
			})
		}

		query = query.Where(&models.Report{TypeOfAbuse: abuseType})
	}

	if search := c.Query("search"); len(strings.TrimSpace(search)) > 0 && utils.IsValidSearch(search) {
		query = query.Where("tracking_id LIKE ?", utils.TrackingSearchPattern(search))
	}

	opts := helpers.PaginatedItemOpts{RouteName: "api.reports.index", TableAlias: helpers.GetModelSchema(&models.Report{}).Table}

	return helpers.PaginateQuery(reports, query, c, opts)
}

func GetReport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil || !utils.IsValidUuid(id) {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested report is invalid."},
		})
	}

	report := &models.Report{ID: id}
	if err := app.DB().Where(&report).First(&report).Error; err != nil {
		slog.Error(fmt.Sprintf("Error getting report: %v", err))
		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{
			"error": []string{helpers.ErrReportNotFound.Error()},
		})
	}

	evidence := []models.EvidenceFile{}
	if err := app.DB().Where(&models.EvidenceFile{ReportID: report.ID}).Order("created_at asc").Find(&evidence).Error; err != nil {
		slog.Error(fmt.Sprintf("Error loading evidence metadata: %v", err))
	}

	history := []models.ReportStatusChange{}
	if err := app.DB().Where(&models.ReportStatusChange{ReportID: report.ID}).Order("created_at asc").Find(&history).Error; err != nil {
		slog.Error(fmt.Sprintf("Error loading status history: %v", err))
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"report":   report,
		"evidence": evidence,
		"history":  history,
	})
}

// UpdateReportStatus applies a moderation decision and notifies the
// submitter's account when the report is linked to one. Anonymous reports
// only ever learn about the change through the tracking lookup.
func UpdateReportStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil || !utils.IsValidUuid(id) {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested report is invalid."},
		})
	}

	input := &reportReviewInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid report review data."},
		})
	}

	if !models.IsValidReportStatus(input.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": utils.AddError(fiber.Map{}, "status", "Please, select a valid report status."),
		})
	}

	report := &models.Report{ID: id}
	if err := app.DB().Where(&report).First(&report).Error; err != nil {
		slog.Error(fmt.Sprintf("Error getting report: %v", err))
		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{
			"error": []string{helpers.ErrReportNotFound.Error()},
		})
	}

	if report.Status == input.Status {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The report already has the requested status."},
		})
	}

	if err := helpers.ReviewReport(report, input.Status, input.Notes); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not update the report status."},
		})
	}

	publishReportEvent("status_changed", report, input.Status)

	if report.UserID != nil {
		notifyLinkedSubmitter(*report.UserID, report.TrackingID, input.Status)
	}

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

func notifyLinkedSubmitter(userID uuid.UUID, trackingID string, newStatus string) {
	user := &models.User{ID: userID}
	if err := app.DB().Where(&user).First(&user).Error; err != nil {
		slog.Error(fmt.Sprintf("Error getting report submitter: %v", err))
		return
	}

	prefs := &models.UserPreference{UserID: userID}
	if err := app.DB().Where(&prefs).First(&prefs).Error; err == nil {
		if (prefs.EmailNotifications != nil && !*prefs.EmailNotifications) ||
			(prefs.ReportStatusNotifications != nil && !*prefs.ReportStatusNotifications) {
			return
		}
	}

	if err := tasks.NewEmail(
		helpers.EmailOpts{
			Subject:      "Your report status changed",
			TemplateName: "report_status_update",
			ToList:       []string{user.Email},
		},
		map[string]interface{}{
			"UserName":       user.GetDisplayName(),
			"TrackingID":     trackingID,
			"NewStatus":      newStatus,
			"ReviewDateTime": time.Now().In(utils.DefaultLocation()).Format("2006-01-02 15:04:05 -07:00"),
		},
	); err != nil {
		slog.Error(fmt.Sprintf("Error sending email: %v", err))
	}
}
