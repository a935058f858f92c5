package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"alfredoramos.mx/survivor-hub/helpers"
	"alfredoramos.mx/survivor-hub/utils"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

const (
	TaskReportNotification string = "report:notification"
)

// ReportNotificationPayload is the whole of what a submission leaks into the
// queue. The description, evidence and submitter identity never enter the
// payload, so a compromised broker or mailbox only ever sees the category.
type ReportNotificationPayload struct {
	TrackingID  string    `json:"tracking_id"`
	TypeOfAbuse string    `json:"type_of_abuse"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func NewReportNotificationTask(trackingID string, typeOfAbuse string, submittedAt time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(ReportNotificationPayload{
		TrackingID:  trackingID,
		TypeOfAbuse: typeOfAbuse,
		SubmittedAt: submittedAt,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskReportNotification, payload), nil
}

func HandleReportNotificationTask(ctx context.Context, t *asynq.Task) error {
	p := ReportNotificationPayload{}
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("Could not decode payload: %w: %w", err, asynq.SkipRetry)
	}

	to := utils.AdminNotificationEmail()
	if len(to) < 1 {
		slog.Warn("No administrator notification email configured. Skipping report notification.")
		return nil
	}

	opts := helpers.EmailOpts{
		Subject:      "New incident report received",
		TemplateName: "report_notification",
		ToList:       []string{to},
		IsInternal:   true,
	}

	//nolint:contextcheck
	if err := helpers.SendEmail(opts, map[string]interface{}{
		"TrackingID":  p.TrackingID,
		"TypeOfAbuse": p.TypeOfAbuse,
		"SubmittedAt": p.SubmittedAt.In(utils.DefaultLocation()),
	}); err != nil {
		sentry.CaptureException(err)
		return fmt.Errorf("Could not deliver report notification: %w", err)
	}

	return nil
}

// NotifyNewReport enqueues the side-channel notification for a fresh
// submission. Delivery failures stay in the queue; they never surface to the
// submitter because the report is already safely stored.
func NotifyNewReport(trackingID string, typeOfAbuse string, submittedAt time.Time) {
	task, err := NewReportNotificationTask(trackingID, typeOfAbuse, submittedAt)
	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Could not create task: %v", err))
		return
	}

	info, err := AsynqClient().Enqueue(task, asynq.MaxRetry(5), asynq.Queue("critical"), asynq.Retention(24*time.Hour))
	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Could not enqueue task: %v", err))
		return
	}

	slog.Info(fmt.Sprintf("Enqueued task: [%s] %s", info.ID, info.Queue))
}
