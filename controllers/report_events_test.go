package controllers

import (
	"encoding/json"
	"testing"
	"time"

	"alfredoramos.mx/survivor-hub/app"
	"alfredoramos.mx/survivor-hub/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReportEventReachesSubscribers(t *testing.T) {
	sub := app.ReportEvents().Subscribe()
	defer app.ReportEvents().Unsubscribe(sub)

	report := &models.Report{ID: uuid.New(), TrackingID: "RPT-AB12CD34"}
	publishReportEvent("status_changed", report, models.StatusUnderReview)

	select {
	case raw := <-sub:
		event := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(raw), &event))

		assert.Equal(t, "status_changed", event["action"])
		assert.Equal(t, report.ID.String(), event["report_id"])
		assert.Equal(t, "RPT-AB12CD34", event["tracking_id"])
		assert.Equal(t, models.StatusUnderReview, event["status"])
		assert.NotEmpty(t, event["occurred_at"])
	case <-time.After(time.Second):
		t.Fatal("expected a report event on the subscribed channel")
	}
}
