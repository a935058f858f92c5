package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportNotificationPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	submittedAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	task, err := NewReportNotificationTask("RPT-AB12CD34", "Doxxing", submittedAt)
	require.NoError(t, err)
	assert.Equal(t, TaskReportNotification, task.Type())

	p := ReportNotificationPayload{}
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "RPT-AB12CD34", p.TrackingID)
	assert.Equal(t, "Doxxing", p.TypeOfAbuse)
	assert.True(t, submittedAt.Equal(p.SubmittedAt))
}

// The queue payload must never grow beyond the three public fields. Anything
// else, the description above all, would leak report content into Redis and
// the notification mailbox.
func TestReportNotificationPayloadCarriesOnlyPublicFields(t *testing.T) {
	t.Parallel()

	task, err := NewReportNotificationTask("RPT-AB12CD34", "Threats", time.Now())
	require.NoError(t, err)

	fields := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(task.Payload(), &fields))

	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "tracking_id")
	assert.Contains(t, fields, "type_of_abuse")
	assert.Contains(t, fields, "submitted_at")
}
