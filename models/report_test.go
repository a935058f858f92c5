package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsValidAbuseType(t *testing.T) {
	t.Parallel()

	for _, at := range AbuseTypes {
		assert.True(t, IsValidAbuseType(at))
	}

	assert.False(t, IsValidAbuseType(""))
	assert.False(t, IsValidAbuseType("online harassment"))
	assert.False(t, IsValidAbuseType("Phishing"))
	assert.False(t, IsValidAbuseType("Other "))
}

func TestIsValidReportStatus(t *testing.T) {
	t.Parallel()

	for _, s := range ReportStatuses {
		assert.True(t, IsValidReportStatus(s))
	}

	assert.False(t, IsValidReportStatus(""))
	assert.False(t, IsValidReportStatus("Submitted"))
	assert.False(t, IsValidReportStatus("closed"))
	assert.False(t, IsValidReportStatus("under review"))
}

func TestReplayStatusEmptyHistory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StatusSubmitted, ReplayStatus(nil))
	assert.Equal(t, StatusSubmitted, ReplayStatus([]ReportStatusChange{}))
}

func TestReplayStatusFollowsHistory(t *testing.T) {
	t.Parallel()

	reportID := uuid.New()
	submitted := StatusSubmitted
	underReview := StatusUnderReview

	history := []ReportStatusChange{
		{ReportID: reportID, OldStatus: &submitted, NewStatus: StatusUnderReview},
		{ReportID: reportID, OldStatus: &underReview, NewStatus: StatusRequiresAction},
		{ReportID: reportID, NewStatus: StatusResolved},
	}

	assert.Equal(t, StatusResolved, ReplayStatus(history))
	assert.Equal(t, StatusUnderReview, ReplayStatus(history[:1]))
}

func TestReplayStatusChainsOldStatus(t *testing.T) {
	t.Parallel()

	// Each entry's old status should equal the fold of everything before it.
	submitted := StatusSubmitted
	underReview := StatusUnderReview

	history := []ReportStatusChange{
		{OldStatus: &submitted, NewStatus: StatusUnderReview},
		{OldStatus: &underReview, NewStatus: StatusResolved},
	}

	for i, sc := range history {
		if sc.OldStatus != nil {
			assert.Equal(t, *sc.OldStatus, ReplayStatus(history[:i]))
		}
	}
}
