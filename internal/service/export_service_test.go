package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-meet-api/internal/models"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
)

type stubUpcomingReader struct {
	meetings []models.Meeting
}

func (s *stubUpcomingReader) ListUpcomingByAdmin(ctx context.Context, adminID string, from, to time.Time) ([]models.Meeting, error) {
	return s.meetings, nil
}

func TestExportServiceRendersCSVInAdminTimezone(t *testing.T) {
	meetings := &stubUpcomingReader{meetings: []models.Meeting{{
		ID:             "meeting-1",
		Type:           models.MeetingTypeFollowUp,
		Status:         models.MeetingStatusScheduled,
		ScheduledStart: time.Date(2026, 8, 31, 2, 0, 0, 0, time.UTC),
		ScheduledEnd:   time.Date(2026, 8, 31, 2, 30, 0, 0, time.UTC),
		StudentIDs:     []string{"student-1"},
	}}}
	svc := NewExportService(&stubAdminResolver{admin: testAdmin()}, meetings, nil)

	data, contentType, err := svc.RenderAgenda(context.Background(), "admin-1", 7, ExportFormatCSV)

	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	body := string(data)
	assert.Contains(t, body, "Date,Start,End,Type,Status,Students,Notes")
	// 02:00 UTC renders as 09:00 Jakarta.
	assert.Contains(t, body, "2026-08-31,09:00,09:30,follow_up,scheduled,student-1,")
}

func TestExportServiceRendersPDF(t *testing.T) {
	svc := NewExportService(&stubAdminResolver{admin: testAdmin()}, &stubUpcomingReader{}, nil)

	data, contentType, err := svc.RenderAgenda(context.Background(), "admin-1", 7, ExportFormatPDF)

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, len(data) > 0)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&stubAdminResolver{admin: testAdmin()}, &stubUpcomingReader{}, nil)

	_, _, err := svc.RenderAgenda(context.Background(), "admin-1", 7, ExportFormat("xlsx"))

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
