package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/models"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
)

type artifactStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
}

type urlSigner interface {
	Generate(meetingID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (meetingID, relPath string, expiresAt time.Time, err error)
}

var meetingTypeTitles = map[models.MeetingType]string{
	models.MeetingTypeEvaluation:  "Student evaluation",
	models.MeetingTypeFollowUp:    "Follow-up meeting",
	models.MeetingTypeTeacherSync: "Teacher sync",
}

// ArtifactService produces the calendar attachments for a booked meeting:
// a downloadable .ics behind a signed token plus Google and Outlook
// deep links.
type ArtifactService struct {
	storage artifactStorage
	signer  urlSigner
	logger  *zap.Logger
}

func NewArtifactService(storage artifactStorage, signer urlSigner, logger *zap.Logger) *ArtifactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArtifactService{storage: storage, signer: signer, logger: logger}
}

// Generate renders and stores the .ics file and builds the provider links.
func (s *ArtifactService) Generate(ctx context.Context, meeting *models.Meeting, admin *models.Admin) (*dto.ArtifactHandle, error) {
	title := meetingTypeTitles[meeting.Type]
	if title == "" {
		title = string(meeting.Type)
	}
	summary := fmt.Sprintf("%s with %s", title, admin.Name)
	description := buildDescription(meeting, admin)

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodRequest)
	cal.SetProductId("-//sma-meet-api//booking//EN")

	event := cal.AddEvent(meeting.ID)
	event.SetCreatedTime(time.Now().UTC())
	event.SetDtStampTime(time.Now().UTC())
	event.SetStartAt(meeting.ScheduledStart)
	event.SetEndAt(meeting.ScheduledEnd)
	event.SetSummary(summary)
	event.SetDescription(description)
	event.SetOrganizer(admin.Email, ical.WithCN(admin.Name))

	relPath := fmt.Sprintf("%s.ics", meeting.ID)
	if _, err := s.storage.Save(relPath, []byte(cal.Serialize())); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store calendar file")
	}

	token, expiresAt, err := s.signer.Generate(meeting.ID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign calendar link")
	}

	return &dto.ArtifactHandle{
		ICSToken:    token,
		ICSExpires:  expiresAt,
		GoogleLink:  googleCalendarLink(summary, description, meeting),
		OutlookLink: outlookCalendarLink(summary, description, meeting),
	}, nil
}

// Fetch returns the stored .ics payload for a valid signed token.
func (s *ArtifactService) Fetch(ctx context.Context, token string) ([]byte, error) {
	meetingID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid calendar link")
	}
	data, err := s.storage.Read(relPath)
	if err != nil {
		s.logger.Warn("calendar file missing", zap.String("meeting_id", meetingID), zap.Error(err))
		return nil, appErrors.Clone(appErrors.ErrNotFound, "calendar file not found")
	}
	return data, nil
}

func buildDescription(meeting *models.Meeting, admin *models.Admin) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Meeting type: %s\n", meeting.Type)
	fmt.Fprintf(&b, "Duration: %d minutes\n", meeting.DurationMinutes)
	fmt.Fprintf(&b, "With: %s\n", admin.Name)
	if len(meeting.StudentIDs) > 0 {
		fmt.Fprintf(&b, "Students: %s\n", strings.Join(meeting.StudentIDs, ", "))
	}
	if meeting.Notes != nil && *meeting.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", *meeting.Notes)
	}
	return b.String()
}

// googleCalendarLink builds a calendar.google.com render URL. Times are
// compact UTC stamps per the dates query parameter format.
func googleCalendarLink(summary, description string, meeting *models.Meeting) string {
	const stamp = "20060102T150405Z"
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", summary)
	q.Set("details", description)
	q.Set("dates", fmt.Sprintf("%s/%s",
		meeting.ScheduledStart.UTC().Format(stamp),
		meeting.ScheduledEnd.UTC().Format(stamp)))
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}

func outlookCalendarLink(summary, description string, meeting *models.Meeting) string {
	q := url.Values{}
	q.Set("path", "/calendar/action/compose")
	q.Set("rru", "addevent")
	q.Set("subject", summary)
	q.Set("body", description)
	q.Set("startdt", meeting.ScheduledStart.UTC().Format(time.RFC3339))
	q.Set("enddt", meeting.ScheduledEnd.UTC().Format(time.RFC3339))
	return "https://outlook.live.com/calendar/0/deeplink/compose?" + q.Encode()
}
