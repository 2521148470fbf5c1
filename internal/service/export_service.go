package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-meet-api/internal/models"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
	"github.com/noah-isme/sma-meet-api/pkg/export"
)

type upcomingMeetingReader interface {
	ListUpcomingByAdmin(ctx context.Context, adminID string, from, to time.Time) ([]models.Meeting, error)
}

// ExportFormat selects the agenda output encoding.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportService renders an admin's upcoming meeting agenda as CSV or PDF.
type ExportService struct {
	resolver AdminResolver
	meetings upcomingMeetingReader
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
	now      func() time.Time
}

func NewExportService(resolver AdminResolver, meetings upcomingMeetingReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		resolver: resolver,
		meetings: meetings,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *ExportService) WithClock(now func() time.Time) *ExportService {
	s.now = now
	return s
}

var agendaHeaders = []string{"Date", "Start", "End", "Type", "Status", "Students", "Notes"}

// RenderAgenda returns the encoded agenda and its content type. Times are
// rendered in the admin's timezone.
func (s *ExportService) RenderAgenda(ctx context.Context, adminID string, days int, format ExportFormat) ([]byte, string, error) {
	admin, err := s.resolver.Resolve(ctx, adminID)
	if err != nil {
		return nil, "", err
	}
	if days <= 0 {
		days = 7
	}

	from := s.now().UTC()
	to := from.AddDate(0, 0, days)
	meetings, err := s.meetings.ListUpcomingByAdmin(ctx, admin.ID, from, to)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load upcoming meetings")
	}

	loc, locErr := time.LoadLocation(admin.Timezone)
	if locErr != nil {
		loc = time.UTC
	}

	dataset := export.Dataset{Headers: agendaHeaders}
	for _, m := range meetings {
		start := m.ScheduledStart.In(loc)
		end := m.ScheduledEnd.In(loc)
		notes := ""
		if m.Notes != nil {
			notes = *m.Notes
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":     start.Format("2006-01-02"),
			"Start":    start.Format("15:04"),
			"End":      end.Format("15:04"),
			"Type":     string(m.Type),
			"Status":   string(m.Status),
			"Students": strings.Join(m.StudentIDs, ", "),
			"Notes":    notes,
		})
	}

	switch format {
	case ExportFormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv agenda")
		}
		return data, "text/csv", nil
	case ExportFormatPDF:
		title := fmt.Sprintf("Meeting agenda for %s", admin.Name)
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf agenda")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
