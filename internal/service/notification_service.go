package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/models"
	"github.com/noah-isme/sma-meet-api/pkg/jobs"
)

// Notifier delivers a booking confirmation to the participants. The
// default implementation only logs; deployments plug in email or WhatsApp
// senders.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, payload BookingNotification) error
}

// BookingNotification is the payload handed to the notifier.
type BookingNotification struct {
	MeetingID   string              `json:"meeting_id"`
	MeetingType string              `json:"meeting_type"`
	AdminID     string              `json:"admin_id"`
	GuardianID  string              `json:"guardian_id"`
	TeacherID   *string             `json:"teacher_id,omitempty"`
	StudentIDs  []string            `json:"student_ids"`
	StartsAt    string              `json:"starts_at"`
	EndsAt      string              `json:"ends_at"`
	Timezone    string              `json:"timezone"`
	Artifacts   *dto.ArtifactHandle `json:"artifacts,omitempty"`
}

// LogNotifier writes confirmations to the application log.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendBookingConfirmation(ctx context.Context, payload BookingNotification) error {
	n.logger.Info("booking confirmation",
		zap.String("meeting_id", payload.MeetingID),
		zap.String("guardian_id", payload.GuardianID),
		zap.String("starts_at", payload.StartsAt),
	)
	return nil
}

const jobTypeBookingConfirmation = "booking_confirmation"

// NotificationService decouples booking commits from delivery through the
// in-memory job queue. Delivery is at-least-once and never blocks the
// booking response.
type NotificationService struct {
	queue    *jobs.Queue
	notifier Notifier
	logger   *zap.Logger
}

func NewNotificationService(notifier Notifier, cfg jobs.QueueConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	s := &NotificationService{notifier: notifier, logger: logger}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("notifications", s.handle, cfg)
	return s
}

// Start launches the worker pool. Call once during startup.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue and waits for workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

func (s *NotificationService) EnqueueBooked(meeting *models.Meeting, artifacts *dto.ArtifactHandle) error {
	payload := BookingNotification{
		MeetingID:   meeting.ID,
		MeetingType: string(meeting.Type),
		AdminID:     meeting.AdminID,
		GuardianID:  meeting.GuardianID,
		TeacherID:   meeting.TeacherID,
		StudentIDs:  meeting.StudentIDs,
		StartsAt:    meeting.ScheduledStart.Format(time.RFC3339),
		EndsAt:      meeting.ScheduledEnd.Format(time.RFC3339),
		Timezone:    meeting.Timezone,
		Artifacts:   artifacts,
	}
	return s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobTypeBookingConfirmation,
		Payload: payload,
	})
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(BookingNotification)
	if !ok {
		return fmt.Errorf("unexpected payload type %T for job %s", job.Payload, job.ID)
	}
	switch job.Type {
	case jobTypeBookingConfirmation:
		return s.notifier.SendBookingConfirmation(ctx, payload)
	default:
		return fmt.Errorf("unknown job type %q", job.Type)
	}
}
