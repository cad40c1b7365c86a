package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/interference-service/internal/config"
	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/events"
)

// Notification is the rendered form of a report event.
type Notification struct {
	Event   events.EventType
	Subject string
	// Email is set for events the reporter should hear about.
	Email bool
}

// NotificationService turns report events into outbound notifications.
// Email and webhook delivery are log-only until real transports exist.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger.Named("notifications"),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to every report event.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.SubscribeAll(n.handle)
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	note, ok := Render(event)
	if !ok {
		n.logger.Debug("event ignored", zap.String("event_type", string(event.Type)))
		return nil
	}
	n.logger.Info(note.Subject,
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("report_id", event.ReportID),
		zap.String("actor_id", event.ActorID))
	if note.Email {
		n.sendEmail(ctx, note)
	}
	n.sendWebhook(ctx, note)
	return nil
}

// Render builds the notification for event. Unknown events and payloads of
// the wrong shape are not rendered.
func Render(event events.Event) (Notification, bool) {
	note := Notification{Event: event.Type}
	switch p := event.Payload.(type) {
	case events.ReportCreatedPayload:
		note.Subject = fmt.Sprintf("Report #%d received: %s on %s", event.ReportID, humanize(string(p.InterferenceType)), p.ServiceType)
		note.Email = true
	case events.ReportStatusChangedPayload:
		note.Subject = fmt.Sprintf("Report #%d moved from %s to %s", event.ReportID, p.OldStatus, p.NewStatus)
		note.Email = p.NewStatus == domain.ReportStatusResolved
	case events.ReportAssignedPayload:
		if p.PreviousTechnicianID != nil {
			note.Subject = fmt.Sprintf("Report #%d reassigned from technician %d to %d", event.ReportID, *p.PreviousTechnicianID, p.TechnicianID)
		} else {
			note.Subject = fmt.Sprintf("Report #%d assigned to technician %d", event.ReportID, p.TechnicianID)
		}
	case events.ReportUnassignedPayload:
		note.Subject = fmt.Sprintf("Report #%d released by technician %d", event.ReportID, p.TechnicianID)
	case events.ReportNotesUpdatedPayload:
		note.Subject = fmt.Sprintf("Technician %d updated notes on report #%d: %s", p.TechnicianID, event.ReportID, p.NotesPreview)
	case events.TechnicianCreatedPayload:
		note.Subject = fmt.Sprintf("Technician %s joined (%s)", p.Name, p.Specialization)
	default:
		return Notification{}, false
	}
	return note, true
}

func humanize(code string) string {
	return strings.ToLower(strings.ReplaceAll(code, "_", " "))
}

func (n *NotificationService) sendEmail(_ context.Context, note Notification) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email queued", zap.String("from", n.cfg.EmailFrom), zap.String("subject", note.Subject))
}

func (n *NotificationService) sendWebhook(_ context.Context, note Notification) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook queued", zap.String("url", n.cfg.WebhookURL), zap.String("event_type", string(note.Event)))
}
